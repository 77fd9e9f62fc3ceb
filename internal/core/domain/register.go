package domain

import (
	"sort"
	"time"
)

// BookingRegister records the bookings and reserved calendar dates of
// a single room. The flat set of committed dates is the authoritative
// source for overlap detection; bookings are added to the register at
// allocation but their dates are committed only on confirmation, so a
// tentative booking never blocks another guest.
//
// The register carries no lock of its own: the owning room's mutex
// guards every mutation.
type BookingRegister struct {
	bookings    map[int64]*Booking
	bookedDates map[time.Time]int64
}

func NewBookingRegister() *BookingRegister {
	return &BookingRegister{
		bookings:    make(map[int64]*Booking),
		bookedDates: make(map[time.Time]int64),
	}
}

// Add records the booking under its identifier. Adding alone does not
// affect overlap detection.
func (r *BookingRegister) Add(b *Booking) {
	r.bookings[b.ID] = b
}

// CommitDates expands the booking's half-open interval
// [arrival, departure) into individual days and marks each as booked.
// Call this only once the booking is confirmed.
func (r *BookingRegister) CommitDates(b *Booking) {
	for _, day := range b.stayDates() {
		r.bookedDates[day] = b.ID
	}
}

// Overlaps reports whether any day of the candidate's stay is already
// booked. The departure day itself is never occupied, so a stay may
// begin on another booking's departure date.
func (r *BookingRegister) Overlaps(candidate *Booking) bool {
	for _, day := range candidate.stayDates() {
		if owner, ok := r.bookedDates[day]; ok && owner != candidate.ID {
			return true
		}
	}
	return false
}

// Release removes the booking and any dates committed for it.
func (r *BookingRegister) Release(b *Booking) {
	delete(r.bookings, b.ID)
	for day, owner := range r.bookedDates {
		if owner == b.ID {
			delete(r.bookedDates, day)
		}
	}
}

// HasCommittedDates reports whether any confirmed stay occupies the room.
func (r *BookingRegister) HasCommittedDates() bool {
	return len(r.bookedDates) > 0
}

// Bookings returns the registered bookings in ascending booking-ID
// order for deterministic enumeration.
func (r *BookingRegister) Bookings() []*Booking {
	ids := make([]int64, 0, len(r.bookings))
	for id := range r.bookings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*Booking, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.bookings[id])
	}
	return out
}

// Guests returns the guests of the registered bookings, ordered by
// booking ID.
func (r *BookingRegister) Guests() []Guest {
	bookings := r.Bookings()
	out := make([]Guest, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.Guest)
	}
	return out
}

// BookedDates returns the committed dates in chronological order.
func (r *BookingRegister) BookedDates() []time.Time {
	out := make([]time.Time, 0, len(r.bookedDates))
	for day := range r.bookedDates {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
