package domain

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type BookingStatus string

const (
	BookingUnconfirmed BookingStatus = "Unconfirmed"
	BookingPossible    BookingStatus = "Possible"
	BookingConfirmed   BookingStatus = "Confirmed"
	BookingPaid        BookingStatus = "Paid"
	BookingCancelled   BookingStatus = "Cancelled"
	BookingRefunded    BookingStatus = "Refunded"
)

// Terminal reports whether no further transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingRefunded
}

// Guest is the opaque reference the engine receives from the user
// management collaborator. Only the name is consumed here, for
// payments and invoices.
type Guest struct {
	ID    string
	Name  string
	Email string
}

// RoomAssignment is the allocation state of a booking: either
// unassigned or bound to a room. Callers must check Assigned (or the
// second return of Room) before using the room.
type RoomAssignment struct {
	room *Room
}

func (a RoomAssignment) Assigned() bool { return a.room != nil }

func (a RoomAssignment) Room() (*Room, bool) { return a.room, a.room != nil }

// Booking is one guest's requested stay. The identifier comes from an
// injected Sequence and is never reused. Status moves through
// Unconfirmed, Possible, Confirmed and Paid, with Cancelled and
// Refunded reachable from any non-terminal state; cancelled and
// refunded bookings are retained, never destroyed.
type Booking struct {
	ID       int64
	Arrive   time.Time
	Depart   time.Time
	BookedOn time.Time
	Guest    Guest

	mu         sync.Mutex
	assignment RoomAssignment
	status     BookingStatus
}

// NewBooking builds a candidate stay. Arrival must be strictly before
// departure; the booking date defaults to now.
func NewBooking(seq *Sequence, guest Guest, arrive, depart time.Time) (*Booking, error) {
	if strings.TrimSpace(guest.ID) == "" {
		return nil, fmt.Errorf("%w: guest reference is required", ErrValidation)
	}
	arrive = toDay(arrive)
	depart = toDay(depart)
	if !arrive.Before(depart) {
		return nil, fmt.Errorf("%w: arrival %s must be before departure %s",
			ErrValidation, arrive.Format("2006-01-02"), depart.Format("2006-01-02"))
	}
	return &Booking{
		ID:       seq.Next(),
		Arrive:   arrive,
		Depart:   depart,
		BookedOn: time.Now(),
		Guest:    guest,
		status:   BookingUnconfirmed,
	}, nil
}

func (b *Booking) Status() BookingStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Assignment returns the booking's allocation state.
func (b *Booking) Assignment() RoomAssignment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.assignment
}

// Room is shorthand for Assignment().Room().
func (b *Booking) Room() (*Room, bool) {
	return b.Assignment().Room()
}

// Nights returns the whole-day length of the stay.
func (b *Booking) Nights() int {
	return int(b.Depart.Sub(b.Arrive) / (24 * time.Hour))
}

// markPossible binds the booking to a room during allocation. Called
// by Room.TryAllocate under the room mutex.
func (b *Booking) markPossible(room *Room) error {
	return b.transition(BookingPossible, func() { b.assignment = RoomAssignment{room: room} }, BookingUnconfirmed)
}

// confirm is called by Room.ConfirmBooking once the date commit is
// certain to succeed.
func (b *Booking) confirm() error {
	return b.transition(BookingConfirmed, nil, BookingPossible)
}

// MarkPaid records a completed settlement.
func (b *Booking) MarkPaid() error {
	return b.transition(BookingPaid, nil, BookingConfirmed)
}

// Cancel moves any non-terminal booking to Cancelled.
func (b *Booking) Cancel() error {
	return b.transition(BookingCancelled, nil,
		BookingUnconfirmed, BookingPossible, BookingConfirmed, BookingPaid)
}

// Refund moves any non-terminal booking to Refunded. Settlement calls
// this when the payment for the stay is refunded.
func (b *Booking) Refund() error {
	return b.transition(BookingRefunded, nil,
		BookingUnconfirmed, BookingPossible, BookingConfirmed, BookingPaid)
}

func (b *Booking) transition(to BookingStatus, apply func(), from ...BookingStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range from {
		if b.status == s {
			if apply != nil {
				apply()
			}
			b.status = to
			return nil
		}
	}
	return fmt.Errorf("%w: booking %d cannot move from %s to %s", ErrStateConflict, b.ID, b.status, to)
}

// stayDates expands the half-open interval [Arrive, Depart) into
// individual days. A one-night stay yields exactly one date; an empty
// interval yields none.
func (b *Booking) stayDates() []time.Time {
	var days []time.Time
	for day := b.Arrive; day.Before(b.Depart); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

func (b *Booking) String() string {
	roomDesc := "unassigned"
	if room, ok := b.Room(); ok {
		roomDesc = fmt.Sprintf("room %d", room.Number)
	}
	return fmt.Sprintf("Booking{id=%d, guest=%s, %s, arrive=%s, depart=%s, status=%s}",
		b.ID, b.Guest.Name, roomDesc,
		b.Arrive.Format("2006-01-02"), b.Depart.Format("2006-01-02"), b.Status())
}

// toDay normalises a timestamp to UTC midnight so date identity does
// not depend on the wall-clock time or zone of the input.
func toDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
