package domain

import (
	"fmt"
	"strings"
	"sync"
)

type RoomType string

const (
	RoomSingle       RoomType = "Single"
	RoomDouble       RoomType = "Double"
	RoomDeluxe       RoomType = "Deluxe"
	RoomSuite        RoomType = "Suite"
	RoomFamily       RoomType = "Family"
	RoomPresidential RoomType = "Presidential"
)

// ParseRoomType converts free-form text into a RoomType, ignoring case.
func ParseRoomType(s string) (RoomType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return RoomSingle, nil
	case "double":
		return RoomDouble, nil
	case "deluxe":
		return RoomDeluxe, nil
	case "suite":
		return RoomSuite, nil
	case "family":
		return RoomFamily, nil
	case "presidential":
		return RoomPresidential, nil
	}
	return "", fmt.Errorf("%w: unknown room type %q", ErrValidation, s)
}

// Room is one bookable unit. Each room exclusively owns its
// BookingRegister; the room mutex serialises every allocation and
// confirmation touching the register, which closes the
// check-then-act window between an overlap check and the decision
// that depends on it.
type Room struct {
	Number        int
	Type          RoomType
	PricePerNight float64

	mu          sync.Mutex
	available   bool
	register    *BookingRegister
	allocations int
}

// NewRoom creates an available room with an empty register.
func NewRoom(number int, roomType RoomType, pricePerNight float64) (*Room, error) {
	if number <= 0 {
		return nil, fmt.Errorf("%w: room number must be positive, got %d", ErrValidation, number)
	}
	if pricePerNight < 0 {
		return nil, fmt.Errorf("%w: nightly price must be non-negative, got %.2f", ErrValidation, pricePerNight)
	}
	if _, err := ParseRoomType(string(roomType)); err != nil {
		return nil, err
	}
	return &Room{
		Number:        number,
		Type:          roomType,
		PricePerNight: pricePerNight,
		available:     true,
		register:      NewBookingRegister(),
	}, nil
}

// Available reports whether the room is open for allocation.
func (r *Room) Available() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.available
}

// SetAvailable updates the administrative availability flag.
func (r *Room) SetAvailable(available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.available = available
}

// AllocationCount returns how many bookings have ever been allocated
// to this room.
func (r *Room) AllocationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allocations
}

// Register exposes the room's booking register for read-only
// enumeration. Mutations go through TryAllocate, ConfirmBooking and
// ReleaseBooking so they happen under the room mutex.
func (r *Room) Register() *BookingRegister {
	return r.register
}

// TryAllocate attempts to reserve this room for the candidate
// booking. Under the room mutex it checks the register for a date
// overlap with committed stays; when the room is free the booking is
// assigned, moved to Possible and counted against this room. Returns
// false when the room is unavailable, already booked over the
// candidate dates, or the booking cannot leave its current status.
func (r *Room) TryAllocate(b *Booking) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.available {
		return false
	}
	if r.register.Overlaps(b) {
		return false
	}
	if err := b.markPossible(r); err != nil {
		return false
	}
	r.register.Add(b)
	r.allocations++
	return true
}

// ConfirmBooking moves the booking to Confirmed and commits its date
// range into the register in one critical section. The overlap check
// is repeated under the mutex: if a concurrent confirmation claimed
// any of the dates since allocation, the booking is left in Possible
// and a state-conflict error is returned.
func (r *Room) ConfirmBooking(b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.register.Overlaps(b) {
		return fmt.Errorf("%w: room %d no longer free for %s to %s",
			ErrStateConflict, r.Number, b.Arrive.Format("2006-01-02"), b.Depart.Format("2006-01-02"))
	}
	if err := b.confirm(); err != nil {
		return err
	}
	r.register.CommitDates(b)
	return nil
}

// ReleaseBooking removes the booking and any committed dates from the
// register, freeing the room for other guests. The booking itself is
// retained by the caller with its terminal status.
func (r *Room) ReleaseBooking(b *Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register.Release(b)
}

// Removable reports whether the room can be withdrawn from the
// inventory: it must be available and hold no committed dates.
func (r *Room) Removable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.available && !r.register.HasCommittedDates()
}

func (r *Room) String() string {
	return fmt.Sprintf("Room{number=%d, type=%s, price=%.2f}", r.Number, r.Type, r.PricePerNight)
}
