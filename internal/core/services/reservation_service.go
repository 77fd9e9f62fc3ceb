package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/hotelops/reservation-engine/internal/core/domain"
	"github.com/hotelops/reservation-engine/internal/core/ports"
)

// AllocationPolicy controls how candidate rooms are ordered before
// the first-fit walk. Ties on allocation count are always broken by
// room number descending.
type AllocationPolicy int

const (
	// LeastUsedFirst tries the room with the fewest allocations
	// first, spreading wear across the inventory. This is the
	// default policy.
	LeastUsedFirst AllocationPolicy = iota
	// MostUsedFirst tries the most-allocated room first,
	// concentrating usage so the rest of the inventory stays open
	// for long stays.
	MostUsedFirst
)

const availabilityCacheTTL = 30 * time.Second

type CreateBookingRequest struct {
	GuestID    string `json:"guest_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	RoomType   string `json:"room_type"`
	Arrive     string `json:"arrive"`
	Depart     string `json:"depart"`
}

type CreateBookingResponse struct {
	BookingID  int64  `json:"booking_id"`
	Status     string `json:"status"`
	RoomNumber *int   `json:"room_number,omitempty"`
}

// RoomSummary is the cached availability listing entry.
type RoomSummary struct {
	Number        int     `json:"number"`
	Type          string  `json:"type"`
	PricePerNight float64 `json:"price_per_night"`
}

// ReservationService runs the booking side of the engine: building
// candidate stays, allocating rooms, confirming and cancelling. The
// availability cache is optional; when present it is invalidated on
// every change that affects a listing.
type ReservationService struct {
	rooms    ports.RoomRepository
	bookings ports.BookingRepository
	cache    ports.AvailabilityCache
	seq      *domain.Sequence
	policy   AllocationPolicy
}

func NewReservationService(
	rooms ports.RoomRepository,
	bookings ports.BookingRepository,
	cache ports.AvailabilityCache,
	seq *domain.Sequence,
	policy AllocationPolicy,
) *ReservationService {
	return &ReservationService{
		rooms:    rooms,
		bookings: bookings,
		cache:    cache,
		seq:      seq,
		policy:   policy,
	}
}

// CreateBooking builds a candidate stay from the request and runs the
// allocation search for the requested room type. When no room is free
// the booking is still stored, unassigned, and the response carries
// no room number.
func (s *ReservationService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	roomType, err := domain.ParseRoomType(req.RoomType)
	if err != nil {
		return nil, err
	}
	arrive, err := parseDay(req.Arrive)
	if err != nil {
		return nil, err
	}
	depart, err := parseDay(req.Depart)
	if err != nil {
		return nil, err
	}

	guest := domain.Guest{ID: req.GuestID, Name: req.GuestName, Email: req.GuestEmail}
	booking, err := domain.NewBooking(s.seq, guest, arrive, depart)
	if err != nil {
		return nil, err
	}

	room := s.Allocate(ctx, booking, roomType)
	s.bookings.Save(booking)

	resp := &CreateBookingResponse{
		BookingID: booking.ID,
		Status:    string(booking.Status()),
	}
	if room != nil {
		n := room.Number
		resp.RoomNumber = &n
	}
	return resp, nil
}

// Allocate searches the inventory for a free room of the requested
// type and assigns the first fit. Candidates are ordered by the
// service's allocation policy with ties broken by room number
// descending; each room's own mutex serialises the overlap check and
// the assignment. Returns nil, leaving the booking untouched, when
// no room is free.
func (s *ReservationService) Allocate(ctx context.Context, booking *domain.Booking, roomType domain.RoomType) *domain.Room {
	candidates := s.rooms.ByType(roomType)
	s.orderForAllocation(candidates)

	for _, room := range candidates {
		if room.TryAllocate(booking) {
			s.invalidateAvailability(ctx, roomType)
			return room
		}
	}
	return nil
}

func (s *ReservationService) orderForAllocation(rooms []*domain.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		ci, cj := rooms[i].AllocationCount(), rooms[j].AllocationCount()
		if ci != cj {
			if s.policy == MostUsedFirst {
				return ci > cj
			}
			return ci < cj
		}
		return rooms[i].Number > rooms[j].Number
	})
}

// Confirm moves an allocated booking to Confirmed and commits its
// dates into the room's register. Both happen under the room mutex,
// with the overlap re-checked, so a concurrent confirmation of the
// same dates cannot double-book the room.
func (s *ReservationService) Confirm(ctx context.Context, bookingID int64) error {
	booking := s.bookings.GetByID(bookingID)
	if booking == nil {
		return fmt.Errorf("%w: booking %d not found", domain.ErrValidation, bookingID)
	}
	room, ok := booking.Room()
	if !ok {
		return fmt.Errorf("%w: booking %d has no room allocated", domain.ErrStateConflict, bookingID)
	}
	if err := room.ConfirmBooking(booking); err != nil {
		return err
	}
	s.invalidateAvailability(ctx, room.Type)
	return nil
}

// Cancel moves a non-terminal booking to Cancelled and releases any
// room dates it held. The booking record itself is retained.
func (s *ReservationService) Cancel(ctx context.Context, bookingID int64) error {
	booking := s.bookings.GetByID(bookingID)
	if booking == nil {
		return fmt.Errorf("%w: booking %d not found", domain.ErrValidation, bookingID)
	}
	if err := booking.Cancel(); err != nil {
		return err
	}
	if room, ok := booking.Room(); ok {
		room.ReleaseBooking(booking)
		s.invalidateAvailability(ctx, room.Type)
	}
	return nil
}

// Booking returns the booking or nil when unknown.
func (s *ReservationService) Booking(bookingID int64) *domain.Booking {
	return s.bookings.GetByID(bookingID)
}

// Availability lists the open rooms of one type, served from the
// cache when a fresh listing exists.
func (s *ReservationService) Availability(ctx context.Context, roomType domain.RoomType) ([]RoomSummary, error) {
	key := availabilityKey(roomType)
	if s.cache != nil {
		if payload, found, err := s.cache.Get(ctx, key); err != nil {
			log.Printf("availability cache read failed: %v", err)
		} else if found {
			var cached []RoomSummary
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
			log.Printf("availability cache held invalid payload for %s, rebuilding", key)
		}
	}

	var listing []RoomSummary
	for _, room := range s.rooms.ByType(roomType) {
		if !room.Available() {
			continue
		}
		listing = append(listing, RoomSummary{
			Number:        room.Number,
			Type:          string(room.Type),
			PricePerNight: room.PricePerNight,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(listing); err == nil {
			if err := s.cache.Set(ctx, key, payload, availabilityCacheTTL); err != nil {
				log.Printf("availability cache write failed: %v", err)
			}
		}
	}
	return listing, nil
}

func (s *ReservationService) invalidateAvailability(ctx context.Context, roomType domain.RoomType) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, availabilityKey(roomType)); err != nil {
		log.Printf("availability cache invalidation failed for %s: %v", roomType, err)
	}
}

func availabilityKey(roomType domain.RoomType) string {
	return "availability:" + string(roomType)
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", domain.ErrValidation, s)
	}
	return t, nil
}
