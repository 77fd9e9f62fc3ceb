package memory

import (
	"sort"
	"sync"

	"github.com/hotelops/reservation-engine/internal/core/domain"
)

// BookingRepository retains every booking by ID. Bookings are never
// deleted; terminal statuses mark the dead ones.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[int64]*domain.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[int64]*domain.Booking)}
}

func (r *BookingRepository) Save(b *domain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
}

func (r *BookingRepository) GetByID(id int64) *domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bookings[id]
}

func (r *BookingRepository) List() []*domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
