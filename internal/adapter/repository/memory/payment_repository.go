package memory

import (
	"sort"
	"sync"

	"github.com/hotelops/reservation-engine/internal/core/domain"
)

// PaymentRepository stores settlement attempts keyed by payment ID,
// with a per-booking index so all attempts against one stay can be
// listed.
type PaymentRepository struct {
	mu        sync.RWMutex
	payments  map[string]*domain.Payment
	byBooking map[int64][]*domain.Payment
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments:  make(map[string]*domain.Payment),
		byBooking: make(map[int64][]*domain.Payment),
	}
}

func (r *PaymentRepository) Save(p *domain.Payment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.payments[p.ID]; !exists {
		r.byBooking[p.BookingID] = append(r.byBooking[p.BookingID], p)
	}
	r.payments[p.ID] = p
}

func (r *PaymentRepository) GetByID(id string) *domain.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.payments[id]
}

func (r *PaymentRepository) ByBooking(bookingID int64) []*domain.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Payment, len(r.byBooking[bookingID]))
	copy(out, r.byBooking[bookingID])
	return out
}

func (r *PaymentRepository) List() []*domain.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
