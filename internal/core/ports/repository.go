// Package ports declares the interfaces the core services depend on.
// The engine keeps its authoritative state in memory, so the
// repository ports are synchronous lookups with no context; only the
// availability cache performs I/O and takes one.
package ports

import (
	"context"
	"time"

	"github.com/hotelops/reservation-engine/internal/core/domain"
)

// RoomRepository is the room inventory: the collection of all rooms
// the allocation search runs across. Lookups return nil when the room
// is unknown; callers must check before dereferencing.
type RoomRepository interface {
	Add(room *domain.Room) error
	Remove(number int) error
	GetByNumber(number int) *domain.Room
	List() []*domain.Room
	ByType(roomType domain.RoomType) []*domain.Room
}

// BookingRepository stores every booking ever created, including
// cancelled and refunded ones. GetByID returns nil for unknown IDs.
type BookingRepository interface {
	Save(b *domain.Booking)
	GetByID(id int64) *domain.Booking
	List() []*domain.Booking
}

// PaymentRepository stores settlement attempts keyed by payment ID
// and indexed by booking.
type PaymentRepository interface {
	Save(p *domain.Payment)
	GetByID(id string) *domain.Payment
	ByBooking(bookingID int64) []*domain.Payment
	List() []*domain.Payment
}

// InvoiceRepository stores derived invoices keyed by invoice number.
type InvoiceRepository interface {
	Save(inv *domain.Invoice)
	GetByNumber(number string) *domain.Invoice
	List() []*domain.Invoice
}

// AvailabilityCache caches rendered availability listings for the
// staff API. Get reports a miss with found == false and no error;
// cache failures are never fatal to the operation that hit them.
type AvailabilityCache interface {
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}
