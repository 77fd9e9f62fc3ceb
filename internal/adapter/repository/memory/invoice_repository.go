package memory

import (
	"sort"
	"sync"

	"github.com/hotelops/reservation-engine/internal/core/domain"
)

// InvoiceRepository stores derived invoices keyed by invoice number.
type InvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[string]*domain.Invoice
}

func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{invoices: make(map[string]*domain.Invoice)}
}

func (r *InvoiceRepository) Save(inv *domain.Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.Number] = inv
}

func (r *InvoiceRepository) GetByNumber(number string) *domain.Invoice {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.invoices[number]
}

func (r *InvoiceRepository) List() []*domain.Invoice {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
