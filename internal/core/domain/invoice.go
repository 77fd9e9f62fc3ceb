package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTaxRate is applied when an invoice is created without an
// explicit rate.
const DefaultTaxRate = 0.20

// InvoiceItem is one priced line on an invoice.
type InvoiceItem struct {
	Description string
	Quantity    int
	UnitPrice   float64
	Total       float64
}

// Invoice is the priced, taxed summary of a settled stay. The first
// item is always the room charge (nights times nightly rate); further
// charges can be appended and every append recomputes subtotal, tax
// and total. Invoices are created once per settled booking and never
// destroyed.
type Invoice struct {
	Number    string
	Booking   *Booking
	Payment   *Payment
	CreatedAt time.Time

	taxRate   float64
	subtotal  float64
	taxAmount float64
	total     float64
	items     []InvoiceItem
}

// NewInvoice derives an invoice from a booking and its payment using
// the default tax rate.
func NewInvoice(booking *Booking, payment *Payment) (*Invoice, error) {
	return NewInvoiceWithTaxRate(booking, payment, DefaultTaxRate)
}

// NewInvoiceWithTaxRate derives an invoice with a custom tax rate in
// [0, 1]. The booking must have a guest and an assigned room and the
// payment must be present. The invoice number is deterministic:
// "INV-YYYYMMDD-<bookingID>".
func NewInvoiceWithTaxRate(booking *Booking, payment *Payment, taxRate float64) (*Invoice, error) {
	if booking == nil {
		return nil, fmt.Errorf("%w: booking is required", ErrValidation)
	}
	if payment == nil {
		return nil, fmt.Errorf("%w: payment is required", ErrValidation)
	}
	room, ok := booking.Room()
	if !ok {
		return nil, fmt.Errorf("%w: booking %d has no room assigned", ErrValidation, booking.ID)
	}
	if strings.TrimSpace(booking.Guest.ID) == "" {
		return nil, fmt.Errorf("%w: booking %d has no guest assigned", ErrValidation, booking.ID)
	}
	if taxRate < 0 || taxRate > 1 {
		return nil, fmt.Errorf("%w: tax rate must be between 0.0 and 1.0, got %v", ErrValidation, taxRate)
	}

	now := time.Now()
	inv := &Invoice{
		Number:    fmt.Sprintf("INV-%s-%d", now.Format("20060102"), booking.ID),
		Booking:   booking,
		Payment:   payment,
		CreatedAt: now,
		taxRate:   taxRate,
	}

	nights := booking.Nights()
	roomTotal := float64(nights) * room.PricePerNight
	inv.items = append(inv.items, InvoiceItem{
		Description: fmt.Sprintf("%s Room - %d night(s)", room.Type, nights),
		Quantity:    nights,
		UnitPrice:   room.PricePerNight,
		Total:       roomTotal,
	})
	inv.recompute()
	return inv, nil
}

// AddAdditionalCharge appends a line item (room service, minibar,
// facility use) and recomputes the totals. The amount must be
// strictly positive.
func (inv *Invoice) AddAdditionalCharge(description string, amount float64) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: charge description is required", ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: charge amount must be positive, got %v", ErrValidation, amount)
	}
	inv.items = append(inv.items, InvoiceItem{
		Description: description,
		Quantity:    1,
		UnitPrice:   amount,
		Total:       amount,
	})
	inv.recompute()
	return nil
}

func (inv *Invoice) recompute() {
	inv.subtotal = 0
	for _, item := range inv.items {
		inv.subtotal += item.Total
	}
	inv.taxAmount = inv.subtotal * inv.taxRate
	inv.total = inv.subtotal + inv.taxAmount
}

func (inv *Invoice) Subtotal() float64 { return inv.subtotal }

func (inv *Invoice) TaxRate() float64 { return inv.taxRate }

func (inv *Invoice) TaxAmount() float64 { return inv.taxAmount }

func (inv *Invoice) Total() float64 { return inv.total }

// Items returns a copy of the invoice lines in order.
func (inv *Invoice) Items() []InvoiceItem {
	out := make([]InvoiceItem, len(inv.items))
	copy(out, inv.items)
	return out
}

// Render produces the printable invoice for display layers.
func (inv *Invoice) Render() string {
	room, _ := inv.Booking.Room()

	var sb strings.Builder
	sb.WriteString("==================== INVOICE ====================\n")
	fmt.Fprintf(&sb, "Invoice #:  %s\n", inv.Number)
	fmt.Fprintf(&sb, "Date:       %s\n", inv.CreatedAt.Format("02 Jan 2006 15:04"))
	fmt.Fprintf(&sb, "Guest:      %s\n", inv.Booking.Guest.Name)
	if room != nil {
		fmt.Fprintf(&sb, "Room:       %d (%s)\n", room.Number, room.Type)
	}
	fmt.Fprintf(&sb, "Check-in:   %s\n", inv.Booking.Arrive.Format("02 Jan 2006"))
	fmt.Fprintf(&sb, "Check-out:  %s\n", inv.Booking.Depart.Format("02 Jan 2006"))
	fmt.Fprintf(&sb, "Booking ID: %d\n", inv.Booking.ID)
	sb.WriteString("-------------------------------------------------\n")
	fmt.Fprintf(&sb, "%-30s %5s %10s\n", "DESCRIPTION", "QTY", "AMOUNT")
	for _, item := range inv.items {
		fmt.Fprintf(&sb, "%-30s %5d €%9.2f\n", item.Description, item.Quantity, item.Total)
	}
	sb.WriteString("-------------------------------------------------\n")
	fmt.Fprintf(&sb, "%36s €%9.2f\n", "Subtotal:", inv.subtotal)
	fmt.Fprintf(&sb, "%36s €%9.2f\n", fmt.Sprintf("Tax (%.0f%%):", inv.taxRate*100), inv.taxAmount)
	fmt.Fprintf(&sb, "%36s €%9.2f\n", "TOTAL:", inv.total)
	sb.WriteString("-------------------------------------------------\n")
	fmt.Fprintf(&sb, "Payment:    %s (%s)\n", inv.Payment.ID, inv.Payment.Method)
	fmt.Fprintf(&sb, "Receipt:    %s\n", inv.Payment.ReceiptNumber)
	sb.WriteString("=================================================\n")
	return sb.String()
}

// Summary is a one-line rendering for lists and logs.
func (inv *Invoice) Summary() string {
	return fmt.Sprintf("Invoice %s: guest %s, €%.2f (tax €%.2f, total €%.2f)",
		inv.Number, inv.Booking.Guest.Name, inv.subtotal, inv.taxAmount, inv.total)
}
