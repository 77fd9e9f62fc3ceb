package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hotelops/reservation-engine/internal/core/domain"
	"github.com/hotelops/reservation-engine/internal/core/ports"
)

type FacilityRequest struct {
	Description string  `json:"description"`
	BaseCost    float64 `json:"base_cost"`
	Quantity    int     `json:"quantity"`
	Surcharge   float64 `json:"surcharge"`
}

type CheckoutRequest struct {
	BookingID      int64             `json:"booking_id"`
	Method         string            `json:"method"`
	TransactionRef string            `json:"transaction_ref"`
	Facilities     []FacilityRequest `json:"facilities"`
}

type CheckoutResponse struct {
	PaymentID     string  `json:"payment_id"`
	ReceiptNumber string  `json:"receipt_number"`
	InvoiceNumber string  `json:"invoice_number"`
	Amount        float64 `json:"amount"`
	Total         float64 `json:"total"`
}

// Statistics aggregates the payment ledger for reporting.
type Statistics struct {
	TotalPayments int     `json:"total_payments"`
	Completed     int     `json:"completed"`
	Pending       int     `json:"pending"`
	Failed        int     `json:"failed"`
	Refunded      int     `json:"refunded"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalRefunds  float64 `json:"total_refunds"`
}

// SettlementService turns confirmed stays into payments and invoices.
// Payment "processing" is a local state transition; no gateway is
// called. The payment sequence is injected so IDs stay monotone
// across the service's lifetime.
type SettlementService struct {
	bookings ports.BookingRepository
	payments ports.PaymentRepository
	invoices ports.InvoiceRepository
	seq      *domain.Sequence
}

func NewSettlementService(
	bookings ports.BookingRepository,
	payments ports.PaymentRepository,
	invoices ports.InvoiceRepository,
	seq *domain.Sequence,
) *SettlementService {
	return &SettlementService{
		bookings: bookings,
		payments: payments,
		invoices: invoices,
		seq:      seq,
	}
}

// Checkout settles a confirmed booking: a payment is created from the
// stay's price, extended with any facility charges, processed, and an
// invoice derived from the result. The booking moves to Paid. A
// transaction reference is generated when the caller supplies none.
// On a processing failure the payment is retained as Failed.
func (s *SettlementService) Checkout(req CheckoutRequest) (*CheckoutResponse, error) {
	booking := s.bookings.GetByID(req.BookingID)
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %d not found", domain.ErrValidation, req.BookingID)
	}
	room, ok := booking.Room()
	if !ok {
		return nil, fmt.Errorf("%w: booking %d has no room assigned", domain.ErrValidation, req.BookingID)
	}
	if booking.Status() != domain.BookingConfirmed {
		return nil, fmt.Errorf("%w: booking %d is %s, only confirmed bookings can be settled",
			domain.ErrStateConflict, booking.ID, booking.Status())
	}

	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, err
	}

	stayCharge := float64(booking.Nights()) * room.PricePerNight
	payment, err := domain.NewPayment(s.seq, booking.ID, stayCharge, method, booking.Guest.Name)
	if err != nil {
		return nil, err
	}

	ref := req.TransactionRef
	if ref == "" {
		ref = uuid.NewString()
	}
	payment.SetTransactionRef(ref)

	for _, f := range req.Facilities {
		charge := domain.FacilityCharge{
			Description: f.Description,
			BaseCost:    f.BaseCost,
			Quantity:    f.Quantity,
			Surcharge:   f.Surcharge,
		}
		if err := charge.ApplyTo(payment); err != nil {
			return nil, err
		}
	}

	if err := payment.Process(); err != nil {
		failErr := payment.Fail()
		s.payments.Save(payment)
		if failErr != nil {
			return nil, err
		}
		return nil, fmt.Errorf("payment processing failed: %w", err)
	}
	s.payments.Save(payment)

	if err := booking.MarkPaid(); err != nil {
		return nil, err
	}

	invoice, err := s.generateInvoice(booking, payment)
	if err != nil {
		return nil, err
	}

	return &CheckoutResponse{
		PaymentID:     payment.ID,
		ReceiptNumber: payment.ReceiptNumber,
		InvoiceNumber: invoice.Number,
		Amount:        payment.Amount(),
		Total:         invoice.Total(),
	}, nil
}

// generateInvoice derives an invoice from the booking and payment.
// Line items beyond the stay itself (facility charges) are carried
// over from the payment so the invoice itemizes the full bill.
func (s *SettlementService) generateInvoice(booking *domain.Booking, payment *domain.Payment) (*domain.Invoice, error) {
	invoice, err := domain.NewInvoice(booking, payment)
	if err != nil {
		return nil, err
	}
	for _, item := range payment.LineItems() {
		if item.Amount <= 0 {
			continue
		}
		if err := invoice.AddAdditionalCharge(item.Description, item.Amount); err != nil {
			return nil, err
		}
	}
	s.invoices.Save(invoice)
	return invoice, nil
}

// Refund reverses a completed payment and moves its booking to
// Refunded. Only completed payments are refundable.
func (s *SettlementService) Refund(paymentID string) error {
	payment := s.payments.GetByID(paymentID)
	if payment == nil {
		return fmt.Errorf("%w: payment %s not found", domain.ErrValidation, paymentID)
	}
	if err := payment.Refund(); err != nil {
		return err
	}
	if booking := s.bookings.GetByID(payment.BookingID); booking != nil {
		if err := booking.Refund(); err != nil {
			return err
		}
	}
	return nil
}

// ProcessPayment completes a pending or processing payment. Checkout
// settles its own payment; this covers payments driven through an
// external flow via BeginProcessing.
func (s *SettlementService) ProcessPayment(paymentID string) error {
	payment := s.payments.GetByID(paymentID)
	if payment == nil {
		return fmt.Errorf("%w: payment %s not found", domain.ErrValidation, paymentID)
	}
	return payment.Process()
}

// FailPayment records a failed settlement attempt.
func (s *SettlementService) FailPayment(paymentID string) error {
	payment := s.payments.GetByID(paymentID)
	if payment == nil {
		return fmt.Errorf("%w: payment %s not found", domain.ErrValidation, paymentID)
	}
	return payment.Fail()
}

// CancelPayment voids a pending payment.
func (s *SettlementService) CancelPayment(paymentID string) error {
	payment := s.payments.GetByID(paymentID)
	if payment == nil {
		return fmt.Errorf("%w: payment %s not found", domain.ErrValidation, paymentID)
	}
	return payment.Cancel()
}

// Payment returns the payment or nil when unknown.
func (s *SettlementService) Payment(paymentID string) *domain.Payment {
	return s.payments.GetByID(paymentID)
}

// Invoice returns the invoice or nil when unknown.
func (s *SettlementService) Invoice(number string) *domain.Invoice {
	return s.invoices.GetByNumber(number)
}

// PaymentsForBooking lists every settlement attempt against one stay.
func (s *SettlementService) PaymentsForBooking(bookingID int64) []*domain.Payment {
	return s.payments.ByBooking(bookingID)
}

// Stats tallies the payment ledger.
func (s *SettlementService) Stats() Statistics {
	var stats Statistics
	for _, p := range s.payments.List() {
		stats.TotalPayments++
		switch p.Status() {
		case domain.PaymentCompleted:
			stats.Completed++
			stats.TotalRevenue += p.Amount()
		case domain.PaymentPending:
			stats.Pending++
		case domain.PaymentFailed:
			stats.Failed++
		case domain.PaymentRefunded:
			stats.Refunded++
			stats.TotalRefunds += p.Amount()
		}
	}
	return stats
}
