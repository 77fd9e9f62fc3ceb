package domain

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

type PaymentMethod string

const (
	PayCash          PaymentMethod = "Cash"
	PayCreditCard    PaymentMethod = "Credit Card"
	PayDebitCard     PaymentMethod = "Debit Card"
	PayOnlineBanking PaymentMethod = "Online Banking"
	PayMobilePayment PaymentMethod = "Mobile Payment"
)

// ParsePaymentMethod converts free-form text ("credit_card",
// "Credit Card") into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(s)))
	switch normalized {
	case "cash":
		return PayCash, nil
	case "credit card", "credit":
		return PayCreditCard, nil
	case "debit card", "debit":
		return PayDebitCard, nil
	case "online banking":
		return PayOnlineBanking, nil
	case "mobile payment", "mobile":
		return PayMobilePayment, nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrValidation, s)
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "Pending"
	PaymentProcessing PaymentStatus = "Processing"
	PaymentCompleted  PaymentStatus = "Completed"
	PaymentFailed     PaymentStatus = "Failed"
	PaymentRefunded   PaymentStatus = "Refunded"
	PaymentCancelled  PaymentStatus = "Cancelled"
)

// LineItem is one itemized charge on a payment.
type LineItem struct {
	Description string
	Amount      float64
}

// Payment is one settlement attempt against a booking. The amount
// starts as the agreed charge and only grows as line items are added.
// Status transitions are guarded by a mutex so two concurrent
// settlement attempts cannot both succeed.
type Payment struct {
	ID            string
	BookingID     int64
	Method        PaymentMethod
	GuestName     string
	CreatedAt     time.Time
	ReceiptNumber string

	mu             sync.Mutex
	amount         float64
	status         PaymentStatus
	processedAt    *time.Time
	transactionRef string
	items          []LineItem
}

// NewPayment creates a pending payment for a booking. The identifier
// is formatted "PAY-<n>" from the injected sequence and the receipt
// number "RCP-<year>-<n>" from the same counter value.
func NewPayment(seq *Sequence, bookingID int64, amount float64, method PaymentMethod, guestName string) (*Payment, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: payment amount must be positive, got %v", ErrValidation, amount)
	}
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(guestName) == "" {
		return nil, fmt.Errorf("%w: guest name is required", ErrValidation)
	}
	now := time.Now()
	n := seq.Next()
	return &Payment{
		ID:            fmt.Sprintf("PAY-%d", n),
		BookingID:     bookingID,
		Method:        method,
		GuestName:     guestName,
		CreatedAt:     now,
		ReceiptNumber: fmt.Sprintf("RCP-%d-%d", now.Year(), n),
		amount:        amount,
		status:        PaymentPending,
	}, nil
}

// AddCharge appends a line item and increases the running amount.
// Legal regardless of status: charges model itemization, not
// settlement. The amount must be non-negative and the description
// non-empty.
func (p *Payment) AddCharge(description string, amount float64) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: line item description is required", ErrValidation)
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: charge amount must be non-negative, got %v", ErrValidation, amount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, LineItem{Description: description, Amount: amount})
	p.amount += amount
	return nil
}

func (p *Payment) Amount() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.amount
}

func (p *Payment) Status() PaymentStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// ProcessedAt returns the timestamp of the first transition away from
// Pending, if any has happened.
func (p *Payment) ProcessedAt() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.processedAt == nil {
		return time.Time{}, false
	}
	return *p.processedAt, true
}

func (p *Payment) TransactionRef() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transactionRef
}

// SetTransactionRef records the reference of an external payment
// system against this payment.
func (p *Payment) SetTransactionRef(ref string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transactionRef = ref
}

// LineItems returns a copy of the recorded line items in order.
func (p *Payment) LineItems() []LineItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]LineItem, len(p.items))
	copy(out, p.items)
	return out
}

// BeginProcessing hands a pending payment to processing.
func (p *Payment) BeginProcessing() error {
	return p.transition(PaymentProcessing, PaymentPending)
}

// Process completes the payment. Legal from Pending or Processing.
func (p *Payment) Process() error {
	return p.transition(PaymentCompleted, PaymentPending, PaymentProcessing)
}

// Fail marks the payment as failed. Legal from Pending or Processing.
func (p *Payment) Fail() error {
	return p.transition(PaymentFailed, PaymentPending, PaymentProcessing)
}

// Cancel voids a payment that was never processed. Legal only from
// Pending.
func (p *Payment) Cancel() error {
	return p.transition(PaymentCancelled, PaymentPending)
}

// Refund reverses a completed payment. Legal only from Completed.
func (p *Payment) Refund() error {
	return p.transition(PaymentRefunded, PaymentCompleted)
}

func (p *Payment) Completed() bool {
	return p.Status() == PaymentCompleted
}

func (p *Payment) Refundable() bool {
	return p.Status() == PaymentCompleted
}

func (p *Payment) transition(to PaymentStatus, from ...PaymentStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range from {
		if p.status == s {
			p.status = to
			now := time.Now()
			p.processedAt = &now
			return nil
		}
	}
	return fmt.Errorf("%w: payment %s cannot move from %s to %s", ErrStateConflict, p.ID, p.status, to)
}

// Summary renders a human-readable payment record for display layers.
func (p *Payment) Summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Payment %s (receipt %s)\n", p.ID, p.ReceiptNumber)
	fmt.Fprintf(&sb, "  Booking:   %d\n", p.BookingID)
	fmt.Fprintf(&sb, "  Guest:     %s\n", p.GuestName)
	fmt.Fprintf(&sb, "  Amount:    €%.2f\n", p.amount)
	fmt.Fprintf(&sb, "  Method:    %s\n", p.Method)
	fmt.Fprintf(&sb, "  Status:    %s\n", p.status)
	if p.processedAt != nil {
		fmt.Fprintf(&sb, "  Processed: %s\n", p.processedAt.Format(time.RFC3339))
	}
	if p.transactionRef != "" {
		fmt.Fprintf(&sb, "  Reference: %s\n", p.transactionRef)
	}
	for _, item := range p.items {
		fmt.Fprintf(&sb, "  - %s: €%.2f\n", item.Description, item.Amount)
	}
	return sb.String()
}

func (p *Payment) String() string {
	return fmt.Sprintf("Payment{id=%s, booking=%d, amount=%.2f, method=%s, status=%s}",
		p.ID, p.BookingID, p.Amount(), p.Method, p.Status())
}
