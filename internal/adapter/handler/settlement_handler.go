package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hotelops/reservation-engine/internal/core/services"
)

type SettlementHandler struct {
	svc *services.SettlementService
}

func NewSettlementHandler(svc *services.SettlementService) *SettlementHandler {
	return &SettlementHandler{svc: svc}
}

// Checkout handles POST /checkout: settle a confirmed booking into a
// processed payment and a derived invoice.
func (h *SettlementHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req services.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	resp, err := h.svc.Checkout(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

type paymentActionRequest struct {
	PaymentID string `json:"payment_id"`
}

// RefundPayment handles POST /payments/refund.
func (h *SettlementHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	h.paymentAction(w, r, h.svc.Refund)
}

// CancelPayment handles POST /payments/cancel.
func (h *SettlementHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	h.paymentAction(w, r, h.svc.CancelPayment)
}

func (h *SettlementHandler) paymentAction(w http.ResponseWriter, r *http.Request, action func(paymentID string) error) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req paymentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := action(req.PaymentID); err != nil {
		writeDomainError(w, err)
		return
	}

	payment := h.svc.Payment(req.PaymentID)
	json.NewEncoder(w).Encode(map[string]any{
		"payment_id": payment.ID,
		"status":     string(payment.Status()),
	})
}

// GetPayment handles GET /payments?id=PAY-1000.
func (h *SettlementHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	payment := h.svc.Payment(r.URL.Query().Get("id"))
	if payment == nil {
		writeError(w, http.StatusNotFound, "payment not found")
		return
	}

	resp := map[string]any{
		"payment_id":     payment.ID,
		"booking_id":     payment.BookingID,
		"receipt_number": payment.ReceiptNumber,
		"amount":         payment.Amount(),
		"method":         string(payment.Method),
		"status":         string(payment.Status()),
		"line_items":     payment.LineItems(),
	}
	json.NewEncoder(w).Encode(resp)
}

// GetInvoice handles GET /invoices?number=INV-20251201-1. The
// rendered invoice text is included for display layers.
func (h *SettlementHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	invoice := h.svc.Invoice(r.URL.Query().Get("number"))
	if invoice == nil {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}

	resp := map[string]any{
		"number":     invoice.Number,
		"booking_id": invoice.Booking.ID,
		"payment_id": invoice.Payment.ID,
		"subtotal":   invoice.Subtotal(),
		"tax_rate":   invoice.TaxRate(),
		"tax_amount": invoice.TaxAmount(),
		"total":      invoice.Total(),
		"items":      invoice.Items(),
		"rendered":   invoice.Render(),
	}
	json.NewEncoder(w).Encode(resp)
}

// GetStats handles GET /payments/stats.
func (h *SettlementHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	json.NewEncoder(w).Encode(h.svc.Stats())
}
