package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hotelops/reservation-engine/internal/core/domain"
	"github.com/hotelops/reservation-engine/internal/core/services"
)

type ReservationHandler struct {
	svc *services.ReservationService
}

func NewReservationHandler(svc *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// CreateBooking handles POST /bookings: build a candidate stay and
// allocate a room of the requested type.
func (h *ReservationHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req services.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	resp, err := h.svc.CreateBooking(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

type bookingActionRequest struct {
	BookingID int64 `json:"booking_id"`
}

// ConfirmBooking handles POST /bookings/confirm: commit an allocated
// booking's dates into its room register.
func (h *ReservationHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.bookingAction(w, r, h.svc.Confirm)
}

// CancelBooking handles POST /bookings/cancel.
func (h *ReservationHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.bookingAction(w, r, h.svc.Cancel)
}

func (h *ReservationHandler) bookingAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id int64) error) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req bookingActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := action(r.Context(), req.BookingID); err != nil {
		writeDomainError(w, err)
		return
	}

	booking := h.svc.Booking(req.BookingID)
	json.NewEncoder(w).Encode(map[string]any{
		"booking_id": req.BookingID,
		"status":     string(booking.Status()),
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeDomainError maps the engine's error taxonomy onto HTTP status
// codes: validation errors are the caller's to fix, state conflicts
// need a status check first.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStateConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// GetAvailability handles GET /rooms/availability?type=Single.
func (h *ReservationHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	roomType, err := domain.ParseRoomType(r.URL.Query().Get("type"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	listing, err := h.svc.Availability(r.Context(), roomType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if listing == nil {
		listing = []services.RoomSummary{}
	}
	json.NewEncoder(w).Encode(listing)
}

// GetBooking handles GET /bookings?id=42.
func (h *ReservationHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking := h.svc.Booking(id)
	if booking == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	resp := map[string]any{
		"booking_id": booking.ID,
		"guest":      booking.Guest.Name,
		"arrive":     booking.Arrive.Format("2006-01-02"),
		"depart":     booking.Depart.Format("2006-01-02"),
		"status":     string(booking.Status()),
	}
	if room, ok := booking.Room(); ok {
		resp["room_number"] = room.Number
	}
	json.NewEncoder(w).Encode(resp)
}
