package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	rediscache "github.com/hotelops/reservation-engine/internal/adapter/cache"
	"github.com/hotelops/reservation-engine/internal/adapter/handler"
	"github.com/hotelops/reservation-engine/internal/adapter/repository/memory"
	"github.com/hotelops/reservation-engine/internal/core/domain"
	"github.com/hotelops/reservation-engine/internal/core/services"
	platformcache "github.com/hotelops/reservation-engine/internal/platform/cache"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// seedRooms loads the initial inventory. Room setup is an
// administrative concern; a fixed floor plan keeps the demo server
// self-contained.
func seedRooms(rooms *memory.RoomRepository) error {
	plan := []struct {
		number int
		kind   domain.RoomType
		price  float64
	}{
		{101, domain.RoomSingle, 120},
		{102, domain.RoomSingle, 120},
		{103, domain.RoomSingle, 125},
		{201, domain.RoomDouble, 180},
		{202, domain.RoomDouble, 180},
		{203, domain.RoomDeluxe, 240},
		{301, domain.RoomSuite, 350},
		{302, domain.RoomFamily, 280},
		{401, domain.RoomPresidential, 900},
	}
	for _, p := range plan {
		room, err := domain.NewRoom(p.number, p.kind, p.price)
		if err != nil {
			return err
		}
		if err := rooms.Add(room); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using OS environment")
	}

	redisClient, err := platformcache.NewRedisClient(platformcache.Config{
		Host: getenv("REDIS_HOST", "localhost"),
		Port: getenv("REDIS_PORT", "6379"),
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	roomRepo := memory.NewRoomRepository()
	bookingRepo := memory.NewBookingRepository()
	paymentRepo := memory.NewPaymentRepository()
	invoiceRepo := memory.NewInvoiceRepository()

	if err := seedRooms(roomRepo); err != nil {
		log.Fatalf("Failed to seed room inventory: %v", err)
	}

	availabilityCache := rediscache.NewRedis(redisClient)
	bookingSeq := domain.NewSequence(1)
	paymentSeq := domain.NewSequence(1000)

	reservationService := services.NewReservationService(
		roomRepo, bookingRepo, availabilityCache, bookingSeq, services.LeastUsedFirst)
	settlementService := services.NewSettlementService(
		bookingRepo, paymentRepo, invoiceRepo, paymentSeq)

	reservationHandler := handler.NewReservationHandler(reservationService)
	settlementHandler := handler.NewSettlementHandler(settlementService)

	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			reservationHandler.CreateBooking(w, r)
		case http.MethodGet:
			reservationHandler.GetBooking(w, r)
		default:
			http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/bookings/confirm", reservationHandler.ConfirmBooking)
	mux.HandleFunc("/bookings/cancel", reservationHandler.CancelBooking)
	mux.HandleFunc("/rooms/availability", reservationHandler.GetAvailability)
	mux.HandleFunc("/checkout", settlementHandler.Checkout)
	mux.HandleFunc("/payments", settlementHandler.GetPayment)
	mux.HandleFunc("/payments/refund", settlementHandler.RefundPayment)
	mux.HandleFunc("/payments/cancel", settlementHandler.CancelPayment)
	mux.HandleFunc("/payments/stats", settlementHandler.GetStats)
	mux.HandleFunc("/invoices", settlementHandler.GetInvoice)

	addr := ":" + getenv("PORT", "8080")
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
