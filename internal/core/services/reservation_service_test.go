package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rediscache "github.com/hotelops/reservation-engine/internal/adapter/cache"
	"github.com/hotelops/reservation-engine/internal/adapter/repository/memory"
	"github.com/hotelops/reservation-engine/internal/core/domain"
	"github.com/hotelops/reservation-engine/internal/core/services"
)

func newFixture(t *testing.T, policy services.AllocationPolicy, roomNumbers ...int) (*services.ReservationService, *memory.RoomRepository, *memory.BookingRepository) {
	t.Helper()
	rooms := memory.NewRoomRepository()
	for _, n := range roomNumbers {
		room, err := domain.NewRoom(n, domain.RoomSingle, 120)
		require.NoError(t, err)
		require.NoError(t, rooms.Add(room))
	}
	bookings := memory.NewBookingRepository()
	svc := services.NewReservationService(rooms, bookings, nil, domain.NewSequence(1), policy)
	return svc, rooms, bookings
}

func createBooking(t *testing.T, svc *services.ReservationService, arrive, depart string) *services.CreateBookingResponse {
	t.Helper()
	resp, err := svc.CreateBooking(context.Background(), services.CreateBookingRequest{
		GuestID:   "g-1",
		GuestName: "Wendy Torrance",
		RoomType:  "Single",
		Arrive:    arrive,
		Depart:    depart,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	svc, _, _ := newFixture(t, services.LeastUsedFirst, 101)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, services.CreateBookingRequest{
		GuestID: "g-1", RoomType: "Penthouse", Arrive: "2025-12-01", Depart: "2025-12-04",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateBooking(ctx, services.CreateBookingRequest{
		GuestID: "g-1", RoomType: "Single", Arrive: "01/12/2025", Depart: "2025-12-04",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateBooking(ctx, services.CreateBookingRequest{
		GuestID: "g-1", RoomType: "Single", Arrive: "2025-12-04", Depart: "2025-12-01",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAllocate_TieBreakHighestRoomNumber(t *testing.T) {
	svc, _, _ := newFixture(t, services.LeastUsedFirst, 101, 102, 103)

	// All counters equal: the highest room number wins the tie.
	resp := createBooking(t, svc, "2025-12-01", "2025-12-04")
	require.NotNil(t, resp.RoomNumber)
	assert.Equal(t, 103, *resp.RoomNumber)
	assert.Equal(t, string(domain.BookingPossible), resp.Status)
}

func TestAllocate_LeastUsedFirst(t *testing.T) {
	svc, rooms, _ := newFixture(t, services.LeastUsedFirst, 101, 102)

	first := createBooking(t, svc, "2025-12-01", "2025-12-04")
	require.NotNil(t, first.RoomNumber)
	assert.Equal(t, 102, *first.RoomNumber)

	// 102 now carries one allocation, so the untouched 101 is next
	// even though the dates would not conflict.
	second := createBooking(t, svc, "2026-01-10", "2026-01-12")
	require.NotNil(t, second.RoomNumber)
	assert.Equal(t, 101, *second.RoomNumber)

	assert.Equal(t, 1, rooms.GetByNumber(101).AllocationCount())
	assert.Equal(t, 1, rooms.GetByNumber(102).AllocationCount())
}

func TestAllocate_MostUsedFirst(t *testing.T) {
	svc, rooms, _ := newFixture(t, services.MostUsedFirst, 101, 102)

	first := createBooking(t, svc, "2025-12-01", "2025-12-04")
	require.NotNil(t, first.RoomNumber)
	assert.Equal(t, 102, *first.RoomNumber)

	// Usage concentrates on the already-most-used room.
	second := createBooking(t, svc, "2026-01-10", "2026-01-12")
	require.NotNil(t, second.RoomNumber)
	assert.Equal(t, 102, *second.RoomNumber)

	assert.Equal(t, 0, rooms.GetByNumber(101).AllocationCount())
	assert.Equal(t, 2, rooms.GetByNumber(102).AllocationCount())
}

func TestAllocate_NoRoomFree(t *testing.T) {
	svc, _, bookings := newFixture(t, services.LeastUsedFirst, 101)

	first := createBooking(t, svc, "2025-12-01", "2025-12-04")
	require.NotNil(t, first.RoomNumber)
	require.NoError(t, svc.Confirm(context.Background(), first.BookingID))

	// The only single is taken: the candidate stays unassigned with
	// its status untouched, and no error is raised.
	second := createBooking(t, svc, "2025-12-02", "2025-12-05")
	assert.Nil(t, second.RoomNumber)
	assert.Equal(t, string(domain.BookingUnconfirmed), second.Status)

	stored := bookings.GetByID(second.BookingID)
	require.NotNil(t, stored)
	assert.False(t, stored.Assignment().Assigned())
}

func TestConfirm_DepartureDayReuse(t *testing.T) {
	svc, _, _ := newFixture(t, services.LeastUsedFirst, 101)
	ctx := context.Background()

	first := createBooking(t, svc, "2025-12-01", "2025-12-04")
	require.NotNil(t, first.RoomNumber)
	require.NoError(t, svc.Confirm(ctx, first.BookingID))

	// A stay starting on the departure day fits the same room.
	second := createBooking(t, svc, "2025-12-04", "2025-12-06")
	require.NotNil(t, second.RoomNumber)
	assert.Equal(t, 101, *second.RoomNumber)
	require.NoError(t, svc.Confirm(ctx, second.BookingID))
}

func TestConfirm_Guards(t *testing.T) {
	svc, _, _ := newFixture(t, services.LeastUsedFirst)
	ctx := context.Background()

	err := svc.Confirm(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// No rooms exist, so the booking is created unallocated and
	// cannot be confirmed.
	resp := createBooking(t, svc, "2025-12-01", "2025-12-04")
	err = svc.Confirm(ctx, resp.BookingID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestConfirm_LosesRaceToConcurrentConfirmation(t *testing.T) {
	svc, _, bookings := newFixture(t, services.LeastUsedFirst, 101)
	ctx := context.Background()

	first := createBooking(t, svc, "2025-12-01", "2025-12-04")
	second := createBooking(t, svc, "2025-12-01", "2025-12-04")

	// Both candidates were allocated the same room while tentative.
	require.NotNil(t, first.RoomNumber)
	require.NotNil(t, second.RoomNumber)
	assert.Equal(t, *first.RoomNumber, *second.RoomNumber)

	require.NoError(t, svc.Confirm(ctx, second.BookingID))
	err := svc.Confirm(ctx, first.BookingID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
	assert.Equal(t, domain.BookingPossible, bookings.GetByID(first.BookingID).Status())
}

func TestCancel_ReleasesDates(t *testing.T) {
	svc, _, bookings := newFixture(t, services.LeastUsedFirst, 101)
	ctx := context.Background()

	first := createBooking(t, svc, "2025-12-01", "2025-12-04")
	require.NoError(t, svc.Confirm(ctx, first.BookingID))

	require.NoError(t, svc.Cancel(ctx, first.BookingID))
	assert.Equal(t, domain.BookingCancelled, bookings.GetByID(first.BookingID).Status())

	// The cancelled stay's dates are free again.
	second := createBooking(t, svc, "2025-12-01", "2025-12-04")
	require.NotNil(t, second.RoomNumber)
	assert.Equal(t, 101, *second.RoomNumber)

	// Cancelling twice is a state conflict.
	err := svc.Cancel(ctx, first.BookingID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestCreateBooking_InvalidatesAvailabilityCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := rediscache.NewRedis(db)

	rooms := memory.NewRoomRepository()
	room, err := domain.NewRoom(101, domain.RoomSingle, 120)
	require.NoError(t, err)
	require.NoError(t, rooms.Add(room))

	svc := services.NewReservationService(
		rooms, memory.NewBookingRepository(), cache, domain.NewSequence(1), services.LeastUsedFirst)

	mock.ExpectDel("availability:Single").SetVal(1)

	resp := createBooking(t, svc, "2025-12-01", "2025-12-04")
	require.NotNil(t, resp.RoomNumber)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailability_CacheMissThenHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := rediscache.NewRedis(db)

	rooms := memory.NewRoomRepository()
	for _, n := range []int{101, 102} {
		room, err := domain.NewRoom(n, domain.RoomSingle, 120)
		require.NoError(t, err)
		require.NoError(t, rooms.Add(room))
	}

	svc := services.NewReservationService(
		rooms, memory.NewBookingRepository(), cache, domain.NewSequence(1), services.LeastUsedFirst)

	want := []services.RoomSummary{
		{Number: 101, Type: "Single", PricePerNight: 120},
		{Number: 102, Type: "Single", PricePerNight: 120},
	}
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet("availability:Single").RedisNil()
	mock.ExpectSet("availability:Single", payload, 30*time.Second).SetVal("OK")

	listing, err := svc.Availability(context.Background(), domain.RoomSingle)
	require.NoError(t, err)
	assert.Equal(t, want, listing)

	// Second call is served from the cache without touching the
	// repository listing.
	mock.ExpectGet("availability:Single").SetVal(string(payload))
	listing, err = svc.Availability(context.Background(), domain.RoomSingle)
	require.NoError(t, err)
	assert.Equal(t, want, listing)

	assert.NoError(t, mock.ExpectationsWereMet())
}
