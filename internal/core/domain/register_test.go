package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/reservation-engine/internal/core/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestBooking(t *testing.T, seq *domain.Sequence, arrive, depart time.Time) *domain.Booking {
	t.Helper()
	guest := domain.Guest{ID: "g-1", Name: "Wendy Torrance", Email: "wendy@example.com"}
	b, err := domain.NewBooking(seq, guest, arrive, depart)
	require.NoError(t, err)
	return b
}

func confirmStay(t *testing.T, room *domain.Room, b *domain.Booking) {
	t.Helper()
	require.True(t, room.TryAllocate(b))
	require.NoError(t, room.ConfirmBooking(b))
}

func TestOverlap_DepartureDayReuse(t *testing.T) {
	seq := domain.NewSequence(1)
	room, err := domain.NewRoom(101, domain.RoomSingle, 120)
	require.NoError(t, err)

	existing := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 4))
	confirmStay(t, room, existing)

	// A stay beginning on the other booking's departure day is free.
	backToBack := newTestBooking(t, seq, day(2025, 12, 4), day(2025, 12, 6))
	assert.False(t, room.Register().Overlaps(backToBack))
	assert.True(t, room.TryAllocate(backToBack))

	// A stay straddling the existing one conflicts.
	straddling := newTestBooking(t, seq, day(2025, 12, 3), day(2025, 12, 5))
	assert.True(t, room.Register().Overlaps(straddling))
	assert.False(t, room.TryAllocate(straddling))
	assert.Equal(t, domain.BookingUnconfirmed, straddling.Status())
}

func TestOverlap_OneNightStay(t *testing.T) {
	seq := domain.NewSequence(1)
	room, err := domain.NewRoom(101, domain.RoomSingle, 120)
	require.NoError(t, err)

	oneNight := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 2))
	confirmStay(t, room, oneNight)

	dates := room.Register().BookedDates()
	require.Len(t, dates, 1)
	assert.Equal(t, day(2025, 12, 1), dates[0])

	sameNight := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 2))
	assert.True(t, room.Register().Overlaps(sameNight))

	nextNight := newTestBooking(t, seq, day(2025, 12, 2), day(2025, 12, 3))
	assert.False(t, room.Register().Overlaps(nextNight))
}

func TestRegister_TentativeBookingDoesNotBlock(t *testing.T) {
	seq := domain.NewSequence(1)
	room, err := domain.NewRoom(101, domain.RoomSingle, 120)
	require.NoError(t, err)

	tentative := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 4))
	require.True(t, room.TryAllocate(tentative))

	// Allocation alone commits no dates, so another candidate over
	// the same range is still considered free and can be allocated.
	rival := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 4))
	assert.False(t, room.Register().Overlaps(rival))
	require.True(t, room.TryAllocate(rival))

	// Once the first booking confirms, the rival loses the race.
	require.NoError(t, room.ConfirmBooking(tentative))
	err = room.ConfirmBooking(rival)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
	assert.Equal(t, domain.BookingPossible, rival.Status())
}

func TestRegister_EnumerationInBookingIDOrder(t *testing.T) {
	seq := domain.NewSequence(1)
	room, err := domain.NewRoom(101, domain.RoomSingle, 120)
	require.NoError(t, err)

	b1 := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 3))
	b2 := newTestBooking(t, seq, day(2025, 12, 5), day(2025, 12, 7))
	b3 := newTestBooking(t, seq, day(2025, 12, 10), day(2025, 12, 11))

	// Insert out of order; enumeration is by ascending booking ID.
	confirmStay(t, room, b3)
	confirmStay(t, room, b1)
	confirmStay(t, room, b2)

	bookings := room.Register().Bookings()
	require.Len(t, bookings, 3)
	assert.Equal(t, []int64{b1.ID, b2.ID, b3.ID},
		[]int64{bookings[0].ID, bookings[1].ID, bookings[2].ID})

	guests := room.Register().Guests()
	require.Len(t, guests, 3)

	dates := room.Register().BookedDates()
	require.Len(t, dates, 5)
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i-1].Before(dates[i]))
	}
}

func TestRegister_ReleaseFreesDates(t *testing.T) {
	seq := domain.NewSequence(1)
	room, err := domain.NewRoom(101, domain.RoomSingle, 120)
	require.NoError(t, err)

	b := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 4))
	confirmStay(t, room, b)
	require.True(t, room.Register().HasCommittedDates())
	assert.False(t, room.Removable())

	room.ReleaseBooking(b)
	assert.False(t, room.Register().HasCommittedDates())
	assert.Empty(t, room.Register().Bookings())
	assert.True(t, room.Removable())

	rebooked := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 4))
	assert.False(t, room.Register().Overlaps(rebooked))
}

func TestRoom_UnavailableRejectsAllocation(t *testing.T) {
	seq := domain.NewSequence(1)
	room, err := domain.NewRoom(101, domain.RoomSingle, 120)
	require.NoError(t, err)

	room.SetAvailable(false)
	b := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 4))
	assert.False(t, room.TryAllocate(b))
	assert.Equal(t, 0, room.AllocationCount())
}
