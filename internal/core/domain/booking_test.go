package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/reservation-engine/internal/core/domain"
)

func TestNewBooking_Validation(t *testing.T) {
	seq := domain.NewSequence(1)
	guest := domain.Guest{ID: "g-1", Name: "Wendy Torrance"}

	_, err := domain.NewBooking(seq, guest, day(2025, 12, 4), day(2025, 12, 1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	// arrival == departure is an empty stay and is rejected.
	_, err = domain.NewBooking(seq, guest, day(2025, 12, 1), day(2025, 12, 1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = domain.NewBooking(seq, domain.Guest{}, day(2025, 12, 1), day(2025, 12, 4))
	assert.ErrorIs(t, err, domain.ErrValidation)

	b, err := domain.NewBooking(seq, guest, day(2025, 12, 1), day(2025, 12, 4))
	require.NoError(t, err)
	assert.Equal(t, domain.BookingUnconfirmed, b.Status())
	assert.Equal(t, 3, b.Nights())
	assert.False(t, b.Assignment().Assigned())
	assert.WithinDuration(t, time.Now(), b.BookedOn, time.Minute)
}

func TestBooking_IDsAreMonotone(t *testing.T) {
	seq := domain.NewSequence(1)
	guest := domain.Guest{ID: "g-1", Name: "Wendy Torrance"}

	var last int64
	for i := 0; i < 5; i++ {
		b, err := domain.NewBooking(seq, guest, day(2025, 12, 1), day(2025, 12, 4))
		require.NoError(t, err)
		assert.Greater(t, b.ID, last)
		last = b.ID
	}
}

func TestBooking_LifecycleTransitions(t *testing.T) {
	seq := domain.NewSequence(1)
	room, err := domain.NewRoom(101, domain.RoomSingle, 120)
	require.NoError(t, err)

	b := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 4))

	// Paid is only reachable from Confirmed.
	assert.ErrorIs(t, b.MarkPaid(), domain.ErrStateConflict)

	require.True(t, room.TryAllocate(b))
	assert.Equal(t, domain.BookingPossible, b.Status())
	assigned, ok := b.Room()
	require.True(t, ok)
	assert.Equal(t, 101, assigned.Number)

	assert.ErrorIs(t, b.MarkPaid(), domain.ErrStateConflict)

	require.NoError(t, room.ConfirmBooking(b))
	assert.Equal(t, domain.BookingConfirmed, b.Status())

	require.NoError(t, b.MarkPaid())
	assert.Equal(t, domain.BookingPaid, b.Status())

	// Paid is not terminal; an administrative refund is allowed.
	require.NoError(t, b.Refund())
	assert.True(t, b.Status().Terminal())

	// Terminal states accept nothing further.
	assert.ErrorIs(t, b.Cancel(), domain.ErrStateConflict)
	assert.ErrorIs(t, b.MarkPaid(), domain.ErrStateConflict)
}

func TestBooking_CancelFromAnyNonTerminalState(t *testing.T) {
	seq := domain.NewSequence(1)

	for _, setup := range []func(t *testing.T) *domain.Booking{
		func(t *testing.T) *domain.Booking {
			return newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 4))
		},
		func(t *testing.T) *domain.Booking {
			room, err := domain.NewRoom(101, domain.RoomSingle, 120)
			require.NoError(t, err)
			b := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 4))
			require.True(t, room.TryAllocate(b))
			return b
		},
		func(t *testing.T) *domain.Booking {
			room, err := domain.NewRoom(101, domain.RoomSingle, 120)
			require.NoError(t, err)
			b := newTestBooking(t, seq, day(2025, 12, 1), day(2025, 12, 4))
			confirmStay(t, room, b)
			return b
		},
	} {
		b := setup(t)
		require.NoError(t, b.Cancel())
		assert.Equal(t, domain.BookingCancelled, b.Status())
	}
}
