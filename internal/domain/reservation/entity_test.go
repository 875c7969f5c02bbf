//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/pkg/ptr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReservation(paymentRef *string) *reservation.Reservation {
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	return reservation.NewReservation(
		uuid.New(), uuid.New(),
		reservation.NewTimeWindow(start, start.Add(2*time.Hour)),
		reservation.MustMoney(12000),
		"",
		paymentRef,
		"token",
	)
}

func TestNewReservation(t *testing.T) {
	t.Run("支払い参照なしはpending", func(t *testing.T) {
		r := newReservation(nil)
		assert.Equal(t, reservation.StatusPending, r.Status())
		assert.Nil(t, r.PaymentRef())
		assert.Equal(t, reservation.DefaultPaymentMethod, r.PaymentMethod())
	})

	t.Run("支払い参照ありはconfirmed", func(t *testing.T) {
		r := newReservation(ptr.Of("pay_1"))
		assert.Equal(t, reservation.StatusConfirmed, r.Status())
		require.NotNil(t, r.PaymentRef())
		assert.Equal(t, "pay_1", *r.PaymentRef())
	})

	t.Run("空白の支払い参照はpending", func(t *testing.T) {
		r := newReservation(ptr.Of("  "))
		assert.Equal(t, reservation.StatusPending, r.Status())
		assert.Nil(t, r.PaymentRef())
	})
}

func TestReservation_Confirm(t *testing.T) {
	r := newReservation(nil)

	changed, err := r.Confirm("pay_1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, reservation.StatusConfirmed, r.Status())

	changed, err = r.Confirm("pay_1")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = r.Confirm("pay_2")
	assert.ErrorIs(t, err, reservation.ErrPaymentMismatch)

	require.NoError(t, r.Cancel())
	_, err = r.Confirm("pay_1")
	assert.ErrorIs(t, err, reservation.ErrInvalidTransition)
}

func TestReservation_Cancel(t *testing.T) {
	t.Run("開始前の本人キャンセルOK", func(t *testing.T) {
		r := newReservation(nil)
		require.NoError(t, r.CancelByOwner(r.Window().Start().Add(-time.Minute)))
		assert.Equal(t, reservation.StatusCancelled, r.Status())
	})

	t.Run("開始後の本人キャンセルNG", func(t *testing.T) {
		r := newReservation(nil)
		assert.ErrorIs(t, r.CancelByOwner(r.Window().Start()), reservation.ErrAlreadyStarted)
	})

	t.Run("二重キャンセルNG", func(t *testing.T) {
		r := newReservation(nil)
		require.NoError(t, r.Cancel())
		assert.ErrorIs(t, r.Cancel(), reservation.ErrInvalidTransition)
	})
}

func TestReservation_CheckOut(t *testing.T) {
	r := newReservation(ptr.Of("pay_1"))
	out := r.Window().End().Add(10 * time.Minute)

	require.NoError(t, r.CheckOut(out))
	assert.Equal(t, reservation.StatusCompleted, r.Status())
	require.NotNil(t, r.CheckedOutAt())
	assert.Equal(t, out, r.OverstayClock(out.Add(time.Hour)))

	assert.ErrorIs(t, r.CheckOut(out), reservation.ErrInvalidTransition)
	assert.ErrorIs(t, newReservation(nil).CheckOut(out), reservation.ErrInvalidTransition)
}

func TestReservation_OverstayClockAfterSweepCompletion(t *testing.T) {
	r := newReservation(ptr.Of("pay_1"))
	require.NoError(t, r.Complete())

	// the car may still be parked; only check-out stops the clock
	later := r.Window().End().Add(3 * time.Hour)
	assert.Equal(t, later, r.OverstayClock(later))
	assert.True(t, r.IsBillable())
}

func TestReservation_Redeem(t *testing.T) {
	early := 15 * time.Minute

	tests := []struct {
		name   string
		offset time.Duration
		errIs  error
	}{
		{"開始15分前OK", -15 * time.Minute, nil},
		{"終了時刻ちょうどOK", 2 * time.Hour, nil},
		{"開始16分前NG", -16 * time.Minute, reservation.ErrOutsideRedeemTime},
		{"終了後NG", 2*time.Hour + time.Second, reservation.ErrOutsideRedeemTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newReservation(ptr.Of("pay_1"))
			err := r.Redeem(r.Window().Start().Add(tt.offset), early)
			if tt.errIs == nil {
				require.NoError(t, err)
				assert.NotNil(t, r.RedeemedAt())
				return
			}
			assert.ErrorIs(t, err, tt.errIs)
		})
	}

	t.Run("二重利用NG", func(t *testing.T) {
		r := newReservation(ptr.Of("pay_1"))
		now := r.Window().Start()
		require.NoError(t, r.Redeem(now, early))
		assert.ErrorIs(t, r.Redeem(now, early), reservation.ErrAlreadyRedeemed)
	})

	t.Run("pendingは利用不可", func(t *testing.T) {
		r := newReservation(nil)
		assert.ErrorIs(t, r.Redeem(r.Window().Start(), early), reservation.ErrInvalidTransition)
	})
}
