//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"parking-reservation/internal/domain/charge"
	"parking-reservation/internal/domain/reservation"
	reqdto "parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/pkg/ptr"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chargeRequest(amount float64, minutes int) reqdto.AdditionalChargeRequest {
	return reqdto.AdditionalChargeRequest{Amount: amount, ExceededMinutes: ptr.Of(minutes)}
}

func TestChargeCommands_SettleOverstay(t *testing.T) {
	ctx := context.Background()
	end := baseTime.Add(-20 * time.Minute)
	start := end.Add(-time.Hour)

	t.Run("基本成功ケース: 超過分を一度だけ記録する", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusConfirmed, start, end)
		cmds := commands.NewChargeCommands(f.store, f.evaluator(), f.clock)

		first, err := cmds.SettleOverstay(ctx, res.ID(), chargeRequest(10, 20), f.driver)
		require.NoError(t, err)
		assert.False(t, first.IsReplayed)
		assert.Equal(t, int64(1000), first.Charge.AmountCents())
		assert.Equal(t, 20, first.Charge.ExceededMinutes())
		assert.Equal(t, charge.PaymentPaid, first.Charge.PaymentStatus())

		f.clock.Add(30 * time.Minute)
		again, err := cmds.SettleOverstay(ctx, res.ID(), chargeRequest(20, 50), f.driver)
		require.NoError(t, err)
		assert.True(t, again.IsReplayed)
		assert.Equal(t, first.Charge.ID(), again.Charge.ID())

		assert.Len(t, f.store.Charges(res.ID()), 1)
		assert.Equal(t, []string{shared.TopicChargeSettled}, f.store.JobTopics())
	})

	t.Run("クライアント金額が異なってもサーバー評価で記録する", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusConfirmed, start, end)
		cmds := commands.NewChargeCommands(f.store, f.evaluator(), f.clock)

		result, err := cmds.SettleOverstay(ctx, res.ID(), chargeRequest(1, 1), f.driver)

		require.NoError(t, err)
		assert.Equal(t, int64(1000), result.Charge.AmountCents())
	})

	t.Run("チェックアウト時刻で超過時間が確定する", func(t *testing.T) {
		f := newFixture()
		checkedOut := end.Add(5 * time.Minute)
		res := reservation.ReconstructReservation(
			uuid.New(), f.driver.UserID, f.spot.ID(), reservation.NewTimeWindow(start, end),
			reservation.StatusCompleted, reservation.MustMoney(10000), reservation.DefaultPaymentMethod,
			ptr.Of("pay_1"), "", &checkedOut, nil, baseTime, baseTime,
		)
		f.store.AddReservation(res)
		cmds := commands.NewChargeCommands(f.store, f.evaluator(), f.clock)

		result, err := cmds.SettleOverstay(ctx, res.ID(), chargeRequest(5, 5), f.driver)

		require.NoError(t, err)
		assert.Equal(t, 5, result.Charge.ExceededMinutes())
		assert.Equal(t, int64(500), result.Charge.AmountCents())
	})

	t.Run("終了前は超過していない", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusConfirmed, baseTime, baseTime.Add(time.Hour))
		cmds := commands.NewChargeCommands(f.store, f.evaluator(), f.clock)

		_, err := cmds.SettleOverstay(ctx, res.ID(), chargeRequest(5, 5), f.driver)

		assert.True(t, errs.Is(err, commands.ErrNotOverstayed))
		assert.Empty(t, f.store.Charges(res.ID()))
	})

	t.Run("保留中の予約には請求できない", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusPending, start, end)
		cmds := commands.NewChargeCommands(f.store, f.evaluator(), f.clock)

		_, err := cmds.SettleOverstay(ctx, res.ID(), chargeRequest(10, 20), f.driver)

		assert.ErrorIs(t, err, commands.ErrNotBillable)
	})

	t.Run("他人の予約には請求できない", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusConfirmed, start, end)
		cmds := commands.NewChargeCommands(f.store, f.evaluator(), f.clock)

		_, err := cmds.SettleOverstay(ctx, res.ID(), chargeRequest(10, 20), f.other)

		assert.ErrorIs(t, err, commands.ErrReservationAccess)
	})

	t.Run("同時送信でも支払いは一件だけ", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusConfirmed, start, end)
		cmds := commands.NewChargeCommands(f.store, f.evaluator(), f.clock)

		const workers = 8
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			ids      = map[uuid.UUID]struct{}{}
			replayed int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := cmds.SettleOverstay(ctx, res.ID(), chargeRequest(10, 20), f.driver)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				ids[result.Charge.ID()] = struct{}{}
				if result.IsReplayed {
					replayed++
				}
			}()
		}
		wg.Wait()

		assert.Len(t, ids, 1)
		assert.Equal(t, workers-1, replayed)
		assert.Len(t, f.store.Charges(res.ID()), 1)
	})
}
