//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"parking-reservation/internal/domain/reservation"
	reqdto "parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentCommands_HandleWebhook(t *testing.T) {
	ctx := context.Background()
	start := baseTime.Add(time.Hour)
	end := start.Add(time.Hour)

	webhook := func(id uuid.UUID, paymentID, status string) reqdto.PaymentWebhookRequest {
		return reqdto.PaymentWebhookRequest{ReservationID: id, PaymentID: paymentID, Status: status}
	}

	t.Run("成功通知で保留中の予約が確定する", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusPending, start, end)
		cmds := commands.NewPaymentCommands(f.store, f.clock)

		updated, err := cmds.HandleWebhook(ctx, webhook(res.ID(), "pay_1", reqdto.PaymentSucceeded))

		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, updated.Status())
		require.NotNil(t, updated.PaymentRef())
		assert.Equal(t, "pay_1", *updated.PaymentRef())
		assert.Equal(t, []string{shared.TopicReservationConfirmed}, f.store.JobTopics())
	})

	t.Run("同じ成功通知の再送は何もしない", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusPending, start, end)
		cmds := commands.NewPaymentCommands(f.store, f.clock)

		_, err := cmds.HandleWebhook(ctx, webhook(res.ID(), "pay_1", reqdto.PaymentSucceeded))
		require.NoError(t, err)
		_, err = cmds.HandleWebhook(ctx, webhook(res.ID(), "pay_1", reqdto.PaymentSucceeded))
		require.NoError(t, err)

		assert.Len(t, f.store.Jobs(), 1)
	})

	t.Run("別の支払いIDでの成功通知は拒否する", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusConfirmed, start, end)
		cmds := commands.NewPaymentCommands(f.store, f.clock)

		_, err := cmds.HandleWebhook(ctx, webhook(res.ID(), "pay_other", reqdto.PaymentSucceeded))

		assert.True(t, errs.Is(err, commands.ErrInvalidTransition))
		assert.True(t, errs.Is(err, reservation.ErrPaymentMismatch))
	})

	t.Run("失敗通知で保留中の予約がキャンセルされる", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusPending, start, end)
		cmds := commands.NewPaymentCommands(f.store, f.clock)

		updated, err := cmds.HandleWebhook(ctx, webhook(res.ID(), "pay_1", reqdto.PaymentFailed))

		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCancelled, updated.Status())
		assert.Equal(t, []string{shared.TopicReservationCancelled}, f.store.JobTopics())

		_, err = cmds.HandleWebhook(ctx, webhook(res.ID(), "pay_1", reqdto.PaymentFailed))
		require.NoError(t, err)
		assert.Len(t, f.store.Jobs(), 1)
	})

	t.Run("確定済みの予約は遅れた失敗通知で取り消さない", func(t *testing.T) {
		f := newFixture()
		res := f.seedReservation(f.driver.UserID, reservation.StatusConfirmed, start, end)
		cmds := commands.NewPaymentCommands(f.store, f.clock)

		_, err := cmds.HandleWebhook(ctx, webhook(res.ID(), "pay_1", reqdto.PaymentFailed))

		assert.True(t, errs.Is(err, commands.ErrInvalidTransition))
		assert.Equal(t, reservation.StatusConfirmed, f.store.Reservation(res.ID()).Status())
	})

	t.Run("存在しない予約", func(t *testing.T) {
		f := newFixture()
		cmds := commands.NewPaymentCommands(f.store, f.clock)

		_, err := cmds.HandleWebhook(ctx, webhook(uuid.New(), "pay_1", reqdto.PaymentSucceeded))

		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}

func TestSweepCommands_Sweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	expiredPending := f.seedReservation(f.driver.UserID, reservation.StatusPending, baseTime.Add(-3*time.Hour), baseTime.Add(-2*time.Hour))
	expiredConfirmed := f.seedReservation(f.driver.UserID, reservation.StatusConfirmed, baseTime.Add(-2*time.Hour), baseTime.Add(-time.Hour))
	current := f.seedReservation(f.other.UserID, reservation.StatusConfirmed, baseTime.Add(-30*time.Minute), baseTime.Add(30*time.Minute))

	result, err := commands.NewSweepCommands(f.store, commands.SweepSettings{}, f.clock).Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Cancelled)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, reservation.StatusCancelled, f.store.Reservation(expiredPending.ID()).Status())
	assert.Equal(t, reservation.StatusCompleted, f.store.Reservation(expiredConfirmed.ID()).Status())
	assert.Equal(t, reservation.StatusConfirmed, f.store.Reservation(current.ID()).Status())

	// the in-progress booking keeps the spot occupied
	assert.False(t, f.store.Spot(f.spot.ID()).IsAvailable())
	assert.ElementsMatch(t,
		[]string{shared.TopicReservationCancelled, shared.TopicReservationCompleted},
		f.store.JobTopics(),
	)

	t.Run("終了後の再実行で空きに戻る", func(t *testing.T) {
		f.clock.Add(time.Hour)

		result, err := commands.NewSweepCommands(f.store, commands.SweepSettings{}, f.clock).Sweep(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Completed)
		assert.True(t, f.store.Spot(f.spot.ID()).IsAvailable())
	})
}

func TestSweepCommands_PurgesOldJobs(t *testing.T) {
	ctx := context.Background()
	retention := 7 * 24 * time.Hour

	// old-sent and old-queued are past retention, fresh-sent is not
	seedJobs := func(t *testing.T, f *fixture) {
		require.NoError(t, f.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			old := baseTime.Add(-10 * 24 * time.Hour)
			for topic, runAt := range map[string]time.Time{
				"old-sent":   old,
				"old-queued": old,
				"fresh-sent": baseTime.Add(-time.Hour),
			} {
				if err := tx.Notifications().Enqueue(ctx, shared.EventKindReservation, topic, []byte(`{}`), runAt); err != nil {
					return err
				}
			}
			jobs, err := tx.Notifications().ClaimDue(ctx, baseTime, 10)
			if err != nil {
				return err
			}
			for _, job := range jobs {
				if job.Topic == "old-queued" {
					continue
				}
				job.Status = shared.OutboxSent
				if err := tx.Notifications().UpdateStatus(ctx, job); err != nil {
					return err
				}
			}
			return nil
		}))
	}

	tests := []struct {
		name       string
		settings   commands.SweepSettings
		wantPurged int64
		wantTopics []string
	}{
		{
			name:       "リレーありでは保持期間を過ぎた送信済みのみ削除する",
			settings:   commands.SweepSettings{JobRetention: retention},
			wantPurged: 1,
			wantTopics: []string{"old-queued", "fresh-sent"},
		},
		{
			name:       "リレーなしでは未送信のジョブも削除する",
			settings:   commands.SweepSettings{JobRetention: retention, PurgeQueued: true},
			wantPurged: 2,
			wantTopics: []string{"fresh-sent"},
		},
		{
			name:       "保持期間ゼロなら何も削除しない",
			settings:   commands.SweepSettings{PurgeQueued: true},
			wantPurged: 0,
			wantTopics: []string{"old-sent", "old-queued", "fresh-sent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			seedJobs(t, f)

			result, err := commands.NewSweepCommands(f.store, tt.settings, f.clock).Sweep(ctx)

			require.NoError(t, err)
			assert.Equal(t, tt.wantPurged, result.JobsPurged)
			assert.ElementsMatch(t, tt.wantTopics, f.store.JobTopics())
		})
	}
}
