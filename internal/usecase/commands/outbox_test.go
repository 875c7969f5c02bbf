//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMessage struct {
	topic   string
	key     string
	payload []byte
}

type stubPublisher struct {
	mu       sync.Mutex
	fail     map[string]error
	messages []recordedMessage
}

func (p *stubPublisher) Publish(_ context.Context, topic string, key, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail[topic]; err != nil {
		return err
	}
	p.messages = append(p.messages, recordedMessage{topic: topic, key: string(key), payload: payload})
	return nil
}

func TestOutboxCommands_RelayDue(t *testing.T) {
	ctx := context.Background()
	settings := commands.OutboxSettings{BatchSize: 10, MaxAttempts: 2}

	// cancelling one booking leaves a single queued event
	seedEvent := func(f *fixture) *reservation.Reservation {
		res := f.seedReservation(f.driver.UserID, reservation.StatusConfirmed, baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		_, err := f.reservationCommands().Cancel(ctx, res.ID(), f.driver)
		require.NoError(t, err)
		return res
	}

	t.Run("基本成功ケース: 予約IDをキーに送信する", func(t *testing.T) {
		f := newFixture()
		res := seedEvent(f)
		pub := &stubPublisher{}

		result, err := commands.NewOutboxCommands(f.store, pub, settings, f.clock).RelayDue(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
		require.Len(t, pub.messages, 1)
		assert.Equal(t, shared.TopicReservationCancelled, pub.messages[0].topic)
		assert.Equal(t, res.ID().String(), pub.messages[0].key)
		assert.Equal(t, shared.OutboxSent, f.store.Jobs()[0].Status)

		again, err := commands.NewOutboxCommands(f.store, pub, settings, f.clock).RelayDue(ctx)
		require.NoError(t, err)
		assert.Zero(t, again.Sent)
	})

	t.Run("失敗は遅延付きで再試行され上限で失敗になる", func(t *testing.T) {
		f := newFixture()
		seedEvent(f)
		pub := &stubPublisher{fail: map[string]error{shared.TopicReservationCancelled: errors.New("broker down")}}
		relay := commands.NewOutboxCommands(f.store, pub, settings, f.clock)

		result, err := relay.RelayDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Retried)

		job := f.store.Jobs()[0]
		assert.Equal(t, shared.OutboxQueued, job.Status)
		assert.Equal(t, 1, job.Attempts)
		assert.True(t, job.RunAt.After(baseTime))
		require.NotNil(t, job.LastError)
		assert.Contains(t, *job.LastError, "broker down")

		// not yet due
		result, err = relay.RelayDue(ctx)
		require.NoError(t, err)
		assert.Zero(t, result.Retried+result.Failed)

		f.clock.Add(time.Minute)
		result, err = relay.RelayDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, shared.OutboxFailed, f.store.Jobs()[0].Status)
	})

	t.Run("トランザクション失敗はそのまま返す", func(t *testing.T) {
		f := newFixture()
		boom := errors.New("connection reset")
		f.store.FailNext(1, boom)

		_, err := commands.NewOutboxCommands(f.store, &stubPublisher{}, settings, f.clock).RelayDue(ctx)

		assert.ErrorIs(t, err, boom)
	})
}
