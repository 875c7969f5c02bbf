package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loop runs tick on a fixed interval until Stop. Ticks never overlap.
type Loop struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewLoop(name string, interval time.Duration, logger *slog.Logger, tick func(ctx context.Context)) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		name:     name,
		interval: interval,
		tick:     tick,
		logger:   logger.With("worker", name),
		done:     make(chan struct{}),
	}
}

func (l *Loop) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	go func() {
		defer close(l.done)

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		l.logger.Info("worker started", "interval", l.interval)
		for {
			select {
			case <-ctx.Done():
				l.logger.Info("worker stopped")
				return
			case <-ticker.C:
				l.tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the running tick, bounded by ctx.
func (l *Loop) Stop(ctx context.Context) error {
	l.once.Do(func() {
		if l.cancel != nil {
			l.cancel()
		}
	})
	if l.cancel == nil {
		return nil
	}

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
