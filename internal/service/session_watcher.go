package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionWatcher periodically expires idle sessions.
type SessionWatcher struct {
	auth     AuthService
	interval time.Duration
	logger   *zap.Logger
}

func NewSessionWatcher(auth AuthService, interval time.Duration, logger *zap.Logger) *SessionWatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionWatcher{auth: auth, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled.
func (w *SessionWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Starting session watcher",
		zap.Duration("interval", w.interval),
		zap.Duration("timeout", w.auth.Timeout()),
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs a single expiry pass.
func (w *SessionWatcher) Sweep(ctx context.Context) int {
	n, err := w.auth.ExpireIdle(ctx)
	if err != nil {
		w.logger.Error("Failed to expire idle sessions", zap.Error(err))
	}
	if n > 0 {
		w.logger.Info("Expired idle sessions", zap.Int("count", n))
	}
	return n
}
