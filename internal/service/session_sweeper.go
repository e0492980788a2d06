package service

import (
	"context"
	"time"

	"github.com/Payphone-Digital/shortlink/pkg/logger"
)

// SessionSweeper periodically deletes expired refresh sessions.
type SessionSweeper struct {
	auth     *AuthService
	interval time.Duration
}

func NewSessionSweeper(auth *AuthService, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{auth: auth, interval: interval}
}

// Run blocks until ctx is cancelled. A non-positive interval disables sweeping.
func (s *SessionSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pruning pass.
func (s *SessionSweeper) Sweep(ctx context.Context) {
	deleted, err := s.auth.PruneExpiredSessions(ctx)
	if err != nil {
		logger.ErrorWithContext(ctx, "Session sweep failed").Err(err).Log()
		return
	}
	if deleted > 0 {
		logger.InfoWithContext(ctx, "Expired sessions pruned").Int64("deleted", deleted).Log()
	}
}
