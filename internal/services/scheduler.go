package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// InvitationExpirer marks stale pending invitations as expired.
type InvitationExpirer interface {
	ExpireInvitations(ctx context.Context, now time.Time) (int64, error)
}

type Scheduler struct {
	log      *zap.Logger
	expirer  InvitationExpirer
	interval time.Duration
	now      func() time.Time
}

func NewScheduler(log *zap.Logger, expirer InvitationExpirer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		log:      log,
		expirer:  expirer,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the sweep in a goroutine until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("Starting invitation scheduler...", zap.Duration("interval", s.interval))
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info("Invitation scheduler stopped")
				return
			case <-ticker.C:
				s.runExpiryCheck(ctx)
			}
		}
	}()
}

func (s *Scheduler) runExpiryCheck(ctx context.Context) {
	now := s.now().UTC()
	s.log.Debug("Running invitation expiry check", zap.Time("utc_time", now))

	n, err := s.expirer.ExpireInvitations(ctx, now)
	if err != nil {
		s.log.Error("Failed to expire invitations", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("Expired stale invitations", zap.Int64("count", n))
	}
}
