package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// TokenJanitor is the slice of the account repository the sweeps need.
type TokenJanitor interface {
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

// SessionJanitor prunes dead refresh tokens.
type SessionJanitor interface {
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// refresh tokens stick around this long past expiry so the rotation chain
// stays inspectable.
const sessionRetention = 30 * 24 * time.Hour

type Scheduler struct {
	cron     *cron.Cron
	accounts TokenJanitor
	sessions SessionJanitor
	log      zerolog.Logger
}

func NewScheduler(accounts TokenJanitor, sessions SessionJanitor, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		accounts: accounts,
		sessions: sessions,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.sweepResetTokens); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 30 0 * * *", s.sweepRefreshTokens); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for in-flight sweeps, up to five seconds.
func (s *Scheduler) Stop() {
	wait, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-wait.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) sweepResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cleared, err := s.accounts.ClearExpiredResetTokens(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reset token sweep failed")
		return
	}
	if cleared > 0 {
		s.log.Info().Int64("cleared", cleared).Msg("expired reset tokens cleared")
	}
}

func (s *Scheduler) sweepRefreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.sessions.DeleteExpiredBefore(ctx, time.Now().Add(-sessionRetention))
	if err != nil {
		s.log.Error().Err(err).Msg("refresh token sweep failed")
		return
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Msg("stale refresh tokens deleted")
	}
}
