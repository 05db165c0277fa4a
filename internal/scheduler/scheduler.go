package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/dimitrije/teamup-api/internal/logger"
	"github.com/robfig/cron/v3"
)

const (
	sweepSchedule = "@every 1m"
	jobTimeout    = time.Minute
)

// TokenCleaner deletes refresh tokens past their expiry.
type TokenCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// SweepFunc drops expired in-memory entries and reports how many it removed.
type SweepFunc func(now time.Time) int

// Scheduler runs periodic housekeeping.
type Scheduler struct {
	cron            *cron.Cron
	tokens          TokenCleaner
	cleanupSchedule string
	sweepers        map[string]SweepFunc
}

func New(cleanupSchedule string, tokens TokenCleaner) *Scheduler {
	return &Scheduler{
		cron:            cron.New(),
		tokens:          tokens,
		cleanupSchedule: cleanupSchedule,
		sweepers:        make(map[string]SweepFunc),
	}
}

// AddSweeper registers fn to run every minute. Call before Start.
func (s *Scheduler) AddSweeper(name string, fn SweepFunc) {
	s.sweepers[name] = fn
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cleanupSchedule, s.CleanupTokens); err != nil {
		return fmt.Errorf("invalid token cleanup schedule %q: %w", s.cleanupSchedule, err)
	}

	for name, fn := range s.sweepers {
		if _, err := s.cron.AddFunc(sweepSchedule, func() { s.sweep(name, fn) }); err != nil {
			return fmt.Errorf("failed to schedule %s sweep: %w", name, err)
		}
	}

	s.cron.Start()
	logger.Info().
		Str("token_cleanup", s.cleanupSchedule).
		Int("sweepers", len(s.sweepers)).
		Msg("scheduler started")
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		logger.Info().Msg("scheduler stopped")
	case <-ctx.Done():
		logger.Warn().Msg("scheduler stopped before jobs finished")
	}
}

func (s *Scheduler) CleanupTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := s.tokens.CleanupExpired(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("refresh token cleanup failed")
		return
	}
	logger.Debug().Int64("removed", removed).Msg("expired refresh tokens removed")
}

func (s *Scheduler) sweep(name string, fn SweepFunc) {
	if removed := fn(time.Now()); removed > 0 {
		logger.Debug().Str("sweeper", name).Int("removed", removed).Msg("expired entries removed")
	}
}
