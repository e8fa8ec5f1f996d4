package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/store"
)

const defaultSweepInterval = 15 * time.Minute

// ResetTokenSweeper periodically deletes expired password reset tokens.
// Expired tokens can never be redeemed, so removing them only keeps the
// table small.
type ResetTokenSweeper struct {
	repository store.ResetTokenRepository
	interval   time.Duration
	logger     *logger.Logger
}

func NewResetTokenSweeper(repository store.ResetTokenRepository, interval time.Duration, logger *logger.Logger) *ResetTokenSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &ResetTokenSweeper{
		repository: repository,
		interval:   interval,
		logger:     logger,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *ResetTokenSweeper) Run(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("reset token sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("reset token sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *ResetTokenSweeper) sweep(ctx context.Context) {
	removed, err := s.repository.DeleteExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Err(err).Msg("expired reset tokens were not removed")
		}
		return
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Msg("expired reset tokens removed")
	}
}
