package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/HapaxPablo/online-cinema-server/internal/repo"
	"github.com/HapaxPablo/online-cinema-server/pkg/logger"
)

const purgeInterval = time.Hour

// Scheduler runs periodic housekeeping: expired refresh tokens are purged so
// the collection does not grow with abandoned sessions.
type Scheduler struct {
	tokens    *repo.RefreshTokenRepo
	scheduler gocron.Scheduler
}

func New(tokens *repo.RefreshTokenRepo) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Scheduler{tokens: tokens, scheduler: s}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(purgeInterval),
		gocron.NewTask(func() {
			s.purgeExpiredTokens(ctx)
		}),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
}

func (s *Scheduler) purgeExpiredTokens(ctx context.Context) {
	log := logger.Log

	deleted, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to purge expired refresh tokens")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("expired refresh tokens purged")
	}
}
