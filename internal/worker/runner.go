package worker

import (
	"context"
	"errors"
	"time"

	"dreamtoons/internal/domain"
	"dreamtoons/internal/infra"
)

// Runner polls the job tables and hands claimed jobs to the orchestrator.
// Multiple runner processes can share the tables; the claim query's row
// locking guarantees each job lands on exactly one of them.
type Runner struct {
	comics       domain.ComicJobRepository
	avatars      domain.AvatarJobRepository
	orchestrator *Orchestrator
	logger       *infra.Logger
	pollInterval time.Duration
}

func NewRunner(comics domain.ComicJobRepository, avatars domain.AvatarJobRepository, orchestrator *Orchestrator, logger *infra.Logger, pollInterval time.Duration) *Runner {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Runner{
		comics:       comics,
		avatars:      avatars,
		orchestrator: orchestrator,
		logger:       logger,
		pollInterval: pollInterval,
	}
}

// Run claims and processes jobs until the context is cancelled. The poll
// interval only applies when both queues are empty; back-to-back jobs are
// drained without sleeping.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		worked, err := r.tick(ctx)
		if err != nil {
			r.logger.Error().Err(err).Msg("worker: tick failed")
		}
		if worked {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// tick claims at most one job of each kind. Returns whether any work was
// done.
func (r *Runner) tick(ctx context.Context) (bool, error) {
	worked := false

	comic, err := r.comics.Claim(ctx)
	switch {
	case err == nil:
		worked = true
		if err := r.orchestrator.ProcessComic(ctx, comic); err != nil {
			return worked, err
		}
	case !errors.Is(err, domain.ErrNotFound):
		return worked, err
	}

	avatar, err := r.avatars.Claim(ctx)
	switch {
	case err == nil:
		worked = true
		if err := r.orchestrator.ProcessAvatar(ctx, avatar); err != nil {
			return worked, err
		}
	case !errors.Is(err, domain.ErrNotFound):
		return worked, err
	}

	return worked, nil
}
