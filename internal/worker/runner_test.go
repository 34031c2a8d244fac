package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"dreamtoons/internal/domain"
)

// queuedComicRepo serves a fixed backlog of pending jobs.
type queuedComicRepo struct {
	stubComicRepo
	mu    sync.Mutex
	queue []*domain.ComicJob
}

func (r *queuedComicRepo) Claim(ctx context.Context) (*domain.ComicJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return nil, domain.ErrNotFound
	}
	job := r.queue[0]
	r.queue = r.queue[1:]
	job.Status = domain.ComicStatusProcessing
	return job, nil
}

func TestRunnerDrainsBacklogThenStopsOnCancel(t *testing.T) {
	f := newFixture(t, 1)
	comics := &queuedComicRepo{queue: []*domain.ComicJob{testComicJob(), testComicJob()}}
	f.orch.comics = &comics.stubComicRepo

	runner := NewRunner(comics, f.avatars, f.orch, f.orch.logger, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := runner.Run(ctx); err != context.DeadlineExceeded {
		t.Fatalf("Run returned %v", err)
	}

	comics.mu.Lock()
	remaining := len(comics.queue)
	comics.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("backlog not drained: %d left", remaining)
	}
	if len(f.synth.requests) != 2 {
		t.Fatalf("synth calls = %d, want one per queued job", len(f.synth.requests))
	}
}
