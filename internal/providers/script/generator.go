package script

import (
	"context"

	"dreamtoons/internal/domain"
)

// Generator turns a story into a structured scene script. Implementations
// call an LLM backend once per job; a failed generation is a hard stop for
// the job and is never retried within the same request.
type Generator interface {
	Generate(ctx context.Context, story string, maxPanels int, style string) (*domain.PanelScript, error)
}
