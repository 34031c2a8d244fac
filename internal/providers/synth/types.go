package synth

import (
	"context"
	"fmt"

	"dreamtoons/internal/domain"
)

// Request is the normalized input for one image synthesis call. Reference
// is the identity-anchoring avatar image, shared read-only across all panel
// tasks of a job. Seed is a per-job consistency hint; backends that cannot
// honor it ignore it.
type Request struct {
	Prompt         string
	NegativePrompt string
	Reference      []byte
	Seed           *int64
	RequestID      string
}

// Synthesizer is the contract implemented by all image backends. It is a
// pure request/response call: no implicit retry, no side effects. Retry
// policy belongs to the caller.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// wrapErr tags backend failures with the synthesis sentinel while letting
// transport-level errors keep their network classification.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if domain.Classify(err) == domain.ErrorTypeNetwork {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrSynthesis, err)
}

// checkOutput rejects empty results so blocked or degenerate generations
// surface as synthesis failures instead of zero-byte uploads.
func checkOutput(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: backend returned empty image", domain.ErrSynthesis)
	}
	return data, nil
}
