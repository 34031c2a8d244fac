package synth

import (
	"context"

	"dreamtoons/internal/providers/qwen"
)

type qwenClient interface {
	GenerateImage(ctx context.Context, req qwen.ImageRequest) ([]byte, error)
}

// QwenSynthesizer renders panels through DashScope. Qwen supports both a
// native negative_prompt parameter and a numeric seed, so requests are
// passed through unmodified.
type QwenSynthesizer struct {
	client qwenClient
}

func NewQwenSynthesizer(client qwenClient) *QwenSynthesizer {
	return &QwenSynthesizer{client: client}
}

func (s *QwenSynthesizer) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	data, err := s.client.GenerateImage(ctx, qwen.ImageRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Reference:      req.Reference,
		Seed:           req.Seed,
		RequestID:      req.RequestID,
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return checkOutput(data)
}

var _ Synthesizer = (*QwenSynthesizer)(nil)
