package synth

import (
	"context"
	"strings"

	"dreamtoons/internal/providers/genai"
)

type geminiClient interface {
	GenerateImage(ctx context.Context, req genai.ImageRequest) ([]byte, error)
}

// GeminiSynthesizer renders panels through the Gemini generateContent
// endpoint. The API has no negative prompt parameter, so the negative
// prompt is appended to the text prompt instead.
type GeminiSynthesizer struct {
	client geminiClient
}

func NewGeminiSynthesizer(client geminiClient) *GeminiSynthesizer {
	return &GeminiSynthesizer{client: client}
}

func (s *GeminiSynthesizer) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	prompt := req.Prompt
	if neg := strings.TrimSpace(req.NegativePrompt); neg != "" {
		prompt = prompt + " NEGATIVE PROMPT: " + neg
	}
	data, err := s.client.GenerateImage(ctx, genai.ImageRequest{
		Prompt:    prompt,
		Reference: req.Reference,
		Seed:      req.Seed,
		RequestID: req.RequestID,
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return checkOutput(data)
}

var _ Synthesizer = (*GeminiSynthesizer)(nil)
