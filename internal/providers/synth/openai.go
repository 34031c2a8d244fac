package synth

import (
	"context"
	"strings"
)

// openAIClient is the slice of the OpenAI client the synthesizer needs.
type openAIClient interface {
	GenerateImage(ctx context.Context, prompt string, reference []byte) ([]byte, error)
}

// OpenAISynthesizer renders panels through the responses API with the
// image-generation tool. The API has no seed parameter; the seed hint is a
// no-op here.
type OpenAISynthesizer struct {
	client openAIClient
}

func NewOpenAISynthesizer(client openAIClient) *OpenAISynthesizer {
	return &OpenAISynthesizer{client: client}
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	prompt := req.Prompt
	if neg := strings.TrimSpace(req.NegativePrompt); neg != "" {
		prompt = prompt + " NEGATIVE PROMPT: " + neg
	}
	data, err := s.client.GenerateImage(ctx, prompt, req.Reference)
	if err != nil {
		return nil, wrapErr(err)
	}
	return checkOutput(data)
}

var _ Synthesizer = (*OpenAISynthesizer)(nil)
