package synth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dreamtoons/internal/domain"
	"dreamtoons/internal/providers/genai"
	"dreamtoons/internal/providers/qwen"
)

type stubOpenAI struct {
	data       []byte
	err        error
	lastPrompt string
}

func (s *stubOpenAI) GenerateImage(ctx context.Context, prompt string, reference []byte) ([]byte, error) {
	s.lastPrompt = prompt
	return s.data, s.err
}

type stubGemini struct {
	data    []byte
	err     error
	lastReq genai.ImageRequest
}

func (s *stubGemini) GenerateImage(ctx context.Context, req genai.ImageRequest) ([]byte, error) {
	s.lastReq = req
	return s.data, s.err
}

type stubQwen struct {
	data    []byte
	err     error
	lastReq qwen.ImageRequest
}

func (s *stubQwen) GenerateImage(ctx context.Context, req qwen.ImageRequest) ([]byte, error) {
	s.lastReq = req
	return s.data, s.err
}

func TestOpenAIAppendsNegativePrompt(t *testing.T) {
	client := &stubOpenAI{data: []byte{1, 2, 3}}
	s := NewOpenAISynthesizer(client)

	out, err := s.Synthesize(context.Background(), Request{Prompt: "a dog", NegativePrompt: "no text"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("out = %d bytes", len(out))
	}
	if !strings.Contains(client.lastPrompt, "NEGATIVE PROMPT: no text") {
		t.Fatalf("prompt = %q", client.lastPrompt)
	}
}

func TestGeminiPassesSeedAndReference(t *testing.T) {
	client := &stubGemini{data: []byte{1}}
	s := NewGeminiSynthesizer(client)

	seed := int64(42)
	_, err := s.Synthesize(context.Background(), Request{
		Prompt:    "a dog",
		Reference: []byte("ref"),
		Seed:      &seed,
		RequestID: "req-1",
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if client.lastReq.Seed == nil || *client.lastReq.Seed != 42 {
		t.Fatalf("seed = %v", client.lastReq.Seed)
	}
	if string(client.lastReq.Reference) != "ref" {
		t.Fatal("reference not forwarded")
	}
}

func TestQwenForwardsNegativePromptNatively(t *testing.T) {
	client := &stubQwen{data: []byte{1}}
	s := NewQwenSynthesizer(client)

	seed := int64(7)
	_, err := s.Synthesize(context.Background(), Request{
		Prompt:         "a dog",
		NegativePrompt: "no text",
		Seed:           &seed,
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if client.lastReq.NegativePrompt != "no text" {
		t.Fatalf("negative prompt = %q", client.lastReq.NegativePrompt)
	}
	if strings.Contains(client.lastReq.Prompt, "NEGATIVE") {
		t.Fatalf("prompt polluted: %q", client.lastReq.Prompt)
	}
	if client.lastReq.Seed == nil || *client.lastReq.Seed != 7 {
		t.Fatalf("seed = %v", client.lastReq.Seed)
	}
}

func TestEmptyOutputIsSynthesisFailure(t *testing.T) {
	s := NewOpenAISynthesizer(&stubOpenAI{data: nil})

	_, err := s.Synthesize(context.Background(), Request{Prompt: "a dog"})
	if !errors.Is(err, domain.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
	if got := domain.Classify(err); got != domain.ErrorTypeImageGeneration {
		t.Fatalf("classification = %q", got)
	}
}

func TestBackendErrorClassifiesAsImageGeneration(t *testing.T) {
	s := NewGeminiSynthesizer(&stubGemini{err: errors.New("genai: response contained no image data")})

	_, err := s.Synthesize(context.Background(), Request{Prompt: "a dog"})
	if got := domain.Classify(err); got != domain.ErrorTypeImageGeneration {
		t.Fatalf("classification = %q", got)
	}
}

func TestTimeoutKeepsNetworkClassification(t *testing.T) {
	s := NewQwenSynthesizer(&stubQwen{err: context.DeadlineExceeded})

	_, err := s.Synthesize(context.Background(), Request{Prompt: "a dog"})
	if errors.Is(err, domain.ErrSynthesis) {
		t.Fatalf("timeout must not be re-tagged: %v", err)
	}
	if got := domain.Classify(err); got != domain.ErrorTypeNetwork {
		t.Fatalf("classification = %q", got)
	}
}
