package script

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dreamtoons/internal/domain"
)

type stubChatClient struct {
	response   string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (s *stubChatClient) ChatJSON(ctx context.Context, system, user string) ([]byte, error) {
	s.calls++
	s.lastSystem = system
	s.lastUser = user
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.response), nil
}

const validStoryboard = `{
	"status": "success",
	"title": "park morning",
	"character_sheet": "A laid-back guy with brown eyes and dark spiky hair.",
	"panels": [
		{"reference_guidance": "In the distinct style of the provided main character reference image", "composition": "wide shot", "action_and_emotion": "walking calmly", "setting_and_lighting": "sunny park", "negative_prompt": "no crowd"},
		{"reference_guidance": "In the distinct style of the provided main character reference image", "composition": "medium shot", "action_and_emotion": "dog runs up", "setting_and_lighting": "park path", "negative_prompt": ""},
		{"reference_guidance": "In the distinct style of the provided main character reference image", "composition": "close up", "action_and_emotion": "everyone laughs", "setting_and_lighting": "warm light", "negative_prompt": ""}
	]
}`

func TestGenerateParsesStoryboard(t *testing.T) {
	client := &stubChatClient{response: validStoryboard}
	gen := NewOpenAIGenerator(client)

	s, err := gen.Generate(context.Background(), "A calm morning in a park, a dog runs up, everyone laughs and the day goes on", 3, "simple line art")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if s.Title != "Park Morning" {
		t.Fatalf("title = %q", s.Title)
	}
	if len(s.Panels) != 3 {
		t.Fatalf("panels = %d", len(s.Panels))
	}
	if s.Panels[1].ActionAndEmotion != "dog runs up" {
		t.Fatalf("panel order broken: %#v", s.Panels[1])
	}
	if client.calls != 1 {
		t.Fatalf("chat calls = %d, want 1", client.calls)
	}
	if !strings.Contains(client.lastSystem, "maximum of 3") {
		t.Fatalf("system prompt missing panel cap: %q", client.lastSystem[:80])
	}
	if !strings.Contains(client.lastSystem, "simple line art") {
		t.Fatal("system prompt missing style")
	}
}

func TestGenerateTruncatesExtraPanels(t *testing.T) {
	client := &stubChatClient{response: validStoryboard}
	gen := NewOpenAIGenerator(client)

	s, err := gen.Generate(context.Background(), "A story that is long enough for two beats only, somehow", 2, "webtoon")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(s.Panels) != 2 {
		t.Fatalf("panels = %d, want truncated to 2", len(s.Panels))
	}
}

func TestGenerateAppliesDefaults(t *testing.T) {
	client := &stubChatClient{response: `{"status":"success","panels":[{"composition":"wide"}]}`}
	gen := NewOpenAIGenerator(client)

	s, err := gen.Generate(context.Background(), "A story without title or character sheet in the reply", 4, "noir")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if s.Title != domain.DefaultTitle {
		t.Fatalf("title = %q", s.Title)
	}
	if s.CharacterSheet != domain.DefaultCharacterSheet {
		t.Fatalf("character sheet = %q", s.CharacterSheet)
	}
}

func TestGenerateMapsBackendRejection(t *testing.T) {
	client := &stubChatClient{response: `{"status":"error","message":"story too short"}`}
	gen := NewOpenAIGenerator(client)

	_, err := gen.Generate(context.Background(), "tiny", 6, "webtoon")
	if !errors.Is(err, domain.ErrScript) {
		t.Fatalf("expected ErrScript, got %v", err)
	}
	if !strings.Contains(err.Error(), "story too short") {
		t.Fatalf("error lost backend message: %v", err)
	}
}

func TestGenerateRejectsMalformedJSON(t *testing.T) {
	client := &stubChatClient{response: `not json at all`}
	gen := NewOpenAIGenerator(client)

	if _, err := gen.Generate(context.Background(), "a perfectly fine story about a quiet afternoon walk", 6, "webtoon"); !errors.Is(err, domain.ErrScript) {
		t.Fatalf("expected ErrScript, got %v", err)
	}
}

func TestGenerateRejectsEmptyPanels(t *testing.T) {
	client := &stubChatClient{response: `{"status":"success","title":"X","character_sheet":"Y","panels":[]}`}
	gen := NewOpenAIGenerator(client)

	if _, err := gen.Generate(context.Background(), "a perfectly fine story about a quiet afternoon walk", 6, "webtoon"); !errors.Is(err, domain.ErrScript) {
		t.Fatalf("expected ErrScript, got %v", err)
	}
}

func TestGenerateValidatesInput(t *testing.T) {
	client := &stubChatClient{response: validStoryboard}
	gen := NewOpenAIGenerator(client)

	if _, err := gen.Generate(context.Background(), "   ", 6, "webtoon"); !errors.Is(err, domain.ErrScript) {
		t.Fatalf("expected ErrScript for empty story, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("backend must not be called for empty story")
	}
	if _, err := gen.Generate(context.Background(), "story", 0, "webtoon"); !errors.Is(err, domain.ErrScript) {
		t.Fatalf("expected ErrScript for zero panels, got %v", err)
	}
}

func TestGenerateWrapsTransportErrors(t *testing.T) {
	client := &stubChatClient{err: errors.New("boom")}
	gen := NewOpenAIGenerator(client)

	_, err := gen.Generate(context.Background(), "a perfectly fine story about a quiet afternoon walk", 6, "webtoon")
	if !errors.Is(err, domain.ErrScript) {
		t.Fatalf("expected ErrScript, got %v", err)
	}
	if domain.Classify(err) != domain.ErrorTypeLLM {
		t.Fatalf("classification = %q, want llm_error", domain.Classify(err))
	}
}
