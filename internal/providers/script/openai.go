package script

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dreamtoons/internal/domain"
)

// chatClient is the slice of the OpenAI client the generator needs.
type chatClient interface {
	ChatJSON(ctx context.Context, system, user string) ([]byte, error)
}

// OpenAIGenerator produces panel scripts via a JSON-constrained chat
// completion.
type OpenAIGenerator struct {
	client chatClient
	titler cases.Caser
}

func NewOpenAIGenerator(client chatClient) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: client,
		titler: cases.Title(language.Und, cases.NoLower),
	}
}

// storyboardPayload mirrors the JSON contract in buildSystemPrompt.
type storyboardPayload struct {
	Status         string                    `json:"status"`
	Message        string                    `json:"message"`
	Title          string                    `json:"title"`
	CharacterSheet string                    `json:"character_sheet"`
	Panels         []domain.PanelDescription `json:"panels"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, story string, maxPanels int, style string) (*domain.PanelScript, error) {
	if strings.TrimSpace(story) == "" {
		return nil, fmt.Errorf("%w: story is empty", domain.ErrScript)
	}
	if maxPanels < 1 {
		return nil, fmt.Errorf("%w: max panels must be at least 1", domain.ErrScript)
	}

	raw, err := g.client.ChatJSON(ctx, buildSystemPrompt(maxPanels, style), story)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrScript, err)
	}

	var payload storyboardPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed storyboard response: %w", domain.ErrScript, err)
	}
	if payload.Status == "error" {
		msg := payload.Message
		if msg == "" {
			msg = "storyboard backend rejected the story"
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrScript, msg)
	}
	if len(payload.Panels) == 0 {
		return nil, fmt.Errorf("%w: storyboard contained no panels", domain.ErrScript)
	}

	result := &domain.PanelScript{
		Title:          g.titler.String(strings.TrimSpace(payload.Title)),
		CharacterSheet: strings.TrimSpace(payload.CharacterSheet),
		Panels:         payload.Panels,
	}
	result.Normalize(maxPanels)
	return result, nil
}

var _ Generator = (*OpenAIGenerator)(nil)
