package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dreamtoons/internal/domain"
	"dreamtoons/internal/providers/openai"
)

type stubModerator struct {
	scores map[string]float64
	err    error
}

func (s *stubModerator) Moderate(ctx context.Context, text string) (*openai.ModerationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &openai.ModerationResult{CategoryScores: s.scores}, nil
}

func TestCheckPassesCleanText(t *testing.T) {
	gate := NewGate(&stubModerator{scores: map[string]float64{
		"violence": 0.39,
		"sexual":   0.19,
		"hate":     0.09,
	}})
	if err := gate.Check(context.Background(), "a calm walk in the park"); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckRejectsAtThreshold(t *testing.T) {
	gate := NewGate(&stubModerator{scores: map[string]float64{"violence": 0.4}})

	err := gate.Check(context.Background(), "something violent")
	if !errors.Is(err, domain.ErrContentBlocked) {
		t.Fatalf("expected ErrContentBlocked, got %v", err)
	}
	if !strings.Contains(err.Error(), "violence") {
		t.Fatalf("reason missing category: %v", err)
	}
	if domain.Classify(err) != domain.ErrorTypeContent {
		t.Fatalf("classification = %q", domain.Classify(err))
	}
}

func TestCheckUsesStrictestCategoryCutoffs(t *testing.T) {
	cases := []struct {
		category string
		score    float64
		blocked  bool
	}{
		{"sexual/minors", 0.02, true},
		{"sexual/minors", 0.005, false},
		{"hate/threatening", 0.05, true},
		{"self-harm", 0.06, true},
		{"harassment", 0.29, false},
		{"violence/graphic", 0.15, true},
	}
	for _, tc := range cases {
		gate := NewGate(&stubModerator{scores: map[string]float64{tc.category: tc.score}})
		err := gate.Check(context.Background(), "story")
		if tc.blocked && err == nil {
			t.Fatalf("%s=%.3f should be blocked", tc.category, tc.score)
		}
		if !tc.blocked && err != nil {
			t.Fatalf("%s=%.3f should pass: %v", tc.category, tc.score, err)
		}
	}
}

func TestCheckIgnoresUnlistedCategories(t *testing.T) {
	gate := NewGate(&stubModerator{scores: map[string]float64{"illicit": 0.99}})
	if err := gate.Check(context.Background(), "story"); err != nil {
		t.Fatalf("unlisted category must not block: %v", err)
	}
}

func TestCheckFailsClosedOnAPIError(t *testing.T) {
	gate := NewGate(&stubModerator{err: errors.New("boom")})

	err := gate.Check(context.Background(), "story")
	if !errors.Is(err, domain.ErrContentBlocked) {
		t.Fatalf("expected fail-closed rejection, got %v", err)
	}
}
