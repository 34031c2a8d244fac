package domain

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
)

func TestClassifyOrderedTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"script sentinel", fmt.Errorf("storyboard: %w", ErrScript), ErrorTypeLLM},
		{"synthesis sentinel", fmt.Errorf("panel 2: %w", ErrSynthesis), ErrorTypeImageGeneration},
		{"storage sentinel", fmt.Errorf("upload: %w", ErrStorage), ErrorTypeStorage},
		{"database sentinel", fmt.Errorf("update status: %w", ErrDatabase), ErrorTypeDatabase},
		{"deadline", context.DeadlineExceeded, ErrorTypeNetwork},
		{"url error", &url.Error{Op: "Post", URL: "https://api.example.com", Err: errors.New("connection refused")}, ErrorTypeNetwork},
		{"content sentinel", fmt.Errorf("moderation: %w", ErrContentBlocked), ErrorTypeContent},
		{"face sentinel", ErrNoFace, ErrorTypeFaceDetection},
		{"fallback", errors.New("something odd"), ErrorTypeUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// A synthesis failure that also wraps a transport error must still
	// classify as image generation: the taxonomy order is fixed.
	err := fmt.Errorf("%w: %w", ErrSynthesis, &url.Error{Op: "Post", URL: "x", Err: errors.New("timeout")})
	if got := Classify(err); got != ErrorTypeImageGeneration {
		t.Fatalf("Classify() = %q, want %q", got, ErrorTypeImageGeneration)
	}
}

func TestFailureFromPreservesExistingFailure(t *testing.T) {
	orig := NewFailure(ErrorTypeStorage, "upload failed for panel %d", 3)
	got := FailureFrom(fmt.Errorf("panel task: %w", orig))
	if got.Type != ErrorTypeStorage {
		t.Fatalf("type = %q, want %q", got.Type, ErrorTypeStorage)
	}
	if got.Message != "upload failed for panel 3" {
		t.Fatalf("message = %q", got.Message)
	}
}

func TestFailureFromNil(t *testing.T) {
	if got := FailureFrom(nil); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}

func TestReducePanelsPartitionsInOrder(t *testing.T) {
	results := []PanelResult{
		{Index: 0, Path: "u/j/0.png"},
		{Index: 1, Err: NewFailure(ErrorTypeImageGeneration, "empty output")},
		{Index: 2, Path: "u/j/2.png"},
	}
	paths, first := ReducePanels(results)
	if len(paths) != 2 || paths[0] != "u/j/0.png" || paths[1] != "u/j/2.png" {
		t.Fatalf("unexpected paths: %#v", paths)
	}
	if first == nil || first.Type != ErrorTypeImageGeneration {
		t.Fatalf("unexpected first failure: %#v", first)
	}
}

func TestReducePanelsFirstFailureIsLowestIndex(t *testing.T) {
	results := []PanelResult{
		{Index: 0, Err: NewFailure(ErrorTypeStorage, "upload 0")},
		{Index: 1, Err: NewFailure(ErrorTypeImageGeneration, "synth 1")},
	}
	paths, first := ReducePanels(results)
	if len(paths) != 0 {
		t.Fatalf("expected no paths, got %#v", paths)
	}
	if first.Type != ErrorTypeStorage {
		t.Fatalf("first failure = %q, want storage_error from panel 0", first.Type)
	}
}

func TestScriptNormalize(t *testing.T) {
	s := PanelScript{Panels: make([]PanelDescription, 8)}
	s.Normalize(6)
	if s.Title != DefaultTitle {
		t.Fatalf("title = %q", s.Title)
	}
	if s.CharacterSheet != DefaultCharacterSheet {
		t.Fatalf("character sheet = %q", s.CharacterSheet)
	}
	if len(s.Panels) != 6 {
		t.Fatalf("panels = %d, want truncated to 6", len(s.Panels))
	}
}
