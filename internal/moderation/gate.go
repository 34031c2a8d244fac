package moderation

import (
	"context"
	"fmt"
	"sort"

	"dreamtoons/internal/domain"
	"dreamtoons/internal/providers/openai"
)

// thresholds are per-category score cutoffs. A story is rejected when any
// category score meets or exceeds its cutoff. Categories absent from this
// map are never checked.
var thresholds = map[string]float64{
	"hate":                   0.1,
	"hate/threatening":       0.05,
	"harassment":             0.3,
	"harassment/threatening": 0.1,
	"self-harm":              0.05,
	"self-harm/intent":       0.05,
	"self-harm/instructions": 0.05,
	"sexual":                 0.2,
	"sexual/minors":          0.01,
	"violence":               0.4,
	"violence/graphic":       0.15,
}

type moderationClient interface {
	Moderate(ctx context.Context, text string) (*openai.ModerationResult, error)
}

// Gate screens submitted stories before a job is created. It fails closed:
// a moderation API failure rejects the submission rather than letting
// unscreened text through.
type Gate struct {
	client moderationClient
}

func NewGate(client moderationClient) *Gate {
	return &Gate{client: client}
}

// Check returns nil when the text passes every threshold. Rejections and
// API failures both come back wrapped in the content sentinel so callers
// need only one branch.
func (g *Gate) Check(ctx context.Context, text string) error {
	result, err := g.client.Moderate(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: moderation unavailable: %w", domain.ErrContentBlocked, err)
	}

	// Deterministic category order keeps the reported reason stable when
	// several categories trip at once.
	categories := make([]string, 0, len(thresholds))
	for category := range thresholds {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		score := result.CategoryScores[category]
		if score >= thresholds[category] {
			return fmt.Errorf("%w: category %s scored %.3f", domain.ErrContentBlocked, category, score)
		}
	}
	return nil
}
