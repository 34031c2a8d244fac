package worker

import (
	"fmt"
	"strings"

	"dreamtoons/internal/domain"
)

// universalNegativePrompt is appended to every panel's negative prompt. It
// suppresses the failure modes that recur regardless of story or style.
const universalNegativePrompt = "text, words, letters, speech bubbles, captions, watermark, signature, " +
	"photorealistic, photograph, deformed hands, extra fingers, extra limbs, " +
	"distorted face, blurry, low quality, duplicate character"

// buildPanelPrompt assembles the full positive prompt for one panel from the
// immutable script. Every panel restates the character sheet so each
// synthesis call is self-contained.
func buildPanelPrompt(panel domain.PanelDescription, characterSheet, style string) string {
	parts := []string{
		panel.ReferenceGuidance,
		fmt.Sprintf("Art style: %s.", style),
		fmt.Sprintf("Main character: %s", characterSheet),
		fmt.Sprintf("Composition: %s.", panel.Composition),
		fmt.Sprintf("Action and emotion: %s.", panel.ActionAndEmotion),
		fmt.Sprintf("Setting and lighting: %s.", panel.SettingAndLighting),
	}
	clean := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			clean = append(clean, strings.TrimSpace(p))
		}
	}
	return strings.Join(clean, " ")
}

// buildNegativePrompt merges the panel's contextual negatives with the
// universal ones.
func buildNegativePrompt(panel domain.PanelDescription) string {
	neg := strings.TrimSpace(panel.NegativePrompt)
	if neg == "" {
		return universalNegativePrompt
	}
	return neg + ", " + universalNegativePrompt
}
