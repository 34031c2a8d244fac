package domain

import "strings"

const (
	// DefaultTitle is used when the script backend omits a title.
	DefaultTitle = "Untitled Dream"
	// DefaultCharacterSheet anchors panels to the reference image when the
	// backend returns no character sheet of its own.
	DefaultCharacterSheet = "Follow reference image"
)

// PanelDescription is one narrative beat of the script. Each panel carries
// enough detail for independent, stateless image synthesis.
type PanelDescription struct {
	// ReferenceGuidance ties the panel to the provided character reference
	// image ("In the distinct style of the provided main character
	// reference image").
	ReferenceGuidance  string `json:"reference_guidance"`
	Composition        string `json:"composition"`
	ActionAndEmotion   string `json:"action_and_emotion"`
	SettingAndLighting string `json:"setting_and_lighting"`
	// NegativePrompt holds a few contextual words preventing
	// misinterpretation of the scene; merged with the universal negative
	// prompt at synthesis time.
	NegativePrompt string `json:"negative_prompt"`
}

// PanelScript is the structured scene script produced once per job by the
// script generator and immutable afterward. Panel order is the narrative
// order and also the output image ordering.
type PanelScript struct {
	Title          string             `json:"title"`
	CharacterSheet string             `json:"character_sheet"`
	Panels         []PanelDescription `json:"panels"`
}

// Normalize applies the defaults the original pipeline guarantees and caps
// the panel list at maxPanels. maxPanels is an upper bound, not a target.
func (s *PanelScript) Normalize(maxPanels int) {
	if strings.TrimSpace(s.Title) == "" {
		s.Title = DefaultTitle
	}
	if strings.TrimSpace(s.CharacterSheet) == "" {
		s.CharacterSheet = DefaultCharacterSheet
	}
	if maxPanels > 0 && len(s.Panels) > maxPanels {
		s.Panels = s.Panels[:maxPanels]
	}
}
