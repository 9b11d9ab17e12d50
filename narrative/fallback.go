// narrative/fallback.go
package narrative

import (
	"fmt"
	"strings"

	"github.com/Robino0aashu/SagaForge/game"
)

// Deterministic substitutes used whenever the generator fails or is not
// configured. The round proceeds with these exactly as on success.

// StarterChoices is the fixed pre-first-round choice set presented when the
// game starts, before any narrative has been generated.
func StarterChoices() []string {
	return []string{
		"Explore the area carefully",
		"Take immediate action",
		"Look for more information",
	}
}

// FallbackStoryPart continues the story without a model.
func FallbackStoryPart(chosenAction string) string {
	return fmt.Sprintf("Following your choice to %s, the story takes an unexpected turn...",
		strings.ToLower(chosenAction))
}

// FallbackChoices is the generic next-round choice set.
func FallbackChoices() []string {
	return []string{
		"Investigate further",
		"Proceed with caution",
		"Take a different approach",
	}
}

// FallbackConclusion ends the story without a model.
func FallbackConclusion() string {
	return "And so the adventure came to its end, the tale complete but its echoes lingering on."
}

// FallbackConsolidate joins the story entries into one text, skipping the
// choice markers so the result reads as a single narrative.
func FallbackConsolidate(story []game.StoryEntry) string {
	parts := make([]string, 0, len(story))
	for _, entry := range story {
		if entry.Kind == game.EntryChoice {
			continue
		}
		parts = append(parts, entry.Content)
	}
	return strings.Join(parts, "\n\n")
}
