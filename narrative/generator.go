// narrative/generator.go
package narrative

import (
	"context"
	"strings"

	"github.com/Robino0aashu/SagaForge/game"
)

// ChoiceCount is how many options every voting round presents.
const ChoiceCount = 3

// Generator produces story continuations and choice lists. Implementations
// may fail; callers recover with the Fallback* helpers and keep the round
// moving, so a generator error never reaches a client.
type Generator interface {
	// StoryPart continues the story after the players chose an action.
	StoryPart(ctx context.Context, story []game.StoryEntry, chosenAction string) (string, error)
	// Choices proposes the next round's options.
	Choices(ctx context.Context, story []game.StoryEntry) ([]string, error)
	// Conclusion wraps the story up for the terminal round.
	Conclusion(ctx context.Context, story []game.StoryEntry) (string, error)
	// Consolidate rewrites the accumulated entries into one cohesive text.
	Consolidate(ctx context.Context, story []game.StoryEntry) (string, error)
}

// recentContent joins the content of the last n story entries, the context
// window handed to the model.
func recentContent(story []game.StoryEntry, n int) string {
	if len(story) > n {
		story = story[len(story)-n:]
	}
	parts := make([]string, 0, len(story))
	for _, entry := range story {
		parts = append(parts, entry.Content)
	}
	return strings.Join(parts, " ")
}

func fullContent(story []game.StoryEntry) string {
	return recentContent(story, len(story))
}
