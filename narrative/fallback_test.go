package narrative

import (
	"strings"
	"testing"

	"github.com/Robino0aashu/SagaForge/game"
)

func TestFallbackConsolidate_SkipsChoiceMarkers(t *testing.T) {
	story := []game.StoryEntry{
		{Kind: game.EntryPrompt, Content: "A haunted lighthouse", Round: 0},
		{Kind: game.EntryNarrative, Content: "The beam went dark.", Round: 0},
		{Kind: game.EntryChoice, Content: "Climb the tower", Round: 0},
		{Kind: game.EntryNarrative, Content: "The stairs creaked.", Round: 1},
		{Kind: game.EntryConclusion, Content: "Dawn broke at last.", Round: 3},
	}

	out := FallbackConsolidate(story)
	if strings.Contains(out, "Climb the tower") {
		t.Error("Choice markers should not appear in the consolidated story")
	}
	for _, want := range []string{"A haunted lighthouse", "The beam went dark.", "Dawn broke at last."} {
		if !strings.Contains(out, want) {
			t.Errorf("Consolidated story missing %q", want)
		}
	}
}
