package narrative

import (
	"testing"
)

func TestParseChoices_NumberedList(t *testing.T) {
	raw := "1. Open the door\n2. Climb the stairs\n3. Call for help"

	choices, err := ParseChoices(raw)
	if err != nil {
		t.Fatalf("ParseChoices failed: %v", err)
	}
	if len(choices) != ChoiceCount {
		t.Fatalf("Expected %d choices, got %d", ChoiceCount, len(choices))
	}
	if choices[0] != "Open the door" || choices[2] != "Call for help" {
		t.Errorf("Unexpected choices: %v", choices)
	}
}

func TestParseChoices_BracketsAndParens(t *testing.T) {
	raw := "1) [Open the door]\n2) [Climb the stairs]\n3) [Call for help]\n"

	choices, err := ParseChoices(raw)
	if err != nil {
		t.Fatalf("ParseChoices failed: %v", err)
	}
	if choices[1] != "Climb the stairs" {
		t.Errorf("Expected numbering and brackets stripped, got %q", choices[1])
	}
}

func TestParseChoices_ExtraLinesTruncated(t *testing.T) {
	raw := "Here are the options:\n1. A\n2. B\n3. C"

	choices, err := ParseChoices(raw)
	if err != nil {
		t.Fatalf("ParseChoices failed: %v", err)
	}
	if len(choices) != ChoiceCount {
		t.Errorf("Expected exactly %d choices, got %d", ChoiceCount, len(choices))
	}
}

func TestParseChoices_TooFewLines(t *testing.T) {
	if _, err := ParseChoices("1. Only option"); err == nil {
		t.Error("Expected an error for a short list so callers fall back")
	}
}

func TestFallbackStoryPart_LowercasesAction(t *testing.T) {
	part := FallbackStoryPart("Open The Door")
	want := "Following your choice to open the door, the story takes an unexpected turn..."
	if part != want {
		t.Errorf("Unexpected fallback: %q", part)
	}
}

func TestFallbackChoices_Deterministic(t *testing.T) {
	a := FallbackChoices()
	b := FallbackChoices()
	if len(a) != ChoiceCount {
		t.Fatalf("Expected %d fallback choices, got %d", ChoiceCount, len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Error("Fallback choices must be deterministic")
		}
	}
}
