// narrative/parse.go
package narrative

import (
	"fmt"
	"regexp"
	"strings"
)

var numberingPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

// ParseChoices extracts a choice list from a model response formatted as a
// numbered list. Returns an error when fewer than ChoiceCount usable lines
// come back, so the caller can fall back deterministically.
func ParseChoices(raw string) ([]string, error) {
	var numbered, all []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		wasNumbered := numberingPrefix.MatchString(line)
		line = numberingPrefix.ReplaceAllString(line, "")
		line = strings.Trim(line, "[]")
		if line == "" {
			continue
		}
		if wasNumbered {
			numbered = append(numbered, line)
		}
		all = append(all, line)
	}

	// Numbered lines win so preamble text never becomes a choice.
	choices := numbered
	if len(choices) < ChoiceCount {
		choices = all
	}
	if len(choices) < ChoiceCount {
		return nil, fmt.Errorf("expected %d choices, parsed %d", ChoiceCount, len(choices))
	}
	return choices[:ChoiceCount], nil
}
