package prompt

import (
	"strings"

	"github.com/forgelab/ipd/game"
)

// ExtractDecision maps raw response text to an action. The second return is
// false when no confident mapping exists (the "ambiguous" outcome of the
// retry ladder).
//
// An explicit "DECISION:" marker wins; the last marker in the text is taken
// as the final answer. Without a marker, the text must mention exactly one
// of the two action tokens to count as a decision.
func ExtractDecision(raw string) (game.Action, bool) {
	text := strings.ToUpper(raw)

	if idx := strings.LastIndex(text, "DECISION:"); idx >= 0 {
		rest := text[idx+len("DECISION:"):]
		ci := strings.Index(rest, "COOPERATE")
		di := strings.Index(rest, "DEFECT")
		switch {
		case ci >= 0 && (di < 0 || ci < di):
			return game.Cooperate, true
		case di >= 0:
			return game.Defect, true
		}
	}

	hasCoop := strings.Contains(text, "COOPERATE")
	hasDefect := strings.Contains(text, "DEFECT")
	if hasCoop != hasDefect {
		if hasCoop {
			return game.Cooperate, true
		}
		return game.Defect, true
	}

	return game.Defect, false
}
