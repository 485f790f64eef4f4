package prompt

import (
	"fmt"
	"os"
	"strings"

	"github.com/forgelab/ipd/game"
)

// DefaultSystemPrompt is used when no external system prompt file is
// supplied. It frames the game without naming the prisoner's dilemma so the
// agents reason from the payoffs alone.
const DefaultSystemPrompt = `You are playing a repeated two-player decision game over several periods.

Each round, you and another player simultaneously choose one of two actions: COOPERATE or DEFECT. Your payoff each round depends on the combination of both choices. Your goal is to maximize your own total score across all rounds.

The game is played in periods. At the end of each period you will be asked to reflect on how the period went before the next one begins.

When asked for a decision, think briefly about the history you are shown, then finish your reply with a single line of the form:
DECISION: COOPERATE
or
DECISION: DEFECT`

// LoadSystemPrompt reads a system prompt from path. Callers fall back to
// DefaultSystemPrompt when the file does not exist.
func LoadSystemPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load system prompt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// LoadReflectionTemplate reads a reflection prompt template from path.
// Callers fall back to the built-in mode templates when the file is absent.
func LoadReflectionTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load reflection template: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// historyLines renders one line per shown round, oldest first. firstRound is
// the one-based number of the first entry shown.
func historyLines(history []game.HistoryEntry, firstRound int) string {
	var b strings.Builder
	for i, h := range history {
		fmt.Fprintf(&b, "Round %d: you chose %s, opponent chose %s -> you %+d, opponent %+d\n",
			firstRound+i, h.MyAction, h.OppAction, h.MyPayoff, h.OppPayoff)
	}
	return b.String()
}

// FormatRoundPrompt renders the decision prompt for one round. Only the most
// recent window entries of history are shown; the prompt never references
// future rounds or the opponent's unresolved current-round action.
func FormatRoundPrompt(round, episode int, history []game.HistoryEntry, myScore, oppScore, window int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "PERIOD %d, ROUND %d\n\n", episode+1, round+1)

	if len(history) == 0 {
		b.WriteString("This is the first round of the period. There is no history yet.\n")
	} else {
		shown := history
		first := 1
		if window > 0 && len(shown) > window {
			first = len(shown) - window + 1
			shown = shown[len(shown)-window:]
		}
		fmt.Fprintf(&b, "History of the last %d round(s) this period:\n", len(shown))
		b.WriteString(historyLines(shown, first))
	}

	fmt.Fprintf(&b, "\nCurrent period score: you %d, opponent %d.\n\n", myScore, oppScore)
	b.WriteString("Choose your action for this round. Briefly explain your reasoning, then end your reply with a single line of the form:\nDECISION: COOPERATE\nor\nDECISION: DEFECT")

	return b.String()
}

// FormatClarification strengthens a decision prompt after an ambiguous or
// failed response, demanding a single unambiguous token.
func FormatClarification(base string) string {
	return base + "\n\nIMPORTANT: your previous reply did not contain a single clear decision. Answer with exactly one word and nothing else: COOPERATE or DEFECT."
}
