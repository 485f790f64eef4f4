package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/forgelab/ipd/game"
)

// ReflectionInput is the data made available to reflection templates.
type ReflectionInput struct {
	// Period is the one-based episode number just completed.
	Period int
	// Rounds is the number of rounds played in the episode.
	Rounds int
	// MyScore and OppScore are the final episode scores.
	MyScore  int
	OppScore int
	// Cooperations is how many times this agent cooperated.
	Cooperations int
	// History is the rendered per-round history block.
	History string
	// Stats is the rendered statistics block, empty when statistics are
	// disabled.
	Stats string
}

const minimalReflectionTemplate = `PERIOD {{.Period}} is over. You scored {{.MyScore}} points; your opponent scored {{.OppScore}}.

In one or two sentences, what is your main takeaway for the next period?`

const standardReflectionTemplate = `PERIOD {{.Period}} is over after {{.Rounds}} rounds.

Your score: {{.MyScore}}. Opponent's score: {{.OppScore}}.
{{.Stats}}
Full history of the period:
{{.History}}
Reflect briefly on how this period went: what worked, what did not, and how you intend to play the next period.`

const detailedReflectionTemplate = `PERIOD {{.Period}} is over after {{.Rounds}} rounds.

Your score: {{.MyScore}}. Opponent's score: {{.OppScore}}.
{{.Stats}}
Full history of the period:
{{.History}}
Write a structured reflection covering:
1. Your opponent's apparent strategy and how it evolved.
2. Which of your choices gained or cost you the most points.
3. The concrete strategy you will follow in the next period, including how you will respond to cooperation and to defection.`

// builtinTemplate returns the built-in template text for a reflection mode.
func builtinTemplate(mode game.ReflectionMode) string {
	switch mode {
	case game.ReflectionMinimal:
		return minimalReflectionTemplate
	case game.ReflectionDetailed:
		return detailedReflectionTemplate
	default:
		return standardReflectionTemplate
	}
}

// templateFuncs mirrors the helper set available to external templates.
var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
}

// renderTemplate executes a reflection template against its input. Template
// errors degrade to the standard built-in template rather than failing the
// episode; reflections are never fatal.
func renderTemplate(text string, in ReflectionInput) string {
	tmpl, err := template.New("reflection").Funcs(templateFuncs).Parse(text)
	if err != nil {
		tmpl = template.Must(template.New("reflection").Funcs(templateFuncs).Parse(standardReflectionTemplate))
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, in); err != nil {
		return fmt.Sprintf("PERIOD %d is over. Your score: %d. Opponent's score: %d.\nReflect briefly on how this period went.", in.Period, in.MyScore, in.OppScore)
	}
	return buf.String()
}

// FormatReflectionPrompt renders the post-episode reflection prompt.
// customTemplate, when non-empty, overrides the built-in template for the
// configured mode.
func FormatReflectionPrompt(
	episode int,
	history []game.HistoryEntry,
	myScore, oppScore, roundsPerEpisode int,
	mode game.ReflectionMode,
	includeStats bool,
	customTemplate string,
) string {
	coop := 0
	for _, h := range history {
		if h.MyAction == game.Cooperate {
			coop++
		}
	}

	in := ReflectionInput{
		Period:       episode + 1,
		Rounds:       roundsPerEpisode,
		MyScore:      myScore,
		OppScore:     oppScore,
		Cooperations: coop,
		History:      historyLines(history, 1),
	}
	if includeStats && roundsPerEpisode > 0 {
		in.Stats = fmt.Sprintf("You cooperated %d/%d times (%.0f%%).\n",
			coop, roundsPerEpisode, 100*float64(coop)/float64(roundsPerEpisode))
	}

	text := customTemplate
	if text == "" {
		text = builtinTemplate(mode)
	}
	return renderTemplate(text, in)
}
