package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelab/ipd/game"
)

func entry(my, opp game.Action, myPay, oppPay int) game.HistoryEntry {
	return game.HistoryEntry{MyAction: my, OppAction: opp, MyPayoff: myPay, OppPayoff: oppPay}
}

func TestFormatRoundPrompt_FirstRound(t *testing.T) {
	p := FormatRoundPrompt(0, 0, nil, 0, 0, 10)

	assert.Contains(t, p, "PERIOD 1, ROUND 1")
	assert.Contains(t, p, "no history yet")
	assert.Contains(t, p, "DECISION: COOPERATE")
	assert.Contains(t, p, "DECISION: DEFECT")
}

func TestFormatRoundPrompt_WindowNumbering(t *testing.T) {
	history := []game.HistoryEntry{
		entry(game.Cooperate, game.Cooperate, 3, 3),
		entry(game.Cooperate, game.Defect, 0, 5),
		entry(game.Defect, game.Defect, 1, 1),
		entry(game.Defect, game.Cooperate, 5, 0),
	}

	p := FormatRoundPrompt(4, 1, history, 9, 9, 2)

	// Window of 2 over 4 entries shows rounds 3 and 4 with original numbers.
	assert.Contains(t, p, "PERIOD 2, ROUND 5")
	assert.Contains(t, p, "last 2 round(s)")
	assert.NotContains(t, p, "Round 1:")
	assert.NotContains(t, p, "Round 2:")
	assert.Contains(t, p, "Round 3: you chose DEFECT, opponent chose DEFECT")
	assert.Contains(t, p, "Round 4: you chose DEFECT, opponent chose COOPERATE")
	assert.Contains(t, p, "you 9, opponent 9")
}

func TestFormatRoundPrompt_ShortHistoryUnclipped(t *testing.T) {
	history := []game.HistoryEntry{entry(game.Cooperate, game.Cooperate, 3, 3)}

	p := FormatRoundPrompt(1, 0, history, 3, 3, 10)

	assert.Contains(t, p, "Round 1: you chose COOPERATE, opponent chose COOPERATE -> you +3, opponent +3")
}

func TestFormatClarification(t *testing.T) {
	base := FormatRoundPrompt(0, 0, nil, 0, 0, 10)
	c := FormatClarification(base)

	assert.True(t, strings.HasPrefix(c, base))
	assert.Contains(t, c, "exactly one word")
}

func TestExtractDecision(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   game.Action
		wantOK bool
	}{
		{"marker cooperate", "I trust them.\nDECISION: COOPERATE", game.Cooperate, true},
		{"marker defect", "They betrayed me.\nDECISION: DEFECT", game.Defect, true},
		{"lowercase marker", "decision: cooperate", game.Cooperate, true},
		{"last marker wins", "DECISION: COOPERATE\nOn reflection...\nDECISION: DEFECT", game.Defect, true},
		{"marker with both tokens takes first after marker", "DECISION: DEFECT, not COOPERATE", game.Defect, true},
		{"bare single token", "Cooperate.", game.Cooperate, true},
		{"single token with prose", "I think defecting is best here. DEFECT", game.Defect, true},
		{"both tokens no marker", "Cooperate or defect, hard to say.", game.Defect, false},
		{"neither token", "I need more information.", game.Defect, false},
		{"empty", "", game.Defect, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDecision(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatReflectionPrompt_Modes(t *testing.T) {
	history := []game.HistoryEntry{
		entry(game.Cooperate, game.Defect, 0, 5),
		entry(game.Defect, game.Defect, 1, 1),
	}

	t.Run("minimal omits history", func(t *testing.T) {
		p := FormatReflectionPrompt(0, history, 1, 6, 2, game.ReflectionMinimal, true, "")
		assert.Contains(t, p, "PERIOD 1 is over")
		assert.Contains(t, p, "scored 1")
		assert.NotContains(t, p, "Round 1:")
	})

	t.Run("standard includes history and stats", func(t *testing.T) {
		p := FormatReflectionPrompt(0, history, 1, 6, 2, game.ReflectionStandard, true, "")
		assert.Contains(t, p, "Round 1: you chose COOPERATE")
		assert.Contains(t, p, "You cooperated 1/2 times (50%)")
	})

	t.Run("stats suppressed", func(t *testing.T) {
		p := FormatReflectionPrompt(0, history, 1, 6, 2, game.ReflectionStandard, false, "")
		assert.NotContains(t, p, "You cooperated")
	})

	t.Run("detailed asks for structure", func(t *testing.T) {
		p := FormatReflectionPrompt(1, history, 1, 6, 2, game.ReflectionDetailed, true, "")
		assert.Contains(t, p, "PERIOD 2 is over")
		assert.Contains(t, p, "opponent's apparent strategy")
	})
}

func TestFormatReflectionPrompt_CustomTemplate(t *testing.T) {
	p := FormatReflectionPrompt(2, nil, 7, 3, 0, game.ReflectionStandard, false,
		"Period {{.Period}}: {{.MyScore}} vs {{.OppScore}}.")
	assert.Equal(t, "Period 3: 7 vs 3.", p)
}

func TestFormatReflectionPrompt_BadTemplateDegrades(t *testing.T) {
	p := FormatReflectionPrompt(0, nil, 4, 9, 3, game.ReflectionStandard, false,
		"{{.Period") // unterminated action
	// Falls back to the standard built-in template.
	assert.Contains(t, p, "PERIOD 1 is over after 3 rounds")
	assert.Contains(t, p, "Your score: 4")
}

func TestLoadSystemPrompt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.txt")
	require.NoError(t, os.WriteFile(path, []byte("custom prompt\n"), 0o644))

	got, err := LoadSystemPrompt(path)
	require.NoError(t, err)
	assert.Equal(t, "custom prompt", got)

	_, err = LoadSystemPrompt(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
