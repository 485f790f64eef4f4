package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_LayersAndReset(t *testing.T) {
	tr := NewTranscript("sys")
	tr.AppendStanding("reflection text")
	tr.AppendTurn("q1", "a1")
	tr.AppendTurn("q2", "a2")

	msgs := tr.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "assistant", msgs[2].Role)
	assert.Equal(t, 4, tr.Len())
	assert.Equal(t, 2, tr.Exchanges())

	// Returned slice is a copy.
	msgs[0].Text = "mutated"
	assert.Equal(t, "reflection text", tr.Messages()[0].Text)

	tr.Reset(true)
	assert.Empty(t, tr.Messages())
	assert.Equal(t, "sys", tr.SystemPrompt())

	tr.Reset(false)
	assert.Empty(t, tr.SystemPrompt())
}
