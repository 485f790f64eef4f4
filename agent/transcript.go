package agent

import "github.com/forgelab/ipd/model"

// Transcript is the explicit conversational context buffer owned by one
// session. It separates the standing layer (system prompt plus injected
// material such as prior reflections) from the tactical turn-by-turn layer,
// so episode-boundary context management stays auditable: Reset clears the
// tactical turns and the injected material, optionally keeping the system
// prompt.
//
// A transcript is owned exclusively by its session; the engines never touch
// it and the opposing session can never see it.
type Transcript struct {
	systemPrompt string
	standing     []model.Message
	turns        []model.Message
}

// NewTranscript creates a transcript with the given system prompt.
func NewTranscript(systemPrompt string) *Transcript {
	return &Transcript{systemPrompt: systemPrompt}
}

// SystemPrompt returns the current system prompt ("" after a full reset).
func (t *Transcript) SystemPrompt() string { return t.systemPrompt }

// AppendStanding adds standing material visible to all subsequent prompts.
func (t *Transcript) AppendStanding(text string) {
	t.standing = append(t.standing, model.Message{Role: "system", Text: text})
}

// AppendTurn records one user/assistant exchange.
func (t *Transcript) AppendTurn(userText, assistantText string) {
	t.turns = append(t.turns,
		model.Message{Role: "user", Text: userText},
		model.Message{Role: "assistant", Text: assistantText},
	)
}

// Messages returns a copy of the standing and tactical layers in order,
// without the system prompt (which travels separately in model.Request).
func (t *Transcript) Messages() []model.Message {
	out := make([]model.Message, 0, len(t.standing)+len(t.turns))
	out = append(out, t.standing...)
	out = append(out, t.turns...)
	return out
}

// Len returns the number of tactical messages (two per recorded exchange).
func (t *Transcript) Len() int { return len(t.turns) }

// Exchanges returns the number of recorded user/assistant exchanges.
func (t *Transcript) Exchanges() int { return len(t.turns) / 2 }

// Reset clears the tactical turns and any injected standing material. With
// keepSystemPrompt false the system prompt is dropped as well.
func (t *Transcript) Reset(keepSystemPrompt bool) {
	t.turns = nil
	t.standing = nil
	if !keepSystemPrompt {
		t.systemPrompt = ""
	}
}
