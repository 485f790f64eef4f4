package game

import "context"

// DecisionRequest carries the round state an agent session needs to render
// its decision prompt. History already belongs to the requesting agent's
// perspective; the session applies the history window itself.
type DecisionRequest struct {
	// Round is the zero-based round index within the episode.
	Round int
	// Episode is the zero-based episode index.
	Episode int
	// History is this agent's full episode history so far.
	History []HistoryEntry
	// MyScore and OppScore are the cumulative episode scores.
	MyScore  int
	OppScore int
}

// ReflectionRequest carries the completed-episode state for the post-episode
// reflection prompt.
type ReflectionRequest struct {
	// Episode is the zero-based episode index.
	Episode int
	// History is this agent's full episode history.
	History []HistoryEntry
	// MyScore and OppScore are the final episode scores.
	MyScore  int
	OppScore int
}

// Decision is a session's resolved answer for one round. Decide never fails:
// retry exhaustion degrades to a Forced DEFECT so the round engine always
// receives a total decision.
type Decision struct {
	Action Action
	// Reasoning is the raw response text, or synthetic-tagged text when
	// Forced is set.
	Reasoning string
	// Forced reports that the retry budget was exhausted and DEFECT was
	// substituted. The caller must surface this loudly.
	Forced bool
	// Attempts is the number of backend requests issued.
	Attempts int
}

// Session is the per-agent surface consumed by the round and episode
// engines. A session owns its own conversational context buffer exclusively;
// Reset and AppendContext are invoked only by the episode engine at episode
// boundaries, never by the round engine.
type Session interface {
	// ID returns the agent identifier (agent_0, agent_1).
	ID() string
	// Model returns the backing model identifier.
	Model() string
	// Decide obtains exactly one valid action for the current round,
	// applying the bounded forced-decision retry ladder internally.
	Decide(ctx context.Context, req DecisionRequest) Decision
	// Reflect produces free-form post-episode text. Failure yields a
	// sentinel placeholder, never an error.
	Reflect(ctx context.Context, req ReflectionRequest) string
	// Reset clears the tactical turn-by-turn context, optionally keeping
	// the system prompt.
	Reset(keepSystemPrompt bool)
	// AppendContext adds standing material (such as a prior reflection)
	// visible to all subsequent prompts.
	AppendContext(text string)
}
