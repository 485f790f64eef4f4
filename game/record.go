package game

// HistoryEntry is the projection of one round visible to a single agent's
// future prompts: its own action and payoff plus the opponent's. Entries are
// append-only and owned by the episode engine for the episode's lifetime.
type HistoryEntry struct {
	MyAction  Action `json:"my_action"`
	OppAction Action `json:"opp_action"`
	MyPayoff  int    `json:"my_payoff"`
	OppPayoff int    `json:"opp_payoff"`
}

// RoundRecord captures everything that happened in one round. Immutable once
// created; slot 0/1 indexing matches the agent slot order everywhere else.
type RoundRecord struct {
	// Round is the one-based round number within its episode.
	Round int
	// Actions holds both agents' actions.
	Actions [2]Action
	// Reasoning holds both agents' free-text reasoning. For a forced
	// fallback this is the synthetic-tagged text, not agent-authored prose.
	Reasoning [2]string
	// Payoffs holds both agents' payoffs for this round.
	Payoffs [2]int
	// EpisodeScores holds both agents' cumulative episode score after this
	// round was resolved.
	EpisodeScores [2]int
	// Forced marks slots whose action is the DEFECT fallback after retry
	// exhaustion rather than an extracted decision.
	Forced [2]bool
}

// AgentEpisodeStats summarizes one agent's episode.
type AgentEpisodeStats struct {
	Score           int
	Cooperations    int
	CooperationRate float64
	Reflection      string
}

// EpisodeRecord is the immutable outcome of one completed episode.
type EpisodeRecord struct {
	// Episode is the one-based episode number.
	Episode int
	// Rounds holds the ordered round records.
	Rounds []RoundRecord
	// Agents holds both agents' episode summaries.
	Agents [2]AgentEpisodeStats
}

// Totals is the explicit score accumulator threaded through the round,
// episode and game engines. Keeping it a value owned by the game engine
// (rather than ambient state) keeps the engines reentrant.
type Totals struct {
	Scores       [2]int
	Cooperations [2]int
}
