package game

import "time"

// ReflectionMode selects how elaborate the post-episode reflection prompt is.
type ReflectionMode string

const (
	// ReflectionMinimal asks for a one or two sentence takeaway.
	ReflectionMinimal ReflectionMode = "minimal"
	// ReflectionStandard asks for a short strategic summary.
	ReflectionStandard ReflectionMode = "standard"
	// ReflectionDetailed asks for a structured analysis of the episode.
	ReflectionDetailed ReflectionMode = "detailed"
)

// Config holds every knob of a game run. It is validated once, before any
// episode executes; validation failure is the only pre-game fatal path.
type Config struct {
	// Episodes is the number of episodes to play.
	Episodes int
	// RoundsPerEpisode is the fixed number of rounds in each episode.
	RoundsPerEpisode int
	// HistoryWindow is how many of the most recent rounds an agent sees in
	// its decision prompt.
	HistoryWindow int
	// Temperature is the sampling temperature for both agents.
	Temperature float64
	// Models holds the per-slot model identifiers.
	Models [2]string
	// Hosts holds the per-slot backend host identifiers.
	Hosts [2]string
	// ResetBetweenEpisodes clears each agent's tactical history at episode
	// end, re-injecting only its reflection into the fresh context.
	ResetBetweenEpisodes bool
	// ReflectionMode selects the reflection prompt variant.
	ReflectionMode ReflectionMode
	// IncludeStatistics adds a cooperation statistics block to the
	// reflection prompt.
	IncludeStatistics bool
	// DecisionTokenLimit caps tokens for decision responses.
	DecisionTokenLimit int
	// ReflectionTokenLimit caps tokens for reflection responses.
	ReflectionTokenLimit int
	// HTTPTimeout bounds each individual backend request.
	HTTPTimeout time.Duration
	// ForcedDecisionRetries is the retry budget for ambiguous or failed
	// decision responses before the DEFECT fallback triggers.
	ForcedDecisionRetries int
	// Payoffs is the payoff matrix; must be total over all four pairs.
	Payoffs PayoffMatrix
}

// DefaultConfig mirrors the historical experiment defaults.
func DefaultConfig() Config {
	return Config{
		Episodes:              5,
		RoundsPerEpisode:      20,
		HistoryWindow:         10,
		Temperature:           0.7,
		ResetBetweenEpisodes:  true,
		ReflectionMode:        ReflectionStandard,
		IncludeStatistics:     true,
		DecisionTokenLimit:    256,
		ReflectionTokenLimit:  1024,
		HTTPTimeout:           60 * time.Second,
		ForcedDecisionRetries: 2,
		Payoffs:               DefaultPayoffMatrix(),
	}
}

// TotalRounds returns Episodes * RoundsPerEpisode.
func (c Config) TotalRounds() int { return c.Episodes * c.RoundsPerEpisode }

// Validate checks all counts, limits and the payoff matrix. It must pass
// before a game engine is constructed.
func (c Config) Validate() error {
	if c.Episodes <= 0 {
		return &ConfigError{Field: "episodes", Reason: "must be > 0"}
	}
	if c.RoundsPerEpisode <= 0 {
		return &ConfigError{Field: "rounds_per_episode", Reason: "must be > 0"}
	}
	if c.HistoryWindow <= 0 {
		return &ConfigError{Field: "history_window", Reason: "must be > 0"}
	}
	if c.Temperature < 0 {
		return &ConfigError{Field: "temperature", Reason: "must be >= 0"}
	}
	if c.DecisionTokenLimit <= 0 {
		return &ConfigError{Field: "decision_token_limit", Reason: "must be > 0"}
	}
	if c.ReflectionTokenLimit <= 0 {
		return &ConfigError{Field: "reflection_token_limit", Reason: "must be > 0"}
	}
	if c.HTTPTimeout <= 0 {
		return &ConfigError{Field: "http_timeout", Reason: "must be > 0"}
	}
	if c.ForcedDecisionRetries < 0 {
		return &ConfigError{Field: "forced_decision_retries", Reason: "must be >= 0"}
	}
	switch c.ReflectionMode {
	case ReflectionMinimal, ReflectionStandard, ReflectionDetailed:
	default:
		return &ConfigError{Field: "reflection_mode", Reason: "must be one of minimal, standard, detailed"}
	}
	if c.Payoffs == nil {
		return &ConfigError{Field: "payoff_matrix", Reason: "missing"}
	}
	return c.Payoffs.validate()
}
