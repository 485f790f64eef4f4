package game

import (
	"context"
	"time"

	"github.com/forgelab/ipd/logging"
)

// Result is the in-memory outcome of a completed game. The result package
// turns it into the persisted wire document.
type Result struct {
	Config    Config
	StartedAt time.Time
	Elapsed   time.Duration
	Totals    Totals
	Episodes  []EpisodeRecord
	// Models holds the model identifiers the sessions actually reported,
	// which may differ from the configured ones if a backend resolves
	// aliases.
	Models [2]string
}

// OverallCooperationRate returns one agent's cooperation rate across the
// whole game.
func (r *Result) OverallCooperationRate(slot int) float64 {
	total := r.Config.TotalRounds()
	if total == 0 {
		return 0
	}
	return float64(r.Totals.Cooperations[slot]) / float64(total)
}

// Options configures optional engine collaborators.
type Options struct {
	// Logger receives engine telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
}

// WithLogger overrides the engine logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Engine is the top-level driver: it runs the configured number of episodes
// sequentially, owns the global score accumulator and assembles the Result.
type Engine struct {
	cfg      Config
	sessions [2]Session
	episodes *EpisodeEngine
	logger   logging.Logger
}

// New validates the configuration and builds a game engine over two agent
// sessions. Validation failure here is the only fatal pre-game path; all
// per-round and per-episode failures are absorbed by the session fallback
// policy and never abort the game.
func New(cfg Config, a, b Session, optFns ...func(o *Options)) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	sessions := [2]Session{a, b}
	rounds := NewRoundEngine(sessions, cfg.Payoffs, opts.Logger)

	return &Engine{
		cfg:      cfg,
		sessions: sessions,
		episodes: NewEpisodeEngine(cfg, sessions, rounds),
		logger:   opts.Logger,
	}, nil
}

// Play runs the full multi-episode game and returns the assembled result.
func (e *Engine) Play(ctx context.Context) (*Result, error) {
	e.logger.Info("starting episodic simulation",
		"episodes", e.cfg.Episodes,
		"rounds_per_episode", e.cfg.RoundsPerEpisode,
		"history_window", e.cfg.HistoryWindow,
		"total_rounds", e.cfg.TotalRounds(),
		"model_0", e.sessions[0].Model(),
		"model_1", e.sessions[1].Model(),
		"temperature", e.cfg.Temperature,
		"reset_between_episodes", e.cfg.ResetBetweenEpisodes,
	)

	start := time.Now()
	var totals Totals
	episodes := make([]EpisodeRecord, 0, e.cfg.Episodes)

	for episode := 0; episode < e.cfg.Episodes; episode++ {
		rec := e.episodes.PlayEpisode(ctx, episode, &totals)
		episodes = append(episodes, rec)
		e.logger.Info("episode complete",
			"episode", rec.Episode,
			"score_0", rec.Agents[0].Score,
			"score_1", rec.Agents[1].Score,
			"cooperations_0", rec.Agents[0].Cooperations,
			"cooperations_1", rec.Agents[1].Cooperations,
		)
	}

	res := &Result{
		Config:    e.cfg,
		StartedAt: start,
		Elapsed:   time.Since(start),
		Totals:    totals,
		Episodes:  episodes,
		Models:    [2]string{e.sessions[0].Model(), e.sessions[1].Model()},
	}

	e.logger.Info("simulation complete",
		"elapsed", res.Elapsed,
		"total_score_0", totals.Scores[0],
		"total_score_1", totals.Scores[1],
		"cooperation_rate_0", res.OverallCooperationRate(0),
		"cooperation_rate_1", res.OverallCooperationRate(1),
	)

	return res, nil
}
