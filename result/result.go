// Package result assembles and persists the result document: the sole
// hand-off artifact of a completed game, consumed downstream by the
// warehouse loader. Field names stay key-compatible with the historical
// JSON shape so existing analysis tooling keeps working.
package result

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/forgelab/ipd/game"
)

// Prompts records the exact prompt templates a run used.
type Prompts struct {
	SystemPrompt       string `json:"system_prompt"`
	ReflectionTemplate string `json:"reflection_template"`
}

// ConfigSnapshot is the persisted configuration block.
type ConfigSnapshot struct {
	NumEpisodes          int     `json:"num_episodes"`
	RoundsPerEpisode     int     `json:"rounds_per_episode"`
	TotalRounds          int     `json:"total_rounds"`
	HistoryWindowSize    int     `json:"history_window_size"`
	Temperature          float64 `json:"temperature"`
	ResetBetweenEpisodes bool    `json:"reset_between_episodes"`
	ReflectionType       string  `json:"reflection_type"`
	Model0               string  `json:"model_0"`
	Model1               string  `json:"model_1"`
	DecisionTokenLimit   int     `json:"decision_token_limit"`
	ReflectionTokenLimit int     `json:"reflection_token_limit"`
	HTTPTimeout          int     `json:"http_timeout"`
	ForceDecisionRetries int     `json:"force_decision_retries"`
}

// AgentSummary is one agent's whole-game summary.
type AgentSummary struct {
	Model                  string  `json:"model"`
	TotalScore             int     `json:"total_score"`
	TotalCooperations      int     `json:"total_cooperations"`
	OverallCooperationRate float64 `json:"overall_cooperation_rate"`
}

// AgentEpisode is one agent's per-episode summary.
type AgentEpisode struct {
	EpisodeScore    int     `json:"episode_score"`
	Cooperations    int     `json:"cooperations"`
	CooperationRate float64 `json:"cooperation_rate"`
	Reflection      string  `json:"reflection"`
}

// Round is the persisted form of one round.
type Round struct {
	Round              int         `json:"round"`
	Agent0Action       game.Action `json:"agent_0_action"`
	Agent1Action       game.Action `json:"agent_1_action"`
	Agent0Reasoning    string      `json:"agent_0_reasoning"`
	Agent1Reasoning    string      `json:"agent_1_reasoning"`
	Agent0Payoff       int         `json:"agent_0_payoff"`
	Agent1Payoff       int         `json:"agent_1_payoff"`
	Agent0EpisodeScore int         `json:"agent_0_episode_score"`
	Agent1EpisodeScore int         `json:"agent_1_episode_score"`
}

// Episode is the persisted form of one episode.
type Episode struct {
	Episode int          `json:"episode"`
	Rounds  []Round      `json:"rounds"`
	Agent0  AgentEpisode `json:"agent_0"`
	Agent1  AgentEpisode `json:"agent_1"`
}

// Document is the complete result document.
type Document struct {
	ResultsUUID    string         `json:"results_uuid"`
	Timestamp      string         `json:"timestamp"`
	Hostname       string         `json:"hostname"`
	Username       string         `json:"username"`
	Host0          string         `json:"host_0"`
	Host1          string         `json:"host_1"`
	Prompts        Prompts        `json:"prompts"`
	Config         ConfigSnapshot `json:"config"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
	Agent0         AgentSummary   `json:"agent_0"`
	Agent1         AgentSummary   `json:"agent_1"`
	Episodes       []Episode      `json:"episodes"`
}

// Assemble turns a completed game result into the persisted document,
// stamping run identity (uuid), ISO-8601 timestamp and host/user metadata.
func Assemble(res *game.Result, prompts Prompts) *Document {
	cfg := res.Config

	doc := &Document{
		ResultsUUID: uuid.NewString(),
		Timestamp:   res.StartedAt.Format(time.RFC3339),
		Hostname:    hostname(),
		Username:    username(),
		Host0:       cfg.Hosts[0],
		Host1:       cfg.Hosts[1],
		Prompts:     prompts,
		Config: ConfigSnapshot{
			NumEpisodes:          cfg.Episodes,
			RoundsPerEpisode:     cfg.RoundsPerEpisode,
			TotalRounds:          cfg.TotalRounds(),
			HistoryWindowSize:    cfg.HistoryWindow,
			Temperature:          cfg.Temperature,
			ResetBetweenEpisodes: cfg.ResetBetweenEpisodes,
			ReflectionType:       string(cfg.ReflectionMode),
			Model0:               cfg.Models[0],
			Model1:               cfg.Models[1],
			DecisionTokenLimit:   cfg.DecisionTokenLimit,
			ReflectionTokenLimit: cfg.ReflectionTokenLimit,
			HTTPTimeout:          int(cfg.HTTPTimeout.Seconds()),
			ForceDecisionRetries: cfg.ForcedDecisionRetries,
		},
		ElapsedSeconds: res.Elapsed.Seconds(),
		Agent0: AgentSummary{
			Model:                  res.Models[0],
			TotalScore:             res.Totals.Scores[0],
			TotalCooperations:      res.Totals.Cooperations[0],
			OverallCooperationRate: res.OverallCooperationRate(0),
		},
		Agent1: AgentSummary{
			Model:                  res.Models[1],
			TotalScore:             res.Totals.Scores[1],
			TotalCooperations:      res.Totals.Cooperations[1],
			OverallCooperationRate: res.OverallCooperationRate(1),
		},
	}

	doc.Episodes = make([]Episode, 0, len(res.Episodes))
	for _, ep := range res.Episodes {
		rounds := make([]Round, 0, len(ep.Rounds))
		for _, r := range ep.Rounds {
			rounds = append(rounds, Round{
				Round:              r.Round,
				Agent0Action:       r.Actions[0],
				Agent1Action:       r.Actions[1],
				Agent0Reasoning:    r.Reasoning[0],
				Agent1Reasoning:    r.Reasoning[1],
				Agent0Payoff:       r.Payoffs[0],
				Agent1Payoff:       r.Payoffs[1],
				Agent0EpisodeScore: r.EpisodeScores[0],
				Agent1EpisodeScore: r.EpisodeScores[1],
			})
		}
		doc.Episodes = append(doc.Episodes, Episode{
			Episode: ep.Episode,
			Rounds:  rounds,
			Agent0:  agentEpisode(ep.Agents[0]),
			Agent1:  agentEpisode(ep.Agents[1]),
		})
	}

	return doc
}

func agentEpisode(s game.AgentEpisodeStats) AgentEpisode {
	return AgentEpisode{
		EpisodeScore:    s.Score,
		Cooperations:    s.Cooperations,
		CooperationRate: s.CooperationRate,
		Reflection:      s.Reflection,
	}
}

// Write persists the document as indented JSON, creating parent directories
// as needed. An output-write failure here is one of the two error classes
// allowed to reach the process boundary.
func (d *Document) Write(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result document: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result document: %w", err)
	}
	return nil
}

// DefaultPath returns a timestamped default output path under dir.
func DefaultPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("episodic_game_%s.json", now.Format("20060102_150405")))
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

func username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if env := os.Getenv("USER"); env != "" {
		return env
	}
	return "unknown"
}
