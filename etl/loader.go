// Package etl loads completed result documents into the warehouse schema:
// one results row per document, one child row per agent, per episode, and
// per round-per-agent. Exact-duplicate documents are a non-fatal, explicitly
// logged skip, detected via the warehouse's unique constraint.
package etl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/forgelab/ipd/logging"
	"github.com/forgelab/ipd/result"
)

// ErrDuplicate marks a result document that is already present in the
// warehouse. Callers treat it as a skip, not a failure.
var ErrDuplicate = errors.New("result document already loaded")

// Options configure the loader.
type Options struct {
	// Logger receives per-file and batch telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Loader inserts result documents into the ipd2.* warehouse tables with
// parameterized statements.
type Loader struct {
	db     DB
	logger logging.Logger
}

// New creates a loader over an open warehouse connection.
func New(db DB, optFns ...func(o *Options)) *Loader {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Loader{db: db, logger: opts.Logger}
}

// BatchResult summarizes one batch import.
type BatchResult struct {
	Loaded  []string
	Skipped []string
	Failed  map[string]error
}

const insertResultSQL = `
	INSERT INTO ipd2.results (
		filename, timestamp, hostname, username, elapsed_seconds,
		cfg_num_episodes, cfg_round_per_episode, cfg_total_rounds,
		cfg_history_window_size, cfg_temperature, cfg_reset_between_episodes,
		cfg_reflection_type, cfg_decision_token_limit, cfg_reflection_token_limit,
		cfg_http_timeout, cfg_force_decision_retries,
		system_prompt, reflection_template, raw_json
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
	) RETURNING results_id`

const insertAgentSQL = `
	INSERT INTO ipd2.llm_agents (
		results_id, agent_idx, host, agent_model, cfg_model,
		total_score, total_cooperations, overall_cooperation_rate
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const insertEpisodeSQL = `
	INSERT INTO ipd2.episodes (
		results_id, agent_idx, episode, score, cooperations, cooperation_rate, reflection
	) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING episode_id`

const insertRoundSQL = `
	INSERT INTO ipd2.rounds (
		episode_id, round, action, payoff, ep_cumulative_score, reasoning
	) VALUES ($1, $2, $3, $4, $5, $6)`

// LoadFile imports one result JSON file. It returns the generated results
// identifier, or ErrDuplicate (wrapped) when the warehouse already holds an
// identical document. defaultUser backfills the username field of older
// documents that lack one.
func (l *Loader) LoadFile(ctx context.Context, path, defaultUser string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read result document: %w", err)
	}

	var doc result.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parse result document %s: %w", path, err)
	}
	if doc.Username == "" {
		doc.Username = defaultUser
	}

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return 0, err
	}

	resultsID, err := l.insertDocument(ctx, tx, filepath.Base(path), data, &doc)
	if err != nil {
		_ = tx.Rollback(ctx)
		if isUniqueViolation(err) {
			l.logger.Warn("duplicate result document skipped", "file", path)
			return 0, fmt.Errorf("%s: %w", path, ErrDuplicate)
		}
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit %s: %w", path, err)
	}

	l.logger.Info("result document loaded", "file", path, "results_id", resultsID, "username", doc.Username)
	return resultsID, nil
}

func (l *Loader) insertDocument(ctx context.Context, tx Tx, filename string, raw []byte, doc *result.Document) (int64, error) {
	var resultsID int64
	err := tx.QueryRow(ctx, insertResultSQL,
		filename, doc.Timestamp, doc.Hostname, doc.Username, doc.ElapsedSeconds,
		doc.Config.NumEpisodes, doc.Config.RoundsPerEpisode, doc.Config.TotalRounds,
		doc.Config.HistoryWindowSize, doc.Config.Temperature, doc.Config.ResetBetweenEpisodes,
		doc.Config.ReflectionType, doc.Config.DecisionTokenLimit, doc.Config.ReflectionTokenLimit,
		doc.Config.HTTPTimeout, doc.Config.ForceDecisionRetries,
		doc.Prompts.SystemPrompt, doc.Prompts.ReflectionTemplate, string(raw),
	).Scan(&resultsID)
	if err != nil {
		return 0, err
	}

	agents := [2]result.AgentSummary{doc.Agent0, doc.Agent1}
	hosts := [2]string{doc.Host0, doc.Host1}
	cfgModels := [2]string{doc.Config.Model0, doc.Config.Model1}
	for idx, a := range agents {
		if err := tx.Exec(ctx, insertAgentSQL,
			resultsID, idx, hosts[idx], a.Model, cfgModels[idx],
			a.TotalScore, a.TotalCooperations, a.OverallCooperationRate,
		); err != nil {
			return 0, err
		}
	}

	for _, ep := range doc.Episodes {
		perAgent := [2]result.AgentEpisode{ep.Agent0, ep.Agent1}
		for idx, a := range perAgent {
			var episodeID int64
			err := tx.QueryRow(ctx, insertEpisodeSQL,
				resultsID, idx, ep.Episode, a.EpisodeScore, a.Cooperations, a.CooperationRate, a.Reflection,
			).Scan(&episodeID)
			if err != nil {
				return 0, err
			}
			for _, r := range ep.Rounds {
				action, reasoning, payoff, score := roundSlot(r, idx)
				if err := tx.Exec(ctx, insertRoundSQL,
					episodeID, r.Round, action, payoff, score, reasoning,
				); err != nil {
					return 0, err
				}
			}
		}
	}

	return resultsID, nil
}

func roundSlot(r result.Round, idx int) (action, reasoning string, payoff, score int) {
	if idx == 0 {
		return r.Agent0Action.String(), r.Agent0Reasoning, r.Agent0Payoff, r.Agent0EpisodeScore
	}
	return r.Agent1Action.String(), r.Agent1Reasoning, r.Agent1Payoff, r.Agent1EpisodeScore
}

// LoadBatch imports every path, continuing past duplicates and failures, and
// returns the per-file accounting.
func (l *Loader) LoadBatch(ctx context.Context, paths []string, defaultUser string) BatchResult {
	res := BatchResult{Failed: map[string]error{}}
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	for _, p := range sorted {
		_, err := l.LoadFile(ctx, p, defaultUser)
		switch {
		case err == nil:
			res.Loaded = append(res.Loaded, p)
		case errors.Is(err, ErrDuplicate):
			res.Skipped = append(res.Skipped, p)
		default:
			l.logger.Error("failed to load result document", "file", p, "error", err)
			res.Failed[p] = err
		}
	}

	l.logger.Info("batch complete",
		"loaded", len(res.Loaded), "skipped", len(res.Skipped), "failed", len(res.Failed))
	return res
}

// ExpandPath resolves a file, directory or glob pattern into the list of
// result JSON files to import.
func ExpandPath(path string) ([]string, error) {
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return []string{path}, nil
		}
		return filepath.Glob(filepath.Join(path, "*.json"))
	}
	matches, err := filepath.Glob(path)
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", path, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no result documents match %s", path)
	}
	return matches, nil
}
