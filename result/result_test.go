package result

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelab/ipd/game"
)

func fixtureResult() *game.Result {
	cfg := game.DefaultConfig()
	cfg.Episodes = 1
	cfg.RoundsPerEpisode = 2
	cfg.Models = [2]string{"model-a", "model-b"}
	cfg.Hosts = [2]string{"hostA", "hostB"}

	return &game.Result{
		Config:    cfg,
		StartedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Elapsed:   90 * time.Second,
		Models:    cfg.Models,
		Totals: game.Totals{
			Scores:       [2]int{4, 9},
			Cooperations: [2]int{2, 1},
		},
		Episodes: []game.EpisodeRecord{{
			Episode: 1,
			Rounds: []game.RoundRecord{
				{
					Round:         1,
					Actions:       [2]game.Action{game.Cooperate, game.Cooperate},
					Reasoning:     [2]string{"trust", "trust"},
					Payoffs:       [2]int{3, 3},
					EpisodeScores: [2]int{3, 3},
				},
				{
					Round:         2,
					Actions:       [2]game.Action{game.Cooperate, game.Defect},
					Reasoning:     [2]string{"still trusting", "exploit"},
					Payoffs:       [2]int{0, 5},
					EpisodeScores: [2]int{3, 8},
					Forced:        [2]bool{false, true},
				},
			},
			Agents: [2]game.AgentEpisodeStats{
				{Score: 3, Cooperations: 2, CooperationRate: 1.0, Reflection: "went well"},
				{Score: 8, Cooperations: 1, CooperationRate: 0.5, Reflection: "exploited successfully"},
			},
		}},
	}
}

func TestAssemble(t *testing.T) {
	res := fixtureResult()
	doc := Assemble(res, Prompts{SystemPrompt: "sys", ReflectionTemplate: "refl"})

	_, err := uuid.Parse(doc.ResultsUUID)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-14T09:26:53Z", doc.Timestamp)
	assert.NotEmpty(t, doc.Hostname)
	assert.NotEmpty(t, doc.Username)
	assert.Equal(t, "hostA", doc.Host0)
	assert.Equal(t, "hostB", doc.Host1)
	assert.Equal(t, "sys", doc.Prompts.SystemPrompt)
	assert.Equal(t, 90.0, doc.ElapsedSeconds)

	assert.Equal(t, 1, doc.Config.NumEpisodes)
	assert.Equal(t, 2, doc.Config.RoundsPerEpisode)
	assert.Equal(t, 2, doc.Config.TotalRounds)
	assert.Equal(t, 60, doc.Config.HTTPTimeout)
	assert.Equal(t, "standard", doc.Config.ReflectionType)
	assert.Equal(t, "model-a", doc.Config.Model0)

	assert.Equal(t, 4, doc.Agent0.TotalScore)
	assert.Equal(t, 9, doc.Agent1.TotalScore)
	assert.Equal(t, 2, doc.Agent0.TotalCooperations)
	assert.InDelta(t, 1.0, doc.Agent0.OverallCooperationRate, 1e-9)
	assert.InDelta(t, 0.5, doc.Agent1.OverallCooperationRate, 1e-9)

	require.Len(t, doc.Episodes, 1)
	ep := doc.Episodes[0]
	assert.Equal(t, 1, ep.Episode)
	require.Len(t, ep.Rounds, 2)
	assert.Equal(t, game.Cooperate, ep.Rounds[1].Agent0Action)
	assert.Equal(t, game.Defect, ep.Rounds[1].Agent1Action)
	assert.Equal(t, 8, ep.Rounds[1].Agent1EpisodeScore)
	assert.Equal(t, "went well", ep.Agent0.Reflection)
	assert.Equal(t, 0.5, ep.Agent1.CooperationRate)
}

func TestDocument_JSONKeys(t *testing.T) {
	doc := Assemble(fixtureResult(), Prompts{})

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{
		"results_uuid", "timestamp", "hostname", "username",
		"host_0", "host_1", "prompts", "config", "elapsed_seconds",
		"agent_0", "agent_1", "episodes",
	} {
		assert.Contains(t, raw, key)
	}

	cfg := raw["config"].(map[string]any)
	for _, key := range []string{
		"num_episodes", "rounds_per_episode", "total_rounds",
		"history_window_size", "temperature", "reset_between_episodes",
		"reflection_type", "model_0", "model_1",
		"decision_token_limit", "reflection_token_limit",
		"http_timeout", "force_decision_retries",
	} {
		assert.Contains(t, cfg, key)
	}

	round := raw["episodes"].([]any)[0].(map[string]any)["rounds"].([]any)[0].(map[string]any)
	for _, key := range []string{
		"round", "agent_0_action", "agent_1_action",
		"agent_0_reasoning", "agent_1_reasoning",
		"agent_0_payoff", "agent_1_payoff",
		"agent_0_episode_score", "agent_1_episode_score",
	} {
		assert.Contains(t, round, key)
	}
	assert.Equal(t, "COOPERATE", round["agent_0_action"])
}

func TestDocument_WriteRoundTrip(t *testing.T) {
	doc := Assemble(fixtureResult(), Prompts{SystemPrompt: "sys"})

	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, doc.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, doc.ResultsUUID, back.ResultsUUID)
	assert.Equal(t, doc.Agent1.TotalScore, back.Agent1.TotalScore)
	assert.Equal(t, doc.Episodes[0].Rounds[0].Agent0Action, back.Episodes[0].Rounds[0].Agent0Action)
}

func TestDefaultPath(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t,
		filepath.Join("results", "episodic_game_20260314_092653.json"),
		DefaultPath("results", now))
}
