package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.TotalRounds())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{"zero episodes", func(c *Config) { c.Episodes = 0 }, "episodes"},
		{"negative rounds", func(c *Config) { c.RoundsPerEpisode = -1 }, "rounds_per_episode"},
		{"zero history window", func(c *Config) { c.HistoryWindow = 0 }, "history_window"},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }, "temperature"},
		{"zero decision tokens", func(c *Config) { c.DecisionTokenLimit = 0 }, "decision_token_limit"},
		{"zero reflection tokens", func(c *Config) { c.ReflectionTokenLimit = 0 }, "reflection_token_limit"},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, "http_timeout"},
		{"negative retries", func(c *Config) { c.ForcedDecisionRetries = -1 }, "forced_decision_retries"},
		{"unknown reflection mode", func(c *Config) { c.ReflectionMode = "verbose" }, "reflection_mode"},
		{"nil payoff matrix", func(c *Config) { c.Payoffs = nil }, "payoff_matrix"},
		{"incomplete payoff matrix", func(c *Config) {
			delete(c.Payoffs, ActionPair{Defect, Defect})
		}, "payoff_matrix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestConfig_ZeroRetriesAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForcedDecisionRetries = 0
	cfg.HTTPTimeout = time.Second
	assert.NoError(t, cfg.Validate())
}
