package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSession replays a fixed cycle of actions. It implements Session
// without any backend, isolating the engine arithmetic.
type scriptedSession struct {
	id          string
	actions     []Action
	next        int
	forced      map[int]bool // trigger the forced flag on specific calls
	resets      int
	keptSystem  bool
	appended    []string
	reflections int
	lastDecide  DecisionRequest
}

func (s *scriptedSession) ID() string    { return s.id }
func (s *scriptedSession) Model() string { return "scripted" }

func (s *scriptedSession) Decide(_ context.Context, req DecisionRequest) Decision {
	s.lastDecide = req
	call := s.next
	a := s.actions[call%len(s.actions)]
	s.next++
	d := Decision{Action: a, Reasoning: "scripted reasoning", Attempts: 1}
	if s.forced[call] {
		d.Action = Defect
		d.Forced = true
		d.Attempts = 3
	}
	return d
}

func (s *scriptedSession) Reflect(context.Context, ReflectionRequest) string {
	s.reflections++
	return "scripted reflection"
}

func (s *scriptedSession) Reset(keepSystemPrompt bool) {
	s.resets++
	s.keptSystem = keepSystemPrompt
}

func (s *scriptedSession) AppendContext(text string) {
	s.appended = append(s.appended, text)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Episodes = 2
	cfg.RoundsPerEpisode = 3
	cfg.HTTPTimeout = time.Second
	return cfg
}

// The canonical 2x3 scenario: COOPERATE,COOPERATE,DEFECT vs
// COOPERATE,DEFECT,DEFECT per episode.
func newScriptedPair() (*scriptedSession, *scriptedSession) {
	a := &scriptedSession{id: "agent_0", actions: []Action{Cooperate, Cooperate, Defect}}
	b := &scriptedSession{id: "agent_1", actions: []Action{Cooperate, Defect, Defect}}
	return a, b
}

func TestEngine_CanonicalScenario(t *testing.T) {
	a, b := newScriptedPair()
	engine, err := New(testConfig(), a, b)
	require.NoError(t, err)

	res, err := engine.Play(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Episodes, 2)

	for _, ep := range res.Episodes {
		require.Len(t, ep.Rounds, 3)

		assert.Equal(t, [2]int{3, 3}, ep.Rounds[0].Payoffs)
		assert.Equal(t, [2]int{0, 5}, ep.Rounds[1].Payoffs)
		assert.Equal(t, [2]int{1, 1}, ep.Rounds[2].Payoffs)

		assert.Equal(t, 4, ep.Agents[0].Score)
		assert.Equal(t, 9, ep.Agents[1].Score)
		assert.Equal(t, 2, ep.Agents[0].Cooperations)
		assert.Equal(t, 1, ep.Agents[1].Cooperations)
		assert.InDelta(t, 2.0/3.0, ep.Agents[0].CooperationRate, 1e-9)
		assert.InDelta(t, 1.0/3.0, ep.Agents[1].CooperationRate, 1e-9)
	}

	assert.Equal(t, [2]int{8, 18}, res.Totals.Scores)
	assert.Equal(t, [2]int{4, 2}, res.Totals.Cooperations)
	assert.InDelta(t, 4.0/6.0, res.OverallCooperationRate(0), 1e-9)
	assert.InDelta(t, 2.0/6.0, res.OverallCooperationRate(1), 1e-9)
}

// Score conservation: round payoffs sum to the episode score, episode
// scores sum to the final totals.
func TestEngine_ScoreConservation(t *testing.T) {
	a, b := newScriptedPair()
	engine, err := New(testConfig(), a, b)
	require.NoError(t, err)

	res, err := engine.Play(context.Background())
	require.NoError(t, err)

	var grand [2]int
	for _, ep := range res.Episodes {
		var epSum [2]int
		for _, r := range ep.Rounds {
			epSum[0] += r.Payoffs[0]
			epSum[1] += r.Payoffs[1]
		}
		assert.Equal(t, epSum[0], ep.Agents[0].Score)
		assert.Equal(t, epSum[1], ep.Agents[1].Score)

		last := ep.Rounds[len(ep.Rounds)-1]
		assert.Equal(t, epSum, last.EpisodeScores)

		grand[0] += ep.Agents[0].Score
		grand[1] += ep.Agents[1].Score

		rate0 := ep.Agents[0].CooperationRate
		assert.GreaterOrEqual(t, rate0, 0.0)
		assert.LessOrEqual(t, rate0, 1.0)
	}
	assert.Equal(t, grand, res.Totals.Scores)
}

func TestEngine_DecisionRequestsSeeConsistentState(t *testing.T) {
	a, b := newScriptedPair()
	engine, err := New(testConfig(), a, b)
	require.NoError(t, err)

	_, err = engine.Play(context.Background())
	require.NoError(t, err)

	// The final decision request of the last episode sees exactly the two
	// prior rounds and the scores as they stood before that round.
	req := a.lastDecide
	assert.Equal(t, 2, req.Round)
	assert.Equal(t, 1, req.Episode)
	require.Len(t, req.History, 2)
	assert.Equal(t, Cooperate, req.History[0].MyAction)
	assert.Equal(t, Defect, req.History[1].OppAction)
	assert.Equal(t, 3, req.MyScore)
	assert.Equal(t, 8, req.OppScore)
}

func TestEngine_ContextTransition(t *testing.T) {
	t.Run("reset enabled", func(t *testing.T) {
		a, b := newScriptedPair()
		cfg := testConfig()
		cfg.ResetBetweenEpisodes = true

		engine, err := New(cfg, a, b)
		require.NoError(t, err)
		_, err = engine.Play(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, a.resets)
		assert.True(t, a.keptSystem)
		require.Len(t, a.appended, 2)
		assert.Contains(t, a.appended[0], "PREVIOUS PERIOD 1 REFLECTION:")
		assert.Contains(t, a.appended[0], "scripted reflection")
		assert.Equal(t, 2, b.reflections)
	})

	t.Run("reset disabled", func(t *testing.T) {
		a, b := newScriptedPair()
		cfg := testConfig()
		cfg.ResetBetweenEpisodes = false

		engine, err := New(cfg, a, b)
		require.NoError(t, err)
		_, err = engine.Play(context.Background())
		require.NoError(t, err)

		assert.Zero(t, a.resets)
		assert.Empty(t, a.appended)
		assert.Equal(t, 2, a.reflections)
	})
}

func TestEngine_ForcedFallbackIsRecorded(t *testing.T) {
	a, b := newScriptedPair()
	a.forced = map[int]bool{1: true} // second decision of the game

	cfg := testConfig()
	cfg.Episodes = 1
	engine, err := New(cfg, a, b)
	require.NoError(t, err)

	res, err := engine.Play(context.Background())
	require.NoError(t, err)

	r := res.Episodes[0].Rounds[1]
	assert.True(t, r.Forced[0])
	assert.False(t, r.Forced[1])
	assert.Equal(t, Defect, r.Actions[0])
	// The substituted DEFECT still scores normally.
	assert.Equal(t, [2]int{1, 1}, r.Payoffs)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	a, b := newScriptedPair()
	cfg := testConfig()
	cfg.Episodes = 0

	_, err := New(cfg, a, b)
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
