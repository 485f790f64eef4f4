package game

import (
	"context"

	"github.com/forgelab/ipd/logging"
)

// RoundEngine orchestrates a single round: it requests a decision from each
// session in slot order, resolves payoffs, updates the episode scores, the
// global totals and both agents' history projections, and returns the
// immutable RoundRecord. Decisions are requested strictly sequentially, never
// concurrently; each agent's next prompt depends on the opponent's
// just-revealed action, so there is nothing to parallelize without changing
// the experiment.
//
// All retry policy lives inside the sessions. The round engine only surfaces
// forced fallbacks loudly.
type RoundEngine struct {
	sessions [2]Session
	payoffs  PayoffMatrix
	logger   logging.Logger
}

// NewRoundEngine creates a round engine over two sessions and a payoff matrix.
func NewRoundEngine(sessions [2]Session, payoffs PayoffMatrix, logger logging.Logger) *RoundEngine {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &RoundEngine{sessions: sessions, payoffs: payoffs, logger: logger}
}

// violationReporter is the optional richer logging surface; when the supplied
// logger provides it, forced fallbacks go through the dedicated helper.
type violationReporter interface {
	LogIntegrityViolation(agentID string, episode, round, attempts int, lastResponse string)
}

// PlayRound plays one round. round and episode are zero-based indices.
// histories and episodeScores are the episode engine's mutable per-episode
// state; totals is the game engine's accumulator.
func (e *RoundEngine) PlayRound(
	ctx context.Context,
	round, episode int,
	histories *[2][]HistoryEntry,
	episodeScores *[2]int,
	totals *Totals,
) RoundRecord {
	var decisions [2]Decision
	for slot := 0; slot < 2; slot++ {
		opp := 1 - slot
		decisions[slot] = e.sessions[slot].Decide(ctx, DecisionRequest{
			Round:    round,
			Episode:  episode,
			History:  histories[slot],
			MyScore:  episodeScores[slot],
			OppScore: episodeScores[opp],
		})
		if decisions[slot].Forced {
			e.reportViolation(e.sessions[slot].ID(), episode, round, decisions[slot])
		}
	}

	p0, p1 := e.payoffs.Resolve(decisions[0].Action, decisions[1].Action)
	payoffs := [2]int{p0, p1}

	for slot := 0; slot < 2; slot++ {
		opp := 1 - slot
		episodeScores[slot] += payoffs[slot]
		totals.Scores[slot] += payoffs[slot]
		histories[slot] = append(histories[slot], HistoryEntry{
			MyAction:  decisions[slot].Action,
			OppAction: decisions[opp].Action,
			MyPayoff:  payoffs[slot],
			OppPayoff: payoffs[opp],
		})
	}

	rec := RoundRecord{
		Round:         round + 1,
		Actions:       [2]Action{decisions[0].Action, decisions[1].Action},
		Reasoning:     [2]string{decisions[0].Reasoning, decisions[1].Reasoning},
		Payoffs:       payoffs,
		EpisodeScores: *episodeScores,
		Forced:        [2]bool{decisions[0].Forced, decisions[1].Forced},
	}

	e.logger.Debug("round resolved",
		"episode", episode+1,
		"round", rec.Round,
		"actions", decisions[0].Action.String()[:1]+decisions[1].Action.String()[:1],
		"payoff_0", p0,
		"payoff_1", p1,
	)

	return rec
}

func (e *RoundEngine) reportViolation(agentID string, episode, round int, d Decision) {
	if vr, ok := e.logger.(violationReporter); ok {
		vr.LogIntegrityViolation(agentID, episode+1, round+1, d.Attempts, d.Reasoning)
		return
	}
	e.logger.Error("INTEGRITY VIOLATION: agent failed to provide a decision after all retries; defaulting to DEFECT",
		"agent_id", agentID,
		"episode", episode+1,
		"round", round+1,
		"attempts", d.Attempts,
	)
}
