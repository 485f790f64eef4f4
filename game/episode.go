package game

import (
	"context"
	"fmt"
)

// EpisodeEngine runs one episode at a time: N sequential rounds, episode
// statistics, one reflection per agent, then the context transition that
// prepares both sessions for the next episode.
type EpisodeEngine struct {
	cfg      Config
	sessions [2]Session
	rounds   *RoundEngine
}

// NewEpisodeEngine creates an episode engine sharing the round engine's
// sessions.
func NewEpisodeEngine(cfg Config, sessions [2]Session, rounds *RoundEngine) *EpisodeEngine {
	return &EpisodeEngine{cfg: cfg, sessions: sessions, rounds: rounds}
}

// PlayEpisode plays one complete episode. episode is the zero-based index;
// totals is the game engine's accumulator. The returned record is immutable.
//
// Per-episode state (histories, scores) is created here and discarded when
// the episode ends; with reset enabled only the reflection survives into the
// next episode's context.
func (e *EpisodeEngine) PlayEpisode(ctx context.Context, episode int, totals *Totals) EpisodeRecord {
	var histories [2][]HistoryEntry
	var episodeScores [2]int
	roundRecords := make([]RoundRecord, 0, e.cfg.RoundsPerEpisode)

	for round := 0; round < e.cfg.RoundsPerEpisode; round++ {
		rec := e.rounds.PlayRound(ctx, round, episode, &histories, &episodeScores, totals)
		roundRecords = append(roundRecords, rec)
	}

	var stats [2]AgentEpisodeStats
	for slot := 0; slot < 2; slot++ {
		coop := 0
		for _, h := range histories[slot] {
			if h.MyAction == Cooperate {
				coop++
			}
		}
		totals.Cooperations[slot] += coop
		stats[slot] = AgentEpisodeStats{
			Score:           episodeScores[slot],
			Cooperations:    coop,
			CooperationRate: float64(coop) / float64(e.cfg.RoundsPerEpisode),
		}
	}

	for slot := 0; slot < 2; slot++ {
		opp := 1 - slot
		stats[slot].Reflection = e.sessions[slot].Reflect(ctx, ReflectionRequest{
			Episode:  episode,
			History:  histories[slot],
			MyScore:  episodeScores[slot],
			OppScore: episodeScores[opp],
		})
	}

	if e.cfg.ResetBetweenEpisodes {
		// Keep the system prompt, clear the tactical history, then carry
		// each agent's own reflection forward as standing context.
		for slot := 0; slot < 2; slot++ {
			e.sessions[slot].Reset(true)
			e.sessions[slot].AppendContext(fmt.Sprintf("PREVIOUS PERIOD %d REFLECTION:\n%s\n", episode+1, stats[slot].Reflection))
		}
	}

	return EpisodeRecord{
		Episode: episode + 1,
		Rounds:  roundRecords,
		Agents:  stats,
	}
}
