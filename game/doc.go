// Package game implements the deterministic core of the episodic iterated
// prisoner's dilemma: actions and payoff matrices, validated configuration,
// round/episode/game engines and the immutable records they produce.
//
// The engines are strictly sequential. Each round resolves both agents'
// decisions into a single consistent pair before the next round's prompts
// can be rendered, so there is no concurrency at this layer; the only
// blocking operations are the backend calls hidden behind the Session
// interface.
//
// Scoring is exact integer bookkeeping threaded through an explicit Totals
// accumulator owned by the game engine, keeping the engines reentrant and
// testable without ambient state.
package game
