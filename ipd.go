// Package ipd provides a high-level façade over the game engine and its
// collaborators, enabling construction of a complete episodic iterated
// prisoner's dilemma run in a few lines. Most applications interact with
// this package by:
//  1. Building a game.Config (or starting from game.DefaultConfig())
//  2. Creating one model.Backend per agent
//  3. Calling New() and then Play() on the returned engine
//
// The façade wires two agent sessions over the supplied backends and
// delegates orchestration to game.Engine. All defaults are safe for local
// experiments; production runs typically supply a structured logger and
// external prompt files.
package ipd

import (
	"github.com/forgelab/ipd/agent"
	"github.com/forgelab/ipd/game"
	"github.com/forgelab/ipd/logging"
	"github.com/forgelab/ipd/model"
)

// Options configures the façade.
type Options struct {
	// SystemPrompt overrides the built-in system prompt for both agents.
	SystemPrompt string
	// ReflectionTemplate overrides the built-in reflection template.
	ReflectionTemplate string
	// Logger receives engine and session telemetry (defaults to NoOp).
	Logger logging.Logger
}

// New validates cfg and builds a ready-to-play engine with one session per
// backend. Slot order is agent_0, agent_1 throughout.
func New(cfg game.Config, backend0, backend1 model.Backend, optFns ...func(o *Options)) (*game.Engine, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	sessionOpts := func(o *agent.Options) {
		if opts.SystemPrompt != "" {
			o.SystemPrompt = opts.SystemPrompt
		}
		o.ReflectionTemplate = opts.ReflectionTemplate
		o.Logger = opts.Logger
	}

	s0 := agent.NewSession("agent_0", backend0, cfg, sessionOpts)
	s1 := agent.NewSession("agent_1", backend1, cfg, sessionOpts)

	return game.New(cfg, s0, s1, game.WithLogger(opts.Logger))
}
