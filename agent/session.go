package agent

import (
	"context"
	"strings"
	"time"

	"github.com/forgelab/ipd/game"
	"github.com/forgelab/ipd/logging"
	"github.com/forgelab/ipd/model"
	"github.com/forgelab/ipd/prompt"
)

// ReflectionFailureSentinel replaces a reflection when the backend fails or
// returns nothing. Reflection failures are never fatal and are not retried.
const ReflectionFailureSentinel = "Agent failed to provide reflection"

// fallbackReasoning stands in for the reasoning text when the retry budget
// is exhausted without any response text to keep.
const fallbackReasoning = "Failed to respond after retries"

// ExtractFunc maps raw response text to an action; the second return is
// false when no confident mapping exists.
type ExtractFunc func(raw string) (game.Action, bool)

// Outcome is the tagged three-way result of classifying one backend
// response. Modeling the ladder's branching explicitly keeps it exhaustively
// testable.
type Outcome int

const (
	// OutcomeDecision means a clear action was extracted.
	OutcomeDecision Outcome = iota
	// OutcomeAmbiguous means the response was prose with no confident
	// action mapping.
	OutcomeAmbiguous
	// OutcomeFailure means the backend errored, timed out, or returned an
	// empty response.
	OutcomeFailure
)

// Classify maps one backend response to its ladder outcome. Transport errors
// and empty responses are failures; everything else is decided by the
// extractor.
func Classify(raw string, err error, extract ExtractFunc) (Outcome, game.Action) {
	if err != nil || strings.TrimSpace(raw) == "" {
		return OutcomeFailure, game.Defect
	}
	if action, ok := extract(raw); ok {
		return OutcomeDecision, action
	}
	return OutcomeAmbiguous, game.Defect
}

// Options configure the collaborators a session consumes; the game knobs
// themselves come from game.Config.
type Options struct {
	// SystemPrompt is the standing instruction; defaults to
	// prompt.DefaultSystemPrompt.
	SystemPrompt string
	// ReflectionTemplate overrides the built-in reflection template for the
	// configured mode when non-empty.
	ReflectionTemplate string
	// Extractor maps raw decision text to an action; defaults to
	// prompt.ExtractDecision.
	Extractor ExtractFunc
	// Logger receives session telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Session owns one agent's conversational context and resolves every
// decision request to exactly one valid action, applying the bounded
// forced-decision retry ladder against an unreliable backend.
type Session struct {
	id         string
	backend    model.Backend
	cfg        game.Config
	transcript *Transcript
	opts       Options
}

// backendCallLogger is the optional richer logging surface for per-request
// telemetry.
type backendCallLogger interface {
	LogBackendCall(model string, dur time.Duration, success bool, err error)
}

// NewSession creates a session over a backend. id should be the slot
// identifier (agent_0, agent_1); cfg supplies temperature, token limits,
// timeout, history window and the retry budget.
func NewSession(id string, backend model.Backend, cfg game.Config, optFns ...func(o *Options)) *Session {
	opts := Options{
		SystemPrompt: prompt.DefaultSystemPrompt,
		Extractor:    prompt.ExtractDecision,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Session{
		id:         id,
		backend:    backend,
		cfg:        cfg,
		transcript: NewTranscript(opts.SystemPrompt),
		opts:       opts,
	}
}

// ID implements game.Session.
func (s *Session) ID() string { return s.id }

// Model implements game.Session.
func (s *Session) Model() string { return s.backend.Info().Model }

// Transcript exposes the context buffer for inspection. The engines never
// use this; it exists for tests and diagnostics.
func (s *Session) Transcript() *Transcript { return s.transcript }

// Decide implements game.Session. It issues the decision request and, on an
// ambiguous or failed response, re-submits a clarifying variant up to the
// configured retry budget. Exhaustion is the forced fallback: DEFECT is
// substituted, the reasoning is tagged as failure-sourced rather than
// agent-authored, and Forced is set so the caller can report the protocol
// violation. Decide therefore always returns a total decision and never an
// error.
func (s *Session) Decide(ctx context.Context, req game.DecisionRequest) game.Decision {
	base := prompt.FormatRoundPrompt(req.Round, req.Episode, req.History, req.MyScore, req.OppScore, s.cfg.HistoryWindow)

	current := base
	attempts := 0
	var lastRaw string

	for attempts <= s.cfg.ForcedDecisionRetries {
		attempts++
		raw, err := s.generate(ctx, current, s.cfg.DecisionTokenLimit)

		outcome, action := Classify(raw, err, s.opts.Extractor)
		switch outcome {
		case OutcomeDecision:
			s.transcript.AppendTurn(current, raw)
			return game.Decision{Action: action, Reasoning: raw, Attempts: attempts}
		case OutcomeAmbiguous:
			s.opts.Logger.Warn("ambiguous decision response; retrying with clarification",
				"agent_id", s.id, "round", req.Round+1, "attempt", attempts)
			lastRaw = raw
		case OutcomeFailure:
			s.opts.Logger.Warn("backend failure during decision; retrying",
				"agent_id", s.id, "round", req.Round+1, "attempt", attempts, "error", errString(err))
			if raw != "" {
				lastRaw = raw
			}
		}
		// Only the in-flight prompt is escalated; context recorded from
		// prior rounds is untouched.
		current = prompt.FormatClarification(base)
	}

	reasoning := fallbackReasoning
	if lastRaw != "" {
		reasoning = "[unparseable response] " + lastRaw
		s.transcript.AppendTurn(current, lastRaw)
	}
	return game.Decision{Action: game.Defect, Reasoning: reasoning, Forced: true, Attempts: attempts}
}

// Reflect implements game.Session: a single higher-token-limit request with
// no retry for ambiguity, since free-form text is acceptable. Failure yields
// the sentinel placeholder.
func (s *Session) Reflect(ctx context.Context, req game.ReflectionRequest) string {
	p := prompt.FormatReflectionPrompt(
		req.Episode, req.History, req.MyScore, req.OppScore,
		s.cfg.RoundsPerEpisode, s.cfg.ReflectionMode, s.cfg.IncludeStatistics,
		s.opts.ReflectionTemplate,
	)

	raw, err := s.generate(ctx, p, s.cfg.ReflectionTokenLimit)
	if err != nil || strings.TrimSpace(raw) == "" {
		s.opts.Logger.Warn("reflection failed; using sentinel",
			"agent_id", s.id, "episode", req.Episode+1, "error", errString(err))
		return ReflectionFailureSentinel
	}

	s.transcript.AppendTurn(p, raw)
	return raw
}

// Reset implements game.Session.
func (s *Session) Reset(keepSystemPrompt bool) {
	s.transcript.Reset(keepSystemPrompt)
}

// AppendContext implements game.Session.
func (s *Session) AppendContext(text string) {
	s.transcript.AppendStanding(text)
}

// generate issues one bounded backend request with the full conversational
// context plus the in-flight prompt.
func (s *Session) generate(ctx context.Context, userPrompt string, maxTokens int) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, s.cfg.HTTPTimeout)
	defer cancel()

	messages := append(s.transcript.Messages(), model.Message{Role: "user", Text: userPrompt})

	start := time.Now()
	raw, err := s.backend.Generate(cctx, model.Request{
		System:      s.transcript.SystemPrompt(),
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: s.cfg.Temperature,
	})
	if bl, ok := s.opts.Logger.(backendCallLogger); ok {
		bl.LogBackendCall(s.backend.Info().Model, time.Since(start), err == nil, err)
	}
	return raw, err
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
