package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Message is a single turn of the conversational context sent to a backend.
type Message struct {
	// Role is one of "system", "user" or "assistant".
	Role string `json:"role"`
	// Text is the plain message text.
	Text string `json:"text"`
}

// Request captures one normalized generation request. The session rebuilds
// the full conversational context for every request, so backends are
// stateless.
type Request struct {
	// System is the standing system instruction, empty when cleared.
	System string
	// Messages is the ordered conversational context ending with the
	// in-flight user prompt.
	Messages []Message
	// MaxTokens caps the response length.
	MaxTokens int
	// Temperature is the sampling temperature.
	Temperature float64
}

// Info contains metadata about a backend implementation.
type Info struct {
	// Model is the model identifier as the backend reports it.
	Model string `json:"model"`
	// Host identifies the serving host.
	Host string `json:"host"`
	// Provider names the adapter ("openai", "anthropic", "scripted").
	Provider string `json:"provider"`
}

// Backend is the minimal interface an agent session needs to drive
// generation. Generate blocks until the backend answers or ctx expires; an
// error (including a deadline) is treated by the session as a backend
// failure in its retry ladder.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)

	// Info returns information about the backend implementation.
	Info() Info
}

// ErrScriptExhausted is returned by a ScriptedBackend once every scripted
// response has been consumed.
var ErrScriptExhausted = errors.New("scripted backend: no responses left")

// scriptStep is one canned reply: either text or an injected error.
type scriptStep struct {
	text string
	err  error
}

// ScriptedBackend is a deterministic in-memory Backend for tests and
// examples. It replays a fixed sequence of responses and records every
// request it receives.
type ScriptedBackend struct {
	mu       sync.Mutex
	info     Info
	script   []scriptStep
	next     int
	requests []Request
}

// NewScriptedBackend constructs a backend replaying the given responses in
// order.
func NewScriptedBackend(name string, responses ...string) *ScriptedBackend {
	s := &ScriptedBackend{info: Info{Model: name, Host: "local", Provider: "scripted"}}
	s.Append(responses...)
	return s
}

// Append adds further scripted responses.
func (s *ScriptedBackend) Append(responses ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range responses {
		s.script = append(s.script, scriptStep{text: r})
	}
}

// AppendError queues a transport error at the end of the script.
func (s *ScriptedBackend) AppendError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, scriptStep{err: err})
}

// Generate implements Backend; it replays the next scripted response.
func (s *ScriptedBackend) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.next >= len(s.script) {
		return "", fmt.Errorf("%w (served %d)", ErrScriptExhausted, s.next)
	}
	step := s.script[s.next]
	s.next++
	return step.text, step.err
}

// Info implements Backend.
func (s *ScriptedBackend) Info() Info { return s.info }

// Calls returns how many requests the backend has served.
func (s *ScriptedBackend) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of every recorded request.
func (s *ScriptedBackend) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or a zero Request when none
// has been served yet.
func (s *ScriptedBackend) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}
