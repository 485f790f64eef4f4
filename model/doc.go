// Package model defines the backend interface the agent sessions consume
// and a deterministic ScriptedBackend for tests and examples.
//
// Concrete adapters live in the subpackages:
//
//   - model/openai: any OpenAI-compatible chat completion endpoint,
//     including Ollama's /v1 surface on a per-agent host
//   - model/anthropic: the Anthropic Messages API
//
// Backends are stateless: the session resends its full conversational
// context with every request, so an adapter only has to translate one
// Request into one provider call.
package model
