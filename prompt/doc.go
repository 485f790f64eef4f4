// Package prompt renders the prompts the agent sessions send to their model
// backends and maps raw response text back to game actions.
//
// Everything here is a pure function of round/episode state: the decision
// prompt with its bounded history window, the clarifying retry variant, the
// reflection prompt in its minimal/standard/detailed forms, and
// ExtractDecision. File loaders for an external system prompt and reflection
// template fall back to the built-in defaults when the files are absent.
package prompt
