// Package agent implements the per-agent session: a conversational
// transcript buffer plus the bounded forced-decision retry ladder that turns
// an unreliable natural-language backend into exactly one valid action per
// round.
//
// Decision-layer failures never escape the session boundary. An ambiguous or
// failed response is retried with a clarifying prompt up to the configured
// budget; exhaustion degrades to a conservative DEFECT with the Forced flag
// set so the round engine can report the protocol violation loudly.
// Reflections are a single request with no retry; failure yields a sentinel
// placeholder.
package agent
