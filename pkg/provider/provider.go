// Package provider exposes the external text-generation capability as a
// narrow, injectable interface. The gateway never talks to a model SDK
// directly; everything goes through Classify/Generate so orchestration stays
// provider-agnostic and unit-testable with a stub.
package provider

import "context"

// Provider is the opaque LLM capability: prompt in, text out. Both calls may
// block on network I/O and fail with *Error on quota, network or timeout
// issues; callers are expected to recover with safe defaults.
type Provider interface {
	// Classify returns the model's raw one-word intent guess for a user
	// message. Normalization into the closed intent set is the caller's job.
	Classify(ctx context.Context, text string) (string, error)
	// Generate returns the model's reply for a fully assembled prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
