// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - Endpoint routing and authentication
// - Request body shape per wire format
// - Status-code and transport error mapping
// - Response normalization

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing
// a consistent interface for chat completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the model used when a Request leaves Model empty.
	Model() string

	// Chat sends one chat request and normalizes the reply.
	// Failures are *APIError values carrying an ErrorKind.
	Chat(ctx context.Context, req Request) (NormalizedResponse, error)
}
