// LLMClient - wraps a provider with transient-failure retries.

package llm

import (
	"context"
)

// Client wraps a Provider with retry on transient failures.
type Client struct {
	provider Provider
	retry    RetryOptions
}

// NewClient creates a new LLM client from a provider with default retries.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider, retry: DefaultRetryOptions()}
}

// NewClientForChoice builds the provider for choice and wraps it.
func NewClientForChoice(choice ProviderChoice) (*Client, error) {
	provider, err := choice.Provider()
	if err != nil {
		return nil, err
	}
	return NewClient(provider), nil
}

// WithRetryOptions replaces the retry policy.
func (c *Client) WithRetryOptions(opts RetryOptions) *Client {
	c.retry = opts
	return c
}

// Chat sends req, retrying transient failures, and returns the normalized reply.
func (c *Client) Chat(ctx context.Context, req Request) (NormalizedResponse, error) {
	return WithRetry(ctx, func(ctx context.Context) (NormalizedResponse, error) {
		return c.provider.Chat(ctx, req)
	}, c.retry)
}
