// LLM Provider Factory - builder API for creating providers from a ProviderChoice.
//
// Quick Start:
//
//	// Provider default model
//	zen, err := llm.ProviderZen.APIKey(key)  // Uses grok-code
//
//	// With custom model and a test server
//	custom, err := llm.NewProviderBuilder(llm.ProviderClaude).
//	    Model(llm.ModelClaudeHaiku45).
//	    BaseURL(srv.URL).
//	    APIKey("sk-...")

package llm

import (
	"fmt"
	"strings"
)

// ProviderKind names an upstream provider family.
type ProviderKind string

const (
	// ProviderOpenAI is the OpenAI chat-completions API.
	ProviderOpenAI ProviderKind = "openai"
	// ProviderClaude is the Anthropic messages API.
	ProviderClaude ProviderKind = "claude"
	// ProviderZen is the OpenCode Zen gateway, which fronts several wire formats.
	ProviderZen ProviderKind = "zen"
	// ProviderGemini is the Google Gemini API through the genai SDK.
	ProviderGemini ProviderKind = "gemini"
)

// String returns the string representation of the provider kind.
func (k ProviderKind) String() string {
	return string(k)
}

// DefaultModel returns the default model for this provider.
func (k ProviderKind) DefaultModel() string {
	switch k {
	case ProviderZen:
		return ModelZenGrokCode
	case ProviderOpenAI:
		return ModelOpenAIGPT4o
	case ProviderClaude:
		return ModelClaudeSonnet45
	case ProviderGemini:
		return ModelGeminiFlash3
	default:
		return ""
	}
}

// ParseProviderKind parses a provider from string (case-insensitive).
func ParseProviderKind(s string) (ProviderKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai", "gpt":
		return ProviderOpenAI, nil
	case "claude", "anthropic":
		return ProviderClaude, nil
	case "zen", "opencode":
		return ProviderZen, nil
	case "gemini", "google":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown provider: %s", s)
	}
}

// APIKey creates a provider with an explicit API key and the default model.
func (k ProviderKind) APIKey(key string) (Provider, error) {
	return NewProviderBuilder(k).APIKey(key)
}

// ProviderChoice is the provider, credential and model selected for a session.
// It is chosen once and reused across iterations and follow-up goals.
type ProviderChoice struct {
	Kind  ProviderKind
	Key   string
	Label string
	Model string
}

// ResolvedModel returns the chosen model or the provider default.
func (c ProviderChoice) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	return c.Kind.DefaultModel()
}

// Provider builds the provider described by the choice.
func (c ProviderChoice) Provider() (Provider, error) {
	return NewProviderBuilder(c.Kind).Model(c.Model).APIKey(c.Key)
}

// ProviderBuilder is a builder for configuring LLM providers.
type ProviderBuilder struct {
	kind    ProviderKind
	model   string
	baseURL string
}

// NewProviderBuilder creates a new builder for the given provider.
func NewProviderBuilder(kind ProviderKind) *ProviderBuilder {
	return &ProviderBuilder{kind: kind}
}

// Model sets the model to use.
func (b *ProviderBuilder) Model(model string) *ProviderBuilder {
	b.model = model
	return b
}

// BaseURL points the provider at a different host, keeping the path routing.
func (b *ProviderBuilder) BaseURL(url string) *ProviderBuilder {
	b.baseURL = strings.TrimSuffix(url, "/")
	return b
}

// APIKey builds the provider with an explicit API key.
func (b *ProviderBuilder) APIKey(key string) (Provider, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%s: API key is empty", b.kind)
	}

	model := b.model
	if model == "" {
		model = b.kind.DefaultModel()
	}

	switch b.kind {
	case ProviderOpenAI, ProviderClaude, ProviderZen:
		return newHTTPProvider(b.kind, key, model, b.baseURL, nil), nil
	case ProviderGemini:
		return NewGeminiProvider(key, model, b.baseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider kind: %q", b.kind)
	}
}

// Model identifier constants for all supported providers.
const (
	ModelZenGrokCode    = "grok-code"
	ModelZenBigPickle   = "big-pickle"
	ModelZenMinimaxFree = "minimax-m2.1-free"
	ModelZenGLMFree     = "glm-4.7-free"
	ModelZenQwen3Coder  = "qwen3-coder"
	ModelOpenAIGPT5Nano = "gpt-5-nano"
	ModelOpenAIGPT4o    = "gpt-4o"
	ModelGeminiPro3     = "gemini-3-pro"
	ModelGeminiFlash3   = "gemini-3-flash"
	ModelClaudeSonnet45 = "claude-sonnet-4-5"
	ModelClaudeOpus45   = "claude-opus-4-5"
	ModelClaudeOpus41   = "claude-opus-4-1"
	ModelClaudeHaiku45  = "claude-haiku-4-5"
	ModelClaude35Haiku  = "claude-3-5-haiku"
)
