// Endpoint routing - picks URL, auth headers and wire format per provider/model.
//
// Information Hiding:
// - Base URLs and path layout per provider
// - The Zen sub-router and its closed model lists
// - Auth header shapes (bearer vs x-api-key + version)

package llm

import (
	"net/http"
	"slices"
)

// Wire identifies the request/response dialect spoken at an endpoint.
type Wire int

const (
	// WireChatCompletions is the OpenAI-style chat-completions body.
	WireChatCompletions Wire = iota
	// WireMessages is the Anthropic-style messages body.
	WireMessages
	// WireResponses is the OpenAI responses body.
	WireResponses
	// WireGenerateContent is the Gemini generateContent body.
	WireGenerateContent
)

// String returns the wire name used in logs.
func (w Wire) String() string {
	switch w {
	case WireChatCompletions:
		return "chat_completions"
	case WireMessages:
		return "messages"
	case WireResponses:
		return "responses"
	case WireGenerateContent:
		return "generate_content"
	default:
		return "unknown"
	}
}

const (
	zenBaseURL       = "https://opencode.ai/zen/v1"
	openAIBaseURL    = "https://api.openai.com/v1"
	anthropicBaseURL = "https://api.anthropic.com/v1"

	anthropicVersion = "2023-06-01"
)

// Zen routes these closed model lists to non-chat endpoints.
var (
	zenClaudeModels    = []string{ModelClaudeSonnet45, ModelClaudeOpus45, ModelClaudeHaiku45, ModelClaude35Haiku}
	zenGeminiModels    = []string{ModelGeminiPro3, ModelGeminiFlash3}
	zenResponsesModels = []string{ModelOpenAIGPT5Nano}
)

// Endpoint is a resolved request target.
type Endpoint struct {
	URL  string
	Wire Wire
}

// DefaultBaseURL returns the production base URL for a provider kind.
func DefaultBaseURL(kind ProviderKind) string {
	switch kind {
	case ProviderZen:
		return zenBaseURL
	case ProviderOpenAI:
		return openAIBaseURL
	case ProviderClaude:
		return anthropicBaseURL
	default:
		return ""
	}
}

// ResolveEndpoint picks the URL and wire format for a provider/model pair.
// An empty baseURL selects the provider's production host.
func ResolveEndpoint(kind ProviderKind, model, baseURL string) Endpoint {
	if baseURL == "" {
		baseURL = DefaultBaseURL(kind)
	}

	switch kind {
	case ProviderZen:
		switch {
		case slices.Contains(zenClaudeModels, model):
			return Endpoint{URL: baseURL + "/messages", Wire: WireMessages}
		case slices.Contains(zenGeminiModels, model):
			return Endpoint{URL: baseURL + "/models/" + model, Wire: WireGenerateContent}
		case slices.Contains(zenResponsesModels, model):
			return Endpoint{URL: baseURL + "/responses", Wire: WireResponses}
		default:
			return Endpoint{URL: baseURL + "/chat/completions", Wire: WireChatCompletions}
		}
	case ProviderClaude:
		return Endpoint{URL: baseURL + "/messages", Wire: WireMessages}
	default:
		return Endpoint{URL: baseURL + "/chat/completions", Wire: WireChatCompletions}
	}
}

// setAuthHeaders applies the provider's credential header shape.
func setAuthHeaders(h http.Header, kind ProviderKind, key string) {
	h.Set("Content-Type", "application/json")
	switch kind {
	case ProviderClaude:
		h.Set("x-api-key", key)
		h.Set("anthropic-version", anthropicVersion)
	default:
		h.Set("Authorization", "Bearer "+key)
	}
}
