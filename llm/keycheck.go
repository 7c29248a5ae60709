package llm

import (
	"context"
	"errors"
	"fmt"
)

const pingMaxTokens = 5

// KeyCheck is the outcome of a live key test.
type KeyCheck struct {
	Valid  bool
	Reason string
}

// ValidateKeyWorks sends a tiny request with key. A 429 counts as valid
// because the key was accepted. baseURL may be empty for the production host.
func ValidateKeyWorks(ctx context.Context, kind ProviderKind, key, model, baseURL string) KeyCheck {
	if model == "" {
		model = kind.DefaultModel()
	}

	var err error
	switch kind {
	case ProviderZen, ProviderOpenAI:
		err = pingOpenAI(ctx, kind, key, model, baseURL)
	case ProviderClaude:
		err = pingAnthropic(ctx, key, model, baseURL)
	case ProviderGemini:
		_, err = NewGeminiProvider(key, model, baseURL).Chat(ctx, Request{
			Messages:  []ChatMessage{UserMessage("Hi")},
			MaxTokens: pingMaxTokens,
		})
	default:
		return KeyCheck{Reason: fmt.Sprintf("unknown provider kind: %q", kind)}
	}
	return keyCheckFromError(err)
}

func keyCheckFromError(err error) KeyCheck {
	if err == nil {
		return KeyCheck{Valid: true}
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status == 0 {
		return KeyCheck{Reason: fmt.Sprintf("Network error: %v", err)}
	}

	switch apiErr.Status {
	case 401:
		return KeyCheck{Reason: "API key rejected (401 Unauthorized)"}
	case 429:
		return KeyCheck{Valid: true}
	default:
		detail := apiErr.Body
		if detail == "" {
			detail = apiErr.Message
		}
		return KeyCheck{Reason: fmt.Sprintf("API test failed: %d %s", apiErr.Status, truncate(detail, 100))}
	}
}
