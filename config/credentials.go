package config

import (
	"errors"
	"os"
	"strings"

	"github.com/richinex/craft/llm"
)

// ErrNoCredentials means no provider key was found in the environment.
var ErrNoCredentials = errors.New("no usable LLM keys found")

// Credential is a provider key found in the environment.
type Credential struct {
	Kind   llm.ProviderKind
	Key    string
	Label  string
	EnvVar string
}

// Choice converts the credential into a provider choice with no model set.
func (c Credential) Choice() llm.ProviderChoice {
	return llm.ProviderChoice{Kind: c.Kind, Key: c.Key, Label: c.Label}
}

// credentialSources lists providers in detection order. The first env var
// holding a value wins for each provider.
var credentialSources = []struct {
	kind  llm.ProviderKind
	label string
	vars  []string
}{
	{llm.ProviderOpenAI, "OpenAI", []string{"API_KEY_OPENAI", "OPENAI_API_KEY"}},
	{llm.ProviderClaude, "Anthropic", []string{"API_KEY_CLAUDE", "ANTHROPIC_API_KEY"}},
	{llm.ProviderZen, "Open Code Zen", []string{"API_KEY_ZEN"}},
	{llm.ProviderGemini, "Google Gemini", []string{"API_KEY_GEMINI", "GEMINI_API_KEY"}},
}

// Credentials returns the providers with a key set, in detection order.
// It returns ErrNoCredentials when none is set.
func Credentials() ([]Credential, error) {
	var found []Credential
	for _, src := range credentialSources {
		for _, name := range src.vars {
			if key := strings.TrimSpace(os.Getenv(name)); key != "" {
				found = append(found, Credential{Kind: src.kind, Key: key, Label: src.label, EnvVar: name})
				break
			}
		}
	}
	if len(found) == 0 {
		return nil, ErrNoCredentials
	}
	return found, nil
}

// ValidateZenKey checks the shape of a Zen key before any network call.
func ValidateZenKey(key string) llm.KeyCheck {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return llm.KeyCheck{Reason: "Key is empty"}
	}
	if len(trimmed) < 10 {
		return llm.KeyCheck{Reason: "Zen key appears too short"}
	}
	return llm.KeyCheck{Valid: true}
}
