package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/richinex/craft/llm"
)

var settingsVars = []string{"CRAFT_MAX_ITERATIONS", "CRAFT_MAX_TOKENS", "CRAFT_TEMPERATURE", "DEFAULT_PROVIDER", "CRAFT_PRICING_FILE", "CRAFT_TRANSCRIPT"}

var credentialVars = []string{
	"API_KEY_OPENAI", "OPENAI_API_KEY",
	"API_KEY_CLAUDE", "ANTHROPIC_API_KEY",
	"API_KEY_ZEN",
	"API_KEY_GEMINI", "GEMINI_API_KEY",
}

// clearEnv empties vars for the duration of the test.
func clearEnv(t *testing.T, vars []string) {
	t.Helper()
	for _, v := range vars {
		t.Setenv(v, "")
	}
}

func TestNewDefaults(t *testing.T) {
	clearEnv(t, settingsVars)

	settings, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Agent.MaxIterations != 5 {
		t.Errorf("expected 5 iterations, got %d", settings.Agent.MaxIterations)
	}
	if settings.Agent.MaxTokens != 512 {
		t.Errorf("expected 512 max tokens, got %d", settings.Agent.MaxTokens)
	}
	if settings.Agent.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", settings.Agent.Temperature)
	}
	if settings.DefaultProvider != "" || settings.PricingFile != "" || settings.TranscriptPath != "" {
		t.Errorf("expected empty optional settings, got %+v", settings)
	}
}

func TestNewFromEnv(t *testing.T) {
	clearEnv(t, settingsVars)
	t.Setenv("CRAFT_MAX_ITERATIONS", "3")
	t.Setenv("CRAFT_MAX_TOKENS", "1024")
	t.Setenv("CRAFT_TEMPERATURE", "0")
	t.Setenv("DEFAULT_PROVIDER", " Claude ")
	t.Setenv("CRAFT_TRANSCRIPT", "/tmp/craft.db")

	settings, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Agent.MaxIterations != 3 || settings.Agent.MaxTokens != 1024 || settings.Agent.Temperature != 0 {
		t.Errorf("unexpected agent config: %+v", settings.Agent)
	}
	if settings.DefaultProvider != "claude" {
		t.Errorf("expected provider 'claude', got %q", settings.DefaultProvider)
	}
	if settings.TranscriptPath != "/tmp/craft.db" {
		t.Errorf("expected transcript path, got %q", settings.TranscriptPath)
	}
}

func TestNewInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric iterations", "CRAFT_MAX_ITERATIONS", "five"},
		{"zero iterations", "CRAFT_MAX_ITERATIONS", "0"},
		{"iterations above cap", "CRAFT_MAX_ITERATIONS", "50"},
		{"negative tokens", "CRAFT_MAX_TOKENS", "-1"},
		{"non-numeric temperature", "CRAFT_TEMPERATURE", "warm"},
		{"temperature out of range", "CRAFT_TEMPERATURE", "3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, settingsVars)
			t.Setenv(tt.key, tt.value)

			_, err := New()
			if err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestCredentialsOrderAndFallbacks(t *testing.T) {
	clearEnv(t, credentialVars)
	t.Setenv("API_KEY_ZEN", "zen-key-123456")
	t.Setenv("ANTHROPIC_API_KEY", "claude-fallback")
	t.Setenv("API_KEY_GEMINI", "gem-primary")
	t.Setenv("GEMINI_API_KEY", "gem-fallback")

	creds, err := Credentials()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		kind   llm.ProviderKind
		key    string
		envVar string
	}{
		{llm.ProviderClaude, "claude-fallback", "ANTHROPIC_API_KEY"},
		{llm.ProviderZen, "zen-key-123456", "API_KEY_ZEN"},
		{llm.ProviderGemini, "gem-primary", "API_KEY_GEMINI"},
	}
	if len(creds) != len(want) {
		t.Fatalf("expected %d credentials, got %+v", len(want), creds)
	}
	for i, w := range want {
		if creds[i].Kind != w.kind || creds[i].Key != w.key || creds[i].EnvVar != w.envVar {
			t.Errorf("credential %d = %+v, want %+v", i, creds[i], w)
		}
	}

	choice := creds[1].Choice()
	if choice.Kind != llm.ProviderZen || choice.Label != "Open Code Zen" || choice.Model != "" {
		t.Errorf("unexpected choice: %+v", choice)
	}
}

func TestCredentialsNone(t *testing.T) {
	clearEnv(t, credentialVars)
	t.Setenv("API_KEY_OPENAI", "   ")

	_, err := Credentials()
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}

func TestValidateZenKey(t *testing.T) {
	tests := []struct {
		key    string
		valid  bool
		reason string
	}{
		{"", false, "Key is empty"},
		{"   ", false, "Key is empty"},
		{"short", false, "Zen key appears too short"},
		{"  123456789  ", false, "Zen key appears too short"},
		{"sk-zen-0123456789", true, ""},
	}

	for _, tt := range tests {
		got := ValidateZenKey(tt.key)
		if got.Valid != tt.valid || got.Reason != tt.reason {
			t.Errorf("ValidateZenKey(%q) = %+v, want valid=%v reason=%q", tt.key, got, tt.valid, tt.reason)
		}
	}
}

func TestWriteEnvFileMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craft", ".env")

	if err := WriteEnvFile(path, map[string]string{"API_KEY_OPENAI": "sk-one"}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := WriteEnvFile(path, map[string]string{"API_KEY_ZEN": "zen-two"}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{`API_KEY_OPENAI="sk-one"`, `API_KEY_ZEN="zen-two"`} {
		if !strings.Contains(content, want) {
			t.Errorf("env file missing %s:\n%s", want, content)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected mode 0600, got %o", perm)
	}
}

func TestLoadEnvFilesEarlierWins(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "user.env")
	local := filepath.Join(dir, "local.env")
	if err := os.WriteFile(user, []byte("CRAFT_TEST_SHARED=user\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte("CRAFT_TEST_SHARED=local\nCRAFT_TEST_LOCAL=yes\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("CRAFT_TEST_SHARED")
		os.Unsetenv("CRAFT_TEST_LOCAL")
	})

	if err := loadEnvFiles(user, filepath.Join(dir, "missing.env"), local); err != nil {
		t.Fatalf("loadEnvFiles failed: %v", err)
	}
	if got := os.Getenv("CRAFT_TEST_SHARED"); got != "user" {
		t.Errorf("expected user file to win, got %q", got)
	}
	if got := os.Getenv("CRAFT_TEST_LOCAL"); got != "yes" {
		t.Errorf("expected local-only value, got %q", got)
	}
}
