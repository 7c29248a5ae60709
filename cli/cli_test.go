package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/richinex/craft/agent"
	"github.com/richinex/craft/config"
	"github.com/richinex/craft/llm"
	"github.com/richinex/craft/tools"
)

var envVars = []string{
	"API_KEY_OPENAI", "OPENAI_API_KEY",
	"API_KEY_CLAUDE", "ANTHROPIC_API_KEY",
	"API_KEY_ZEN",
	"API_KEY_GEMINI", "GEMINI_API_KEY",
	"CRAFT_MAX_ITERATIONS", "CRAFT_MAX_TOKENS", "CRAFT_TEMPERATURE",
	"DEFAULT_PROVIDER", "CRAFT_PRICING_FILE", "CRAFT_TRANSCRIPT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

// fakeChatter replies with the same text every turn.
type fakeChatter struct {
	reply    string
	err      error
	requests []llm.Request
}

func (c *fakeChatter) Chat(ctx context.Context, req llm.Request) (llm.NormalizedResponse, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return llm.NormalizedResponse{}, c.err
	}
	return llm.NormalizedResponse{Content: c.reply}, nil
}

func newTestRunner(t *testing.T, input string, chatter *fakeChatter, choices *[]llm.ProviderChoice) (*Runner, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	r, err := NewRunner(Options{
		In:     strings.NewReader(input),
		Out:    &out,
		Logger: NewLogger(&bytes.Buffer{}, false),
		ClientFactory: func(choice llm.ProviderChoice) (agent.Chatter, error) {
			if choices != nil {
				*choices = append(*choices, choice)
			}
			return chatter, nil
		},
		ListModels: func(ctx context.Context, key string) []string {
			return []string{"grok-code", "big-pickle"}
		},
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r, &out
}

func generateReply(path, content string) string {
	return "```json\n[{\"tool\":\"generate\",\"payload\":{\"path\":" + strconv.Quote(path) +
		",\"content\":" + strconv.Quote(content) + "}}]\n```"
}

func TestLineReader(t *testing.T) {
	var out bytes.Buffer
	r := NewLineReader(strings.NewReader("  first goal  \nsecond\n"), &out)

	if r.Interactive() {
		t.Fatal("a strings.Reader is not a terminal")
	}
	if got := r.ReadLine("> "); got != "first goal" {
		t.Errorf("expected trimmed line, got %q", got)
	}
	if got := r.ReadSecret("key: "); got != "second" {
		t.Errorf("expected second line, got %q", got)
	}
	if got := r.ReadLine("> "); got != "" {
		t.Errorf("expected empty string at EOF, got %q", got)
	}
	if out.Len() != 0 {
		t.Errorf("prompts printed for piped input: %q", out.String())
	}
}

func TestPickProvider(t *testing.T) {
	openai := config.Credential{Kind: llm.ProviderOpenAI, Key: "sk-o", Label: "OpenAI", EnvVar: "API_KEY_OPENAI"}
	claude := config.Credential{Kind: llm.ProviderClaude, Key: "sk-c", Label: "Anthropic", EnvVar: "API_KEY_CLAUDE"}
	zen := config.Credential{Kind: llm.ProviderZen, Key: "zen-key-0123", Label: "Open Code Zen", EnvVar: "API_KEY_ZEN"}
	models := func(ctx context.Context, key string) []string {
		return []string{"big-pickle", "grok-code", "glm-4.7-free"}
	}

	tests := []struct {
		name            string
		creds           []config.Credential
		defaultProvider string
		input           string
		wantKind        llm.ProviderKind
		wantModel       string
		wantOutput      []string
	}{
		{
			name:       "single key",
			creds:      []config.Credential{claude},
			wantKind:   llm.ProviderClaude,
			wantOutput: []string{"Detected LLM keys:\n  1. Anthropic\n", "Using Anthropic\n"},
		},
		{
			name:       "single zen key selects model",
			creds:      []config.Credential{zen},
			input:      "2\n",
			wantKind:   llm.ProviderZen,
			wantModel:  "grok-code",
			wantOutput: []string{"Available Zen models (free):\n  1. big-pickle\n  2. grok-code\n  3. glm-4.7-free\n", "Select model (1-3): ", "Using Open Code Zen\n"},
		},
		{
			name:      "zen selection out of range keeps first",
			creds:     []config.Credential{zen},
			input:     "9\n",
			wantKind:  llm.ProviderZen,
			wantModel: "big-pickle",
		},
		{
			name:      "zen empty input keeps first",
			creds:     []config.Credential{zen},
			wantKind:  llm.ProviderZen,
			wantModel: "big-pickle",
		},
		{
			name:            "several keys with default",
			creds:           []config.Credential{openai, claude, zen},
			defaultProvider: "zen",
			wantKind:        llm.ProviderZen,
			wantOutput:      []string{"  3. Open Code Zen\n", "Using Open Code Zen (from DEFAULT_PROVIDER)\n"},
		},
		{
			name:            "several keys with provider alias default",
			creds:           []config.Credential{openai, claude, zen},
			defaultProvider: "anthropic",
			wantKind:        llm.ProviderClaude,
			wantOutput:      []string{"Using Anthropic (from DEFAULT_PROVIDER)\n"},
		},
		{
			name:            "several keys with unmatched default",
			creds:           []config.Credential{openai, claude},
			defaultProvider: "gemini",
			wantKind:        llm.ProviderOpenAI,
			wantOutput:      []string{"Using OpenAI\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			reader := NewLineReader(strings.NewReader(tt.input), &out)

			choice, err := PickProvider(context.Background(), tt.creds, tt.defaultProvider, reader, &out, models)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if choice.Kind != tt.wantKind || choice.Model != tt.wantModel {
				t.Errorf("got %s/%q, want %s/%q", choice.Kind, choice.Model, tt.wantKind, tt.wantModel)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestPickProviderNoCredentials(t *testing.T) {
	var out bytes.Buffer
	_, err := PickProvider(context.Background(), nil, "", NewLineReader(strings.NewReader(""), &out), &out, nil)
	if !errors.Is(err, config.ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}

func TestRunAgentPicksProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY_OPENAI", "sk-test")

	target := filepath.Join(t.TempDir(), "out", "hello.txt")
	chatter := &fakeChatter{reply: generateReply(target, "hi")}
	var choices []llm.ProviderChoice
	r, out := newTestRunner(t, "", chatter, &choices)

	choice, err := r.RunAgent(context.Background(), "write hello", "", nil)
	if err != nil {
		t.Fatalf("RunAgent failed: %v", err)
	}
	if choice.Kind != llm.ProviderOpenAI || choice.Key != "sk-test" {
		t.Errorf("unexpected choice: %+v", choice)
	}
	if len(choices) != 1 || len(chatter.requests) != 1 {
		t.Errorf("expected one client and one request, got %d and %d", len(choices), len(chatter.requests))
	}
	if chatter.requests[0].Model != "gpt-4o" {
		t.Errorf("expected default openai model, got %q", chatter.requests[0].Model)
	}

	data, err := os.ReadFile(target)
	if err != nil || string(data) != "hi" {
		t.Errorf("generate did not write the file: %q, %v", data, err)
	}
	if !strings.Contains(out.String(), "Using OpenAI") {
		t.Errorf("picker output missing:\n%s", out.String())
	}
}

func TestRunAgentNoCredentials(t *testing.T) {
	clearEnv(t)
	r, out := newTestRunner(t, "", &fakeChatter{}, nil)

	_, err := r.RunAgent(context.Background(), "anything", "", nil)
	if !errors.Is(err, config.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
	if !strings.Contains(out.String(), "Run craft setup to configure") {
		t.Errorf("hint not printed:\n%s", out.String())
	}
}

func TestRunAgentEmptyGoal(t *testing.T) {
	clearEnv(t)
	r, _ := newTestRunner(t, "", &fakeChatter{}, nil)

	if _, err := r.RunAgent(context.Background(), "   ", "", nil); err == nil {
		t.Error("expected error for empty goal")
	}
}

func TestChatReusesChoice(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chatter := &fakeChatter{reply: generateReply(filepath.Join(dir, "f.txt"), "x")}
	var choices []llm.ProviderChoice
	r, out := newTestRunner(t, "first goal\nsecond goal\n\nnever run\n", chatter, &choices)

	choice := llm.ProviderChoice{Kind: llm.ProviderZen, Key: "zen-key-0123", Label: "Open Code Zen", Model: "big-pickle"}
	if err := r.Chat(context.Background(), "", &choice); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if len(choices) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(choices))
	}
	for _, c := range choices {
		if c != choice {
			t.Errorf("choice not reused: %+v", c)
		}
	}
	if strings.Contains(chatter.requests[1].Messages[0].Content, "first goal") {
		t.Error("second run saw the first goal")
	}
	if strings.Count(out.String(), "=== Done:") != 2 {
		t.Errorf("expected two run summaries:\n%s", out.String())
	}
}

func TestChatContinuesAfterError(t *testing.T) {
	clearEnv(t)
	chatter := &fakeChatter{err: errors.New("API error: 500 boom (zen): ")}
	r, out := newTestRunner(t, "one\ntwo\n", chatter, nil)

	choice := llm.ProviderChoice{Kind: llm.ProviderZen, Key: "k"}
	if err := r.Chat(context.Background(), "", &choice); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if len(chatter.requests) != 2 {
		t.Errorf("expected both goals attempted, got %d requests", len(chatter.requests))
	}
	if strings.Count(out.String(), "Error: iteration 1:") != 2 {
		t.Errorf("expected two reported errors:\n%s", out.String())
	}
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		ping    KeyPinger
		wantErr string
		saved   bool
	}{
		{
			name:  "valid key saved",
			input: "zen-key-0123456789\n",
			ping: func(ctx context.Context, kind llm.ProviderKind, key string) llm.KeyCheck {
				return llm.KeyCheck{Valid: true}
			},
			saved: true,
		},
		{
			name:  "ping skipped",
			input: "zen-key-0123456789\n",
			saved: true,
		},
		{
			name:    "short key",
			input:   "short\n",
			wantErr: "Zen key appears too short",
		},
		{
			name:    "empty input",
			wantErr: "Key is empty",
		},
		{
			name:  "rejected by provider",
			input: "zen-key-0123456789\n",
			ping: func(ctx context.Context, kind llm.ProviderKind, key string) llm.KeyCheck {
				return llm.KeyCheck{Reason: "API key rejected (401 Unauthorized)"}
			},
			wantErr: "401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HOME", home)

			var out bytes.Buffer
			err := Setup(context.Background(), SetupOptions{
				Reader: NewLineReader(strings.NewReader(tt.input), &out),
				Out:    &out,
				Ping:   tt.ping,
			})

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			path := filepath.Join(home, ".config", "craft", ".env")
			data, readErr := os.ReadFile(path)
			if !tt.saved {
				if readErr == nil {
					t.Errorf("env file written on failure: %s", data)
				}
				return
			}
			if readErr != nil {
				t.Fatalf("env file not written: %v", readErr)
			}
			if !strings.Contains(string(data), `API_KEY_ZEN="zen-key-0123456789"`) {
				t.Errorf("unexpected env file:\n%s", data)
			}
			if !strings.Contains(out.String(), "Saved to "+path) {
				t.Errorf("missing saved line:\n%s", out.String())
			}
		})
	}
}

func TestListTools(t *testing.T) {
	registry, err := tools.WithDefaults()
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	ListTools(&out, registry, true)

	for _, want := range []string{
		"  generate (create_file)\n",
		"  execute (run)\n",
		"  run_command (run_terminal_cmd)\n",
		"      command*: string - ",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("tool listing missing %q:\n%s", want, out.String())
		}
	}
}

func TestListModels(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY_ZEN", "zen-key-0123")
	r, out := newTestRunner(t, "", &fakeChatter{}, nil)

	r.ListModels(context.Background())

	got := out.String()
	for _, want := range []string{"Known models:", "big-pickle", "free", "claude-opus-4-1", "$15.00 in / $75.00 out", "Available Zen models (free):\n  1. grok-code\n  2. big-pickle\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("model listing missing %q:\n%s", want, got)
		}
	}
}

func TestHistory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("CRAFT_TRANSCRIPT", filepath.Join(dir, "runs.db"))

	chatter := &fakeChatter{reply: generateReply(filepath.Join(dir, "a.txt"), "a")}
	r, out := newTestRunner(t, "", chatter, nil)

	choice := llm.ProviderChoice{Kind: llm.ProviderZen, Key: "k", Model: "grok-code"}
	if _, err := r.RunAgent(context.Background(), "make a file", "", &choice); err != nil {
		t.Fatalf("RunAgent failed: %v", err)
	}

	out.Reset()
	if err := r.History(context.Background(), 10); err != nil {
		t.Fatalf("History failed: %v", err)
	}
	for _, want := range []string{"zen/grok-code", "terminal_tool after 1 iteration(s)", "Goal: make a file", "[1.1] generate"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("history missing %q:\n%s", want, out.String())
		}
	}
}

func TestHistoryWithoutTranscript(t *testing.T) {
	clearEnv(t)
	r, _ := newTestRunner(t, "", &fakeChatter{}, nil)

	if err := r.History(context.Background(), 10); err == nil {
		t.Error("expected error without a transcript")
	}
}
