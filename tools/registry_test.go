package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

type recordingTool struct {
	BaseTool
	name    string
	aliases []string
	got     json.RawMessage
}

func (t *recordingTool) Metadata() ToolMetadata {
	return ToolMetadata{Name: t.name, Aliases: t.aliases, Description: "records its payload"}
}

func (t *recordingTool) Execute(ctx context.Context, payload json.RawMessage) (any, error) {
	t.got = payload
	return map[string]bool{"ok": true}, nil
}

func TestDefaultsResolveAliases(t *testing.T) {
	registry, err := WithDefaults()
	if err != nil {
		t.Fatalf("WithDefaults() error = %v", err)
	}

	tests := []struct {
		name      string
		canonical string
	}{
		{"run_command", "run_command"},
		{"run_terminal_cmd", "run_command"},
		{"execute", "execute"},
		{"run", "execute"},
		{"generate", "generate"},
		{"create_file", "generate"},
		{"write_file", "write_file"},
		{"edit_file", "edit_file"},
		{"read_file", "read_file"},
		{"read_file_from_disk", "read_file"},
		{"glob", "glob"},
		{"search", "search"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, ok := registry.Get(tt.name)
			if !ok {
				t.Fatalf("Get(%q) not found", tt.name)
			}
			if got := tool.Metadata().Name; got != tt.canonical {
				t.Errorf("Get(%q) = %q, want %q", tt.name, got, tt.canonical)
			}
		})
	}

	if got := len(registry.List()); got != 8 {
		t.Errorf("List() has %d tools, want 8", got)
	}
	if registry.Has("delete_everything") {
		t.Error("Has() reported an unregistered tool")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(&recordingTool{name: "a", aliases: []string{"b"}}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for _, tool := range []*recordingTool{
		{name: "a"},
		{name: "b"},
		{name: "c", aliases: []string{"a"}},
	} {
		if err := registry.Register(tool); err == nil {
			t.Errorf("Register(%s %v) succeeded, want duplicate error", tool.name, tool.aliases)
		}
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Dispatch(context.Background(), "nope", json.RawMessage(`{}`))
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("Dispatch() error = %v, want ErrUnknownTool", err)
	}
	if !strings.Contains(err.Error(), `"nope"`) {
		t.Errorf("error %q does not name the tool", err)
	}

	if _, err := registry.Dispatch(context.Background(), "", nil); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Dispatch(\"\") error = %v, want ErrUnknownTool", err)
	}
}

func TestDispatchPassesPayloadOnly(t *testing.T) {
	tool := &recordingTool{name: "rec", aliases: []string{"recorder"}}
	registry := NewRegistry()
	if err := registry.Register(tool); err != nil {
		t.Fatal(err)
	}

	payload := json.RawMessage(`{"path":"x"}`)
	if _, err := registry.Dispatch(context.Background(), "recorder", payload); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if string(tool.got) != `{"path":"x"}` {
		t.Errorf("handler got %s", tool.got)
	}
}

func TestDispatchValidationFailure(t *testing.T) {
	registry, err := WithDefaults()
	if err != nil {
		t.Fatal(err)
	}

	for _, payload := range []string{`{}`, `null`, `[1,2]`, `"ls"`} {
		if _, err := registry.Dispatch(context.Background(), "run_command", json.RawMessage(payload)); err == nil {
			t.Errorf("Dispatch(run_command, %s) succeeded, want validation error", payload)
		}
	}
}

func TestDescriptionListsAliases(t *testing.T) {
	registry, err := WithDefaults()
	if err != nil {
		t.Fatal(err)
	}

	desc := registry.Description()
	for _, want := range []string{"Tool: execute (aliases: run)", "Tool: generate (aliases: create_file)", "pattern (string)"} {
		if !strings.Contains(desc, want) {
			t.Errorf("Description() missing %q", want)
		}
	}
}
