package tools

import (
	"context"
	"encoding/json"
	"testing"
)

func runTool(t *testing.T, tool Tool, payload string) (any, error) {
	t.Helper()
	return tool.Execute(context.Background(), json.RawMessage(payload))
}

func TestShellToolCapturesStreams(t *testing.T) {
	got, err := runTool(t, NewShellTool(), `{"command":"echo out; echo err >&2"}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	res := got.(CommandResult)
	if res.Output != "out\n" || res.Error != "err\n" || res.ExitCode != 0 {
		t.Errorf("Execute() = %+v", res)
	}
}

func TestShellToolExitCodeIsResult(t *testing.T) {
	got, err := runTool(t, NewShellTool(), `{"command":"echo partial; exit 3"}`)
	if err != nil {
		t.Fatalf("non-zero exit returned error %v", err)
	}

	res := got.(CommandResult)
	if res.ExitCode != 3 || res.Output != "partial\n" {
		t.Errorf("Execute() = %+v, want exit 3 with output", res)
	}
}

func TestShellToolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewShellTool().Execute(ctx, json.RawMessage(`{"command":"sleep 5"}`))
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

func TestExecToolSplitsWithoutShell(t *testing.T) {
	got, err := runTool(t, NewExecTool(), `{"command":"echo  a   $HOME | b"}`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	res := got.(CommandResult)
	if res.Output != "a $HOME | b\n" {
		t.Errorf("Output = %q, want arguments passed literally", res.Output)
	}
}

func TestExecToolMissingProgram(t *testing.T) {
	if _, err := runTool(t, NewExecTool(), `{"command":"craft-no-such-binary --flag"}`); err == nil {
		t.Error("expected an error for a missing program")
	}
}

func TestCommandValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"command":"ls"}`, false},
		{"empty command", `{"command":""}`, true},
		{"blank command", `{"command":"   "}`, true},
		{"missing command", `{"cmd":"ls"}`, true},
		{"non-string command", `{"command":["ls"]}`, true},
		{"invalid json", `{invalid}`, true},
	}

	for _, tool := range []Tool{NewShellTool(), NewExecTool()} {
		for _, tt := range tests {
			t.Run(tool.Metadata().Name+"/"+tt.name, func(t *testing.T) {
				err := tool.Validate(json.RawMessage(tt.payload))
				if (err != nil) != tt.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	}
}
