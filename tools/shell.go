// Command Execution Tools.
//
// Information Hiding:
// - Process spawning and output capture hidden
// - Shell versus direct exec distinction internalized
// - Exit status mapped into the result, not the error

package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ShellTool runs a command line through sh -c.
type ShellTool struct {
	BaseTool
}

// NewShellTool creates a new shell tool.
func NewShellTool() *ShellTool {
	return &ShellTool{}
}

// Metadata returns the tool metadata.
func (t *ShellTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "run_command",
		Aliases:     []string{"run_terminal_cmd"},
		Description: "Run a shell command line and return its stdout, stderr and exit code",
		Parameters: []ToolParameter{
			{Name: "command", ParamType: "string", Description: "The command line to run with sh -c", Required: true},
		},
	}
}

// Validate validates the payload.
func (t *ShellTool) Validate(payload json.RawMessage) error {
	_, err := commandFrom(payload)
	return err
}

// Execute runs the command line.
func (t *ShellTool) Execute(ctx context.Context, payload json.RawMessage) (any, error) {
	command, err := commandFrom(payload)
	if err != nil {
		return nil, err
	}
	return runProcess(ctx, exec.CommandContext(ctx, "sh", "-c", command))
}

// ExecTool runs a program directly. The command is split on whitespace and
// never passes through a shell, so quoting and pipes are not interpreted.
type ExecTool struct {
	BaseTool
}

// NewExecTool creates a new exec tool.
func NewExecTool() *ExecTool {
	return &ExecTool{}
}

// Metadata returns the tool metadata.
func (t *ExecTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "execute",
		Aliases:     []string{"run"},
		Description: "Run a program split on whitespace without a shell. Ends the run.",
		Parameters: []ToolParameter{
			{Name: "command", ParamType: "string", Description: "Program and arguments separated by spaces", Required: true},
		},
	}
}

// Validate validates the payload.
func (t *ExecTool) Validate(payload json.RawMessage) error {
	_, err := commandFrom(payload)
	return err
}

// Execute runs the program.
func (t *ExecTool) Execute(ctx context.Context, payload json.RawMessage) (any, error) {
	command, err := commandFrom(payload)
	if err != nil {
		return nil, err
	}

	argv := strings.Fields(command)
	return runProcess(ctx, exec.CommandContext(ctx, argv[0], argv[1:]...))
}

func commandFrom(payload json.RawMessage) (string, error) {
	fields, err := decodePayload(payload)
	if err != nil {
		return "", err
	}
	command := fields.nonEmpty("command")
	if strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("command cannot be empty")
	}
	return command, nil
}

// runProcess waits for cmd and captures both streams separately. A
// non-zero exit is part of the result. Cancellation of ctx is an error.
func runProcess(ctx context.Context, cmd *exec.Cmd) (CommandResult, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Output: stdout.String(),
		Error:  stderr.String(),
	}
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("command interrupted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, fmt.Errorf("failed to execute command: %w", err)
}
