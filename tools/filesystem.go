// Filesystem Tools - Generate, Write, Edit, Read operations.
//
// Information Hiding:
// - File I/O implementation details hidden
// - Path and content field aliases resolved per tool
// - Parent directory creation abstracted

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// GenerateTool creates a file with the given content. It is terminal: the
// agent stops after a turn that used it.
type GenerateTool struct {
	BaseTool
}

// NewGenerateTool creates a new generate tool.
func NewGenerateTool() *GenerateTool {
	return &GenerateTool{}
}

// Metadata returns the tool metadata.
func (t *GenerateTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "generate",
		Aliases:     []string{"create_file"},
		Description: "Create a file with the final content. Ends the run.",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Path of the file to create", Required: true},
			{Name: "content", ParamType: "string", Description: "Full file content", Required: true},
		},
	}
}

// Validate validates the payload.
func (t *GenerateTool) Validate(payload json.RawMessage) error {
	fields, err := decodePayload(payload)
	if err != nil {
		return err
	}
	if fields.nonEmpty("path") == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

// Execute writes the file.
func (t *GenerateTool) Execute(ctx context.Context, payload json.RawMessage) (any, error) {
	fields, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}
	content, _ := fields.lookup("content")
	return writeFile(fields.nonEmpty("path"), content)
}

// WriteFileTool writes content to a file, replacing what was there.
type WriteFileTool struct {
	BaseTool
}

// NewWriteFileTool creates a new write file tool.
func NewWriteFileTool() *WriteFileTool {
	return &WriteFileTool{}
}

// Metadata returns the tool metadata.
func (t *WriteFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "write_file",
		Description: "Write content to a file on the filesystem",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Path to the file to write (also filePath, file_path)", Required: true},
			{Name: "content", ParamType: "string", Description: "Content to write", Required: true},
		},
	}
}

var writePathKeys = []string{"path", "filePath", "file_path"}

// Validate validates the payload.
func (t *WriteFileTool) Validate(payload json.RawMessage) error {
	fields, err := decodePayload(payload)
	if err != nil {
		return err
	}
	if fields.nonEmpty(writePathKeys...) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

// Execute writes the file.
func (t *WriteFileTool) Execute(ctx context.Context, payload json.RawMessage) (any, error) {
	fields, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}
	content, _ := fields.lookup("content")
	return writeFile(fields.nonEmpty(writePathKeys...), content)
}

// writeFile creates parent directories then writes content to path.
func writeFile(path, content string) (FileResult, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return FileResult{}, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return FileResult{}, fmt.Errorf("failed to write file: %w", err)
	}
	return FileResult{Success: true, Path: path}, nil
}

// EditFileTool replaces the first occurrence of a string in a file, or
// overwrites the file when only content is given. Missing inputs are reported
// in the result rather than as errors.
type EditFileTool struct {
	BaseTool
	logger *slog.Logger
}

// NewEditFileTool creates a new edit file tool.
func NewEditFileTool() *EditFileTool {
	return &EditFileTool{logger: slog.Default()}
}

// WithLogger sets the logger used for change diffs.
func (t *EditFileTool) WithLogger(logger *slog.Logger) *EditFileTool {
	t.logger = logger
	return t
}

// Metadata returns the tool metadata.
func (t *EditFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "edit_file",
		Description: "Edit a file by replacing the first occurrence of oldString with newString, or overwrite it with content",
		Parameters: []ToolParameter{
			{Name: "filePath", ParamType: "string", Description: "Path to the file to edit (also file_path, path)", Required: true},
			{Name: "oldString", ParamType: "string", Description: "String to replace (also old_string)", Required: false},
			{Name: "newString", ParamType: "string", Description: "Replacement string (also new_string)", Required: false},
			{Name: "content", ParamType: "string", Description: "Full replacement content when newString is absent", Required: false},
		},
	}
}

// Execute performs the edit.
func (t *EditFileTool) Execute(ctx context.Context, payload json.RawMessage) (any, error) {
	fields, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	path := fields.nonEmpty("filePath", "file_path", "path")
	if path == "" {
		return FileResult{Success: false, Error: "no file path provided"}, nil
	}

	before, readErr := os.ReadFile(path)

	var updated string
	if newString, ok := fields.lookup("newString", "new_string"); ok {
		if readErr != nil {
			return nil, fmt.Errorf("failed to read file: %w", readErr)
		}
		oldString, _ := fields.lookup("oldString", "old_string")
		updated = strings.Replace(string(before), oldString, newString, 1)
	} else if content, ok := fields.lookup("content"); ok {
		updated = content
	} else {
		return FileResult{Success: false, Error: "no content provided"}, nil
	}

	result, err := writeFile(path, updated)
	if err != nil {
		return nil, err
	}

	t.logDiff(path, string(before), updated)
	return result, nil
}

func (t *EditFileTool) logDiff(path, before, after string) {
	if t.logger == nil || !t.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path,
		Context:  2,
	})
	if err != nil {
		return
	}
	t.logger.Debug("edit_file applied", "path", path, "diff", diff)
}

// ReadFileTool reads file contents.
type ReadFileTool struct {
	BaseTool
	maxSizeBytes int64
}

// NewReadFileTool creates a new read file tool.
func NewReadFileTool(maxSizeBytes int64) *ReadFileTool {
	return &ReadFileTool{
		maxSizeBytes: maxSizeBytes,
	}
}

// Metadata returns the tool metadata.
func (t *ReadFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "read_file",
		Aliases:     []string{"read_file_from_disk"},
		Description: "Read the contents of a file from the filesystem",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Path to the file to read", Required: true},
		},
	}
}

// Validate validates the payload.
func (t *ReadFileTool) Validate(payload json.RawMessage) error {
	fields, err := decodePayload(payload)
	if err != nil {
		return err
	}
	if fields.nonEmpty("path") == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

// Execute reads the file.
func (t *ReadFileTool) Execute(ctx context.Context, payload json.RawMessage) (any, error) {
	fields, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}
	path := fields.nonEmpty("path")

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file metadata: %w", err)
	}
	if t.maxSizeBytes > 0 && info.Size() > t.maxSizeBytes {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), t.maxSizeBytes)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ReadResult{Content: string(content)}, nil
}
