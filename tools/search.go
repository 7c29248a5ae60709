// Search Tool - Recursive file name search.
//
// Information Hiding:
// - File listing via ripgrep when installed, directory walk otherwise
// - Pattern compilation and literal fallback internalized
// - Output parsing abstracted

package tools

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// SearchTool lists files under a directory whose path matches a pattern.
type SearchTool struct {
	BaseTool
	rgPath string
}

// NewSearchTool creates a new search tool. rg is used for listing files
// when found on PATH.
func NewSearchTool() *SearchTool {
	path, _ := exec.LookPath("rg")
	return &SearchTool{rgPath: path}
}

// withoutRipgrep forces the directory walk.
func (t *SearchTool) withoutRipgrep() *SearchTool {
	t.rgPath = ""
	return t
}

// Metadata returns the tool metadata.
func (t *SearchTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "search",
		Description: "Recursively search for files whose path matches a pattern",
		Parameters: []ToolParameter{
			{Name: "pattern", ParamType: "string", Description: "Regular expression or literal text matched against file paths", Required: true},
			{Name: "path", ParamType: "string", Description: "Directory to search in (default: current directory)", Required: false},
		},
	}
}

// Validate validates the payload.
func (t *SearchTool) Validate(payload json.RawMessage) error {
	fields, err := decodePayload(payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(fields.nonEmpty("pattern")) == "" {
		return fmt.Errorf("pattern cannot be empty")
	}
	return nil
}

// Execute runs the search.
func (t *SearchTool) Execute(ctx context.Context, payload json.RawMessage) (any, error) {
	fields, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	pattern := fields.nonEmpty("pattern")
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = regexp.MustCompile(regexp.QuoteMeta(pattern))
	}

	dir := fields.nonEmpty("path")
	if dir == "" {
		dir = "."
	}

	files, err := t.listFiles(ctx, dir)
	if err != nil {
		return nil, err
	}

	matches := []string{}
	for _, f := range files {
		if re.MatchString(f) {
			matches = append(matches, f)
		}
	}
	sort.Strings(matches)
	return SearchResult{Matches: matches}, nil
}

func (t *SearchTool) listFiles(ctx context.Context, dir string) ([]string, error) {
	if t.rgPath != "" {
		return t.ripgrepFiles(ctx, dir)
	}
	return walkFiles(ctx, dir)
}

// ripgrepFiles lists files with rg --files, which honours ignore files.
func (t *SearchTool) ripgrepFiles(ctx context.Context, dir string) ([]string, error) {
	cmd := exec.CommandContext(ctx, t.rgPath, "--files", "--no-messages", "--color=never", dir)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			// rg exits 1 when it found no files
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute rg: %w", err)
	}

	var files []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			files = append(files, filepath.ToSlash(line))
		}
	}
	return files, scanner.Err()
}

func walkFiles(ctx context.Context, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if entry.IsDir() {
			if path != dir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", dir, err)
	}
	return files, nil
}
