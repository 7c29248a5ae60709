// Glob tool for file discovery.
//
// Returns file paths matching a glob pattern without reading content.
// A pattern without a separator matches file names at any depth, the way
// find -name does. Patterns with ** match relative paths at any depth.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AbsoluteGlobMaxResults is the hard limit to prevent excessive memory.
const AbsoluteGlobMaxResults = 1000

// GlobTool finds files matching glob patterns under a root directory.
type GlobTool struct {
	maxResults int
	root       string
}

// NewGlobTool creates a new glob tool rooted at the working directory.
// If maxResults <= 0, AbsoluteGlobMaxResults is used.
func NewGlobTool(maxResults int) *GlobTool {
	if maxResults <= 0 {
		maxResults = AbsoluteGlobMaxResults
	}
	return &GlobTool{maxResults: maxResults, root: "."}
}

// WithRoot sets the directory searched.
func (t *GlobTool) WithRoot(root string) *GlobTool {
	t.root = root
	return t
}

// Metadata returns tool metadata.
func (t *GlobTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "glob",
		Description: "Find files matching a glob pattern. Returns file paths only. Hidden directories are skipped.",
		Parameters: []ToolParameter{
			{Name: "pattern", ParamType: "string", Description: "Glob pattern (e.g., '*.go', '**/*.ts', 'cmd/*/main.go')", Required: true},
		},
	}
}

// Validate validates the payload.
func (t *GlobTool) Validate(payload json.RawMessage) error {
	fields, err := decodePayload(payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(fields.nonEmpty("pattern")) == "" {
		return fmt.Errorf("pattern is required")
	}
	return nil
}

// Execute runs the glob search.
func (t *GlobTool) Execute(ctx context.Context, payload json.RawMessage) (any, error) {
	fields, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}
	pattern := strings.TrimPrefix(fields.nonEmpty("pattern"), "./")

	matches, err := t.findMatches(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return GlobResult{Files: matches}, nil
}

// findMatches walks the root and returns sorted relative paths. The result
// is never nil.
func (t *GlobTool) findMatches(ctx context.Context, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil && !strings.Contains(pattern, "**") {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}

	byName := !strings.Contains(filepath.ToSlash(pattern), "/")
	matches := []string{}

	err := filepath.WalkDir(t.root, func(path string, entry os.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path != t.root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(t.root, path)
		if err != nil {
			return nil
		}

		var ok bool
		if byName {
			ok = matchPattern(pattern, entry.Name())
		} else {
			ok = matchGlobPattern(relPath, pattern)
		}
		if ok {
			matches = append(matches, filepath.ToSlash(relPath))
			if len(matches) >= t.maxResults {
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

// matchGlobPattern matches a path against a glob pattern with ** support.
func matchGlobPattern(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	parts := strings.Split(pattern, "**")
	if len(parts) == 1 {
		return matchPattern(pattern, path)
	}

	// src/**/*.go: prefix before the first **, file pattern after the last
	prefix := strings.TrimSuffix(parts[0], "/")
	if prefix != "" && path != prefix && !strings.HasPrefix(path, prefix+"/") {
		return false
	}

	suffix := strings.TrimPrefix(parts[len(parts)-1], "/")
	if suffix == "" {
		return true
	}
	if strings.Contains(suffix, "/") {
		return strings.HasSuffix(path, suffix) || matchPattern("*/"+suffix, "/"+path)
	}
	return matchPattern(suffix, filepath.Base(path))
}

// matchPattern wraps filepath.Match, returning false on error.
func matchPattern(pattern, name string) bool {
	matched, err := filepath.Match(pattern, name)
	return err == nil && matched
}
