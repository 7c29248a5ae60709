// SQLite transcript storage.
//
// Information Hiding:
// - SQLite connection management hidden behind Transcript
// - Schema details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteTranscript implements Transcript using SQLite.
type SqliteTranscript struct {
	db *sql.DB
}

// OpenSqlite opens or creates a transcript database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteTranscript, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	return newTranscript(db)
}

// NewSqliteInMemory creates an in-memory transcript (useful for testing).
func NewSqliteInMemory() (*SqliteTranscript, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}
	// each pooled connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	return newTranscript(db)
}

func newTranscript(db *sql.DB) (*SqliteTranscript, error) {
	t := &SqliteTranscript{db: db}
	if err := t.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return t, nil
}

// Close closes the database connection.
func (s *SqliteTranscript) Close() error {
	return s.db.Close()
}

func (s *SqliteTranscript) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			goal TEXT NOT NULL,
			context TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER,
			outcome TEXT,
			iterations INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			iteration INTEGER NOT NULL,
			reply TEXT NOT NULL,
			prompt_tokens INTEGER NOT NULL DEFAULT 0,
			completion_tokens INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
			UNIQUE(run_id, iteration)
		);

		CREATE TABLE IF NOT EXISTS tool_calls (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			iteration INTEGER NOT NULL,
			position INTEGER NOT NULL,
			tool TEXT NOT NULL,
			payload TEXT NOT NULL,
			result TEXT NOT NULL,
			is_error INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_tool_calls_run
		ON tool_calls(run_id, iteration, position);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// BeginRun inserts the run row.
func (s *SqliteTranscript) BeginRun(ctx context.Context, run RunRecord) error {
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, goal, context, provider, model, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Goal, run.Context, run.Provider, run.Model, startedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// RecordTurn stores one planning reply.
func (s *SqliteTranscript) RecordTurn(ctx context.Context, turn TurnRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (run_id, iteration, reply, prompt_tokens, completion_tokens)
		 VALUES (?, ?, ?, ?, ?)`,
		turn.RunID, turn.Iteration, turn.Reply, turn.PromptTokens, turn.CompletionTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// RecordToolCall stores one dispatched item.
func (s *SqliteTranscript) RecordToolCall(ctx context.Context, call ToolCallRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_calls (run_id, iteration, position, tool, payload, result, is_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		call.RunID, call.Iteration, call.Position, call.Tool, call.Payload, call.Result, call.IsError,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tool call: %w", err)
	}
	return nil
}

// EndRun marks the run finished.
func (s *SqliteTranscript) EndRun(ctx context.Context, runID string, outcome string, iterations int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = ?, outcome = ?, iterations = ? WHERE run_id = ?",
		time.Now().Unix(), outcome, iterations, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// RunSummary is a finished or in-flight run as stored.
type RunSummary struct {
	RunRecord
	Outcome    string
	Iterations int
	ToolCalls  []ToolCallRecord
}

// LoadRun reads a run and its tool calls for inspection.
func (s *SqliteTranscript) LoadRun(ctx context.Context, runID string) (*RunSummary, error) {
	var (
		summary   RunSummary
		startedAt int64
		outcome   sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, goal, context, provider, model, started_at, outcome, iterations
		 FROM runs WHERE run_id = ?`, runID,
	).Scan(&summary.ID, &summary.Goal, &summary.Context, &summary.Provider, &summary.Model,
		&startedAt, &outcome, &summary.Iterations)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	summary.StartedAt = time.Unix(startedAt, 0)
	summary.Outcome = outcome.String

	rows, err := s.db.QueryContext(ctx,
		`SELECT iteration, position, tool, payload, result, is_error
		 FROM tool_calls WHERE run_id = ? ORDER BY iteration, position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tool calls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		call := ToolCallRecord{RunID: runID}
		if err := rows.Scan(&call.Iteration, &call.Position, &call.Tool, &call.Payload, &call.Result, &call.IsError); err != nil {
			return nil, fmt.Errorf("failed to scan tool call: %w", err)
		}
		summary.ToolCalls = append(summary.ToolCalls, call)
	}
	return &summary, rows.Err()
}

// ListRuns returns run ids, newest first.
func (s *SqliteTranscript) ListRuns(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
