// Package storage provides an optional write-only transcript of agent runs.
//
// Information Hiding:
// - Record shapes shared with the agent, backend hidden behind Transcript
// - The agent never reads a transcript back, so runs stay independent

package storage

import (
	"context"
	"time"
)

// RunRecord opens a run in the transcript.
type RunRecord struct {
	ID        string
	Goal      string
	Context   string
	Provider  string
	Model     string
	StartedAt time.Time
}

// TurnRecord is one planning reply.
type TurnRecord struct {
	RunID            string
	Iteration        int
	Reply            string
	PromptTokens     int
	CompletionTokens int
}

// ToolCallRecord is one dispatched plan item and its serialized result.
type ToolCallRecord struct {
	RunID     string
	Iteration int
	Position  int
	Tool      string
	Payload   string
	Result    string
	IsError   bool
}

// Transcript receives run events as they happen.
type Transcript interface {
	BeginRun(ctx context.Context, run RunRecord) error
	RecordTurn(ctx context.Context, turn TurnRecord) error
	RecordToolCall(ctx context.Context, call ToolCallRecord) error
	EndRun(ctx context.Context, runID string, outcome string, iterations int) error
}
