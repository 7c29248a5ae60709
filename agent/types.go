// Package agent provides the goal-to-action planning loop.
//
// Contains the per-run scratchpad and the result types the loop records.
package agent

import (
	"encoding/json"
	"fmt"
)

// Step records one planning iteration.
type Step struct {
	Iteration int
	Reply     string
	Tools     []string
}

// Scratchpad is the working memory of one Run. It is never shared between
// runs, so a follow-up goal starts with empty results.
type Scratchpad struct {
	Task    string
	Steps   []Step
	Results []string
}

// NewScratchpad creates an empty scratchpad for task.
func NewScratchpad(task string) *Scratchpad {
	return &Scratchpad{
		Task:    task,
		Steps:   []Step{},
		Results: []string{},
	}
}

// AddResult serializes result and appends it to Results.
func (s *Scratchpad) AddResult(result any) string {
	data, err := json.Marshal(result)
	if err != nil {
		data = []byte(fmt.Sprintf("%q", fmt.Sprint(result)))
	}
	serialized := string(data)
	s.Results = append(s.Results, serialized)
	return serialized
}

// ErrorResult stands in for a tool result when dispatch fails.
type ErrorResult struct {
	Error   string `json:"error"`
	IsError bool   `json:"_isError"`
}

// NewErrorResult creates an ErrorResult carrying message.
func NewErrorResult(message string) ErrorResult {
	return ErrorResult{Error: message, IsError: true}
}

// Outcome says why a run ended.
type Outcome string

const (
	OutcomeTerminalTool  Outcome = "terminal_tool"
	OutcomeMaxIterations Outcome = "max_iterations"
	OutcomeChatError     Outcome = "chat_error"
	OutcomeCancelled     Outcome = "cancelled"
)
