// Goal-to-action planning loop.
//
// Each iteration asks the model for a short JSON plan, runs every planned
// tool through the registry and feeds the serialized results into the next
// prompt. A terminal tool or the iteration budget ends the run.
//
// Information Hiding:
// - Prompt construction and plan parsing hidden
// - Tool failures absorbed into classified error results
// - Progress output and transcript recording internalized

package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/richinex/craft/llm"
	"github.com/richinex/craft/plan"
	"github.com/richinex/craft/storage"
	"github.com/richinex/craft/tools"
)

// terminalTools end the run after the iteration that used them.
var terminalTools = map[string]bool{
	"generate": true,
	"execute":  true,
}

// Chatter sends one planning request.
type Chatter interface {
	Chat(ctx context.Context, req llm.Request) (llm.NormalizedResponse, error)
}

// ClientFactory builds the chat client for a provider choice.
type ClientFactory func(choice llm.ProviderChoice) (Chatter, error)

// DefaultClientFactory builds a retrying llm.Client.
func DefaultClientFactory(choice llm.ProviderChoice) (Chatter, error) {
	return llm.NewClientForChoice(choice)
}

// Agent runs goals against a tool registry.
type Agent struct {
	config     Config
	newClient  ClientFactory
	registry   *tools.Registry
	pricing    *llm.PricingTable
	out        io.Writer
	logger     *slog.Logger
	transcript storage.Transcript
}

// Result describes a finished run.
type Result struct {
	RunID      string
	Outcome    Outcome
	Iterations int
	Scratchpad *Scratchpad
}

// Run pursues goal with the given provider and returns the choice used so a
// caller can reuse it for a follow-up goal. Chat failures end the run with an
// error; tool failures never do.
func (a *Agent) Run(ctx context.Context, goal, contextText string, choice llm.ProviderChoice) (llm.ProviderChoice, error) {
	_, err := a.RunDetailed(ctx, goal, contextText, choice)
	return choice, err
}

// RunDetailed is Run returning the scratchpad and outcome.
func (a *Agent) RunDetailed(ctx context.Context, goal, contextText string, choice llm.ProviderChoice) (*Result, error) {
	client, err := a.newClient(choice)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", choice.Kind, err)
	}

	model := choice.ResolvedModel()
	result := &Result{
		RunID:      uuid.NewString(),
		Outcome:    OutcomeMaxIterations,
		Scratchpad: NewScratchpad(goal),
	}
	logger := a.logger.With("run_id", result.RunID)
	logger.Debug("run started", "provider", choice.Kind, "model", model)

	a.record(logger, "begin run", func() error {
		return a.transcript.BeginRun(ctx, storage.RunRecord{
			ID:        result.RunID,
			Goal:      goal,
			Context:   contextText,
			Provider:  choice.Kind.String(),
			Model:     model,
			StartedAt: time.Now(),
		})
	})

	runErr := a.loop(ctx, client, model, contextText, result, logger)

	a.record(logger, "end run", func() error {
		// the run context may already be cancelled
		return a.transcript.EndRun(context.WithoutCancel(ctx), result.RunID, string(result.Outcome), result.Iterations)
	})
	a.printSummary(result)
	logger.Debug("run finished", "outcome", result.Outcome, "iterations", result.Iterations)

	return result, runErr
}

func (a *Agent) loop(ctx context.Context, client Chatter, model, contextText string, result *Result, logger *slog.Logger) error {
	pad := result.Scratchpad
	toolDescription := a.registry.Description()

	for iteration := 1; iteration <= a.config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			result.Outcome = OutcomeCancelled
			return err
		}
		result.Iterations = iteration
		fmt.Fprintf(a.out, "\n=== Iteration %d/%d ===\n", iteration, a.config.MaxIterations)

		resp, err := client.Chat(ctx, llm.Request{
			Model:       model,
			Messages:    []llm.ChatMessage{llm.UserMessage(BuildPrompt(pad.Task, contextText, pad.Results, toolDescription))},
			MaxTokens:   a.config.MaxTokens,
			Temperature: a.config.Temperature,
		})
		if err != nil {
			result.Outcome = OutcomeChatError
			if errors.Is(err, context.Canceled) {
				result.Outcome = OutcomeCancelled
			}
			return fmt.Errorf("iteration %d: %w", iteration, err)
		}

		fmt.Fprintf(a.out, "%s\n", resp.Content)
		a.reportUsage(model, resp.Usage)
		a.recordTurn(ctx, logger, result.RunID, iteration, resp)

		p := plan.Parse(resp.Content)
		pad.Steps = append(pad.Steps, Step{Iteration: iteration, Reply: resp.Content, Tools: p.Tools()})
		if len(p) == 0 {
			fmt.Fprintln(a.out, "No tool calls in reply.")
			continue
		}

		stop := false
		for position, item := range p {
			fmt.Fprintf(a.out, "[%s] %s\n", item.Tool, item.Payload)

			out, isError := a.dispatch(ctx, logger, item)
			serialized := pad.AddResult(out)
			a.record(logger, "record tool call", func() error {
				return a.transcript.RecordToolCall(ctx, storage.ToolCallRecord{
					RunID:     result.RunID,
					Iteration: iteration,
					Position:  position,
					Tool:      item.Tool,
					Payload:   string(item.Payload),
					Result:    serialized,
					IsError:   isError,
				})
			})

			if a.isTerminal(item.Tool) {
				stop = true
			}
		}

		if stop {
			result.Outcome = OutcomeTerminalTool
			return nil
		}
	}

	return nil
}

// dispatch runs one plan item. Failures become an ErrorResult.
func (a *Agent) dispatch(ctx context.Context, logger *slog.Logger, item plan.Item) (any, bool) {
	out, err := a.registry.Dispatch(ctx, item.Tool, item.Payload)
	if err != nil {
		msg := describeToolError(err)
		logger.Debug("tool failed", "tool", item.Tool, "error", err)
		return NewErrorResult(msg), true
	}
	return out, false
}

// isTerminal resolves aliases, so create_file and run end the run too.
func (a *Agent) isTerminal(name string) bool {
	tool, ok := a.registry.Get(name)
	if !ok {
		return false
	}
	return terminalTools[tool.Metadata().Name]
}

func (a *Agent) reportUsage(model string, usage *llm.TokenUsage) {
	if usage == nil {
		return
	}
	line := fmt.Sprintf("Tokens: %d in / %d out", usage.PromptTokens, usage.CompletionTokens)

	if cost, ok := a.pricing.Cost(model, *usage); ok {
		if a.pricing.IsFree(model) {
			line += " | Cost: free"
		} else {
			line += fmt.Sprintf(" | Cost: $%.6f (in $%.6f, out $%.6f)", cost.Total(), cost.Input, cost.Output)
		}
	}
	fmt.Fprintln(a.out, line)
}

func (a *Agent) recordTurn(ctx context.Context, logger *slog.Logger, runID string, iteration int, resp llm.NormalizedResponse) {
	turn := storage.TurnRecord{RunID: runID, Iteration: iteration, Reply: resp.Content}
	if resp.Usage != nil {
		turn.PromptTokens = resp.Usage.PromptTokens
		turn.CompletionTokens = resp.Usage.CompletionTokens
	}
	a.record(logger, "record turn", func() error {
		return a.transcript.RecordTurn(ctx, turn)
	})
}

// record writes to the transcript when one is configured. Failures are
// logged and never stop the run.
func (a *Agent) record(logger *slog.Logger, what string, write func() error) {
	if a.transcript == nil {
		return
	}
	if err := write(); err != nil {
		logger.Warn("transcript write failed", "op", what, "error", err)
	}
}

func (a *Agent) printSummary(result *Result) {
	pad := result.Scratchpad
	fmt.Fprintf(a.out, "\n=== Done: %s after %d iteration(s), %d result(s) ===\n",
		result.Outcome, result.Iterations, len(pad.Results))
	for i, r := range pad.Results {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, preview(r, 200))
	}
}

// preview truncates s to n runes, preserving UTF-8 boundaries.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
