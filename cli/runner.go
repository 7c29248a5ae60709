// Command execution for CLI commands.
//
// Information Hiding:
// - Settings, pricing and transcript setup hidden
// - Provider picking hidden behind RunAgent
// - Output formatting hidden

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/richinex/craft/agent"
	"github.com/richinex/craft/config"
	"github.com/richinex/craft/llm"
	"github.com/richinex/craft/storage"
	"github.com/richinex/craft/tools"
)

const noCredentialsHint = "No usable LLM keys found.\nRun craft setup to configure, or add keys to ~/.config/craft/.env"

// Options holds CLI execution options. Zero values select stdin, stdout and
// a stderr logger.
type Options struct {
	Verbose        bool
	TranscriptPath string
	In             io.Reader
	Out            io.Writer
	Logger         *slog.Logger

	// ClientFactory and ListModels replace the live provider calls.
	ClientFactory agent.ClientFactory
	ListModels    ModelLister
}

// Runner owns everything one CLI invocation needs.
type Runner struct {
	settings   config.Settings
	agent      *agent.Agent
	registry   *tools.Registry
	pricing    *llm.PricingTable
	transcript *storage.SqliteTranscript
	reader     *LineReader
	out        io.Writer
	logger     *slog.Logger
	listModels ModelLister
}

// NewRunner loads settings from the environment and builds the agent.
func NewRunner(opts Options) (*Runner, error) {
	settings, err := config.New()
	if err != nil {
		return nil, err
	}
	if opts.TranscriptPath != "" {
		settings.TranscriptPath = opts.TranscriptPath
	}

	r := &Runner{settings: settings, out: opts.Out, logger: opts.Logger, listModels: opts.ListModels}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.logger == nil {
		r.logger = NewLogger(os.Stderr, opts.Verbose)
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	r.reader = NewLineReader(in, r.out)

	r.pricing = llm.DefaultPricing()
	if settings.PricingFile != "" {
		if err := r.pricing.LoadOverrides(settings.PricingFile); err != nil {
			return nil, err
		}
	}
	if r.listModels == nil {
		r.listModels = zenModels(r.pricing)
	}

	r.registry, err = tools.WithDefaults()
	if err != nil {
		return nil, err
	}

	builder := agent.NewBuilder().
		Config(agent.Config{
			MaxIterations: settings.Agent.MaxIterations,
			MaxTokens:     settings.Agent.MaxTokens,
			Temperature:   settings.Agent.Temperature,
		}).
		ClientFactory(opts.ClientFactory).
		Registry(r.registry).
		Pricing(r.pricing).
		Output(r.out).
		Logger(r.logger)

	if settings.TranscriptPath != "" {
		r.transcript, err = storage.OpenSqlite(settings.TranscriptPath)
		if err != nil {
			return nil, err
		}
		builder = builder.Transcript(r.transcript)
	}

	r.agent, err = builder.Build()
	if err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the transcript database.
func (r *Runner) Close() error {
	if r.transcript == nil {
		return nil
	}
	return r.transcript.Close()
}

// RunAgent pursues goal. A nil choice means pick a provider from the
// detected credentials first. The choice used is returned for reuse.
func (r *Runner) RunAgent(ctx context.Context, goal, contextText string, choice *llm.ProviderChoice) (llm.ProviderChoice, error) {
	if strings.TrimSpace(goal) == "" {
		return llm.ProviderChoice{}, errors.New("goal cannot be empty")
	}

	var picked llm.ProviderChoice
	if choice != nil {
		picked = *choice
	} else {
		var err error
		picked, err = r.pick(ctx)
		if err != nil {
			return llm.ProviderChoice{}, err
		}
	}

	return r.agent.Run(ctx, goal, contextText, picked)
}

func (r *Runner) pick(ctx context.Context) (llm.ProviderChoice, error) {
	creds, err := config.Credentials()
	if errors.Is(err, config.ErrNoCredentials) {
		fmt.Fprintln(r.out, noCredentialsHint)
		return llm.ProviderChoice{}, err
	}
	if err != nil {
		return llm.ProviderChoice{}, err
	}
	return PickProvider(ctx, creds, r.settings.DefaultProvider, r.reader, r.out, r.listModels)
}

// Chat runs one goal per line with a single provider choice. An empty line
// or end of input ends the session. A failed goal is reported and the
// session continues.
func (r *Runner) Chat(ctx context.Context, contextText string, choice *llm.ProviderChoice) error {
	if choice == nil {
		picked, err := r.pick(ctx)
		if err != nil {
			return err
		}
		choice = &picked
	}

	fmt.Fprintln(r.out, "Enter a goal per line. An empty line quits.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		goal := r.reader.ReadLine("\ngoal> ")
		if goal == "" {
			return nil
		}

		if _, err := r.agent.Run(ctx, goal, contextText, *choice); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(r.out, "\nError: %v\n", err)
		}
	}
}

// Setup runs the key wizard with this runner's input and output.
func (r *Runner) Setup(ctx context.Context, ping KeyPinger) error {
	return Setup(ctx, SetupOptions{Reader: r.reader, Out: r.out, Ping: ping})
}

// ListTools prints the agent's tools.
func (r *Runner) ListTools(verbose bool) {
	ListTools(r.out, r.registry, verbose)
}

// ListTools lists all registered tools with their aliases.
func ListTools(out io.Writer, registry *tools.Registry, verbose bool) {
	fmt.Fprintln(out, "Available tools:")
	fmt.Fprintln(out)

	for _, meta := range registry.List() {
		name := meta.Name
		if len(meta.Aliases) > 0 {
			name += " (" + strings.Join(meta.Aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %s\n", name)
		fmt.Fprintf(out, "    %s\n", meta.Description)

		if verbose && len(meta.Parameters) > 0 {
			fmt.Fprintln(out, "    Parameters:")
			for _, param := range meta.Parameters {
				req := ""
				if param.Required {
					req = "*"
				}
				fmt.Fprintf(out, "      %s%s: %s - %s\n", param.Name, req, param.ParamType, param.Description)
			}
		}
		fmt.Fprintln(out)
	}
}

// ListModels prints the priced models and, when a Zen key is set, the free
// models the gateway serves right now.
func (r *Runner) ListModels(ctx context.Context) {
	fmt.Fprintln(r.out, "Known models:")
	for _, m := range r.pricing.Models() {
		entry, _ := r.pricing.Lookup(m)
		if r.pricing.IsFree(m) {
			fmt.Fprintf(r.out, "  %-20s free\n", m)
			continue
		}
		fmt.Fprintf(r.out, "  %-20s $%.2f in / $%.2f out per 1M tokens\n", m, entry.InputPerMillion, entry.OutputPerMillion)
	}

	creds, err := config.Credentials()
	if err != nil {
		return
	}
	for _, c := range creds {
		if c.Kind != llm.ProviderZen {
			continue
		}
		fmt.Fprintln(r.out, "\nAvailable Zen models (free):")
		for i, m := range r.listModels(ctx, c.Key) {
			fmt.Fprintf(r.out, "  %d. %s\n", i+1, m)
		}
	}
}

// History prints the latest recorded runs. It needs a transcript.
func (r *Runner) History(ctx context.Context, limit int) error {
	if r.transcript == nil {
		return errors.New("no transcript configured, set CRAFT_TRANSCRIPT or --transcript")
	}

	ids, err := r.transcript.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(r.out, "No recorded runs.")
		return nil
	}

	for _, id := range ids {
		run, err := r.transcript.LoadRun(ctx, id)
		if err != nil {
			return err
		}
		if run == nil {
			continue
		}
		fmt.Fprintf(r.out, "%s  %s  %s/%s  %s after %d iteration(s)\n",
			run.StartedAt.Format("2006-01-02 15:04:05"), run.ID, run.Provider, run.Model, run.Outcome, run.Iterations)
		fmt.Fprintf(r.out, "  Goal: %s\n", truncateString(run.Goal, 120))
		for _, call := range run.ToolCalls {
			marker := ""
			if call.IsError {
				marker = " (error)"
			}
			fmt.Fprintf(r.out, "    [%d.%d] %s%s\n", call.Iteration, call.Position+1, call.Tool, marker)
		}
	}
	return nil
}

// NewLogger returns a text logger for diagnostics. verbose enables debug.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// truncateString truncates a string to maxLen runes, preserving UTF-8 boundaries.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
