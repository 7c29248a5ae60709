// Package main provides the craft CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/richinex/craft/cli"
	"github.com/richinex/craft/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	transcript string
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "craft",
		Short: "Turn a goal into shell commands and files",
		Long: `craft asks an LLM for a short JSON plan of tool calls, runs them and feeds
the results back, for at most a few iterations. A run ends as soon as the
model generates a file or executes a program.

Keys are read from API_KEY_OPENAI, API_KEY_CLAUDE, API_KEY_ZEN and
API_KEY_GEMINI, in the environment, ~/.config/craft/.env or ./.env.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug diagnostics on stderr")
	rootCmd.PersistentFlags().StringVar(&transcript, "transcript", "", "Record runs to this SQLite file (overrides CRAFT_TRANSCRIPT)")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(setupCmd())
	rootCmd.AddCommand(toolsCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunner() (*cli.Runner, error) {
	return cli.NewRunner(cli.Options{
		Verbose:        verbose,
		TranscriptPath: transcript,
	})
}

func runCmd() *cobra.Command {
	var contextText string

	cmd := &cobra.Command{
		Use:   "run [goal]",
		Short: "Pursue one goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			defer r.Close()

			_, err = r.RunAgent(cmd.Context(), args[0], contextText, nil)
			return err
		},
	}

	cmd.Flags().StringVar(&contextText, "context", "", "Extra context included in every prompt")

	return cmd
}

func chatCmd() *cobra.Command {
	var contextText string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Pursue one goal per input line with the same provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			defer r.Close()

			return r.Chat(cmd.Context(), contextText, nil)
		},
	}

	cmd.Flags().StringVar(&contextText, "context", "", "Extra context included in every prompt")

	return cmd
}

func setupCmd() *cobra.Command {
	var skipCheck bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Save a Zen API key to ~/.config/craft/.env",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			defer r.Close()

			ping := cli.KeyPinger(cli.DefaultPinger)
			if skipCheck {
				ping = nil
			}
			return r.Setup(cmd.Context(), ping)
		},
	}

	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Save the key without a live request")

	return cmd
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			defer r.Close()

			r.ListTools(verbose)
			return nil
		},
	}
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List known models and their prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			defer r.Close()

			r.ListModels(cmd.Context())
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs from the transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			defer r.Close()

			return r.History(cmd.Context(), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")

	return cmd
}
