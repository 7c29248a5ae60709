package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/richinex/craft/config"
	"github.com/richinex/craft/llm"
)

// KeyPinger tests a key against the live provider.
type KeyPinger func(ctx context.Context, kind llm.ProviderKind, key string) llm.KeyCheck

// SetupOptions configures the setup wizard. A nil Ping skips the live check.
type SetupOptions struct {
	Reader *LineReader
	Out    io.Writer
	Ping   KeyPinger
}

// DefaultPinger checks a key with the provider's default model.
func DefaultPinger(ctx context.Context, kind llm.ProviderKind, key string) llm.KeyCheck {
	return llm.ValidateKeyWorks(ctx, kind, key, "", "")
}

// Setup asks for a Zen key, checks it and saves it to the user env file.
func Setup(ctx context.Context, opts SetupOptions) error {
	out := opts.Out
	fmt.Fprintln(out, "Welcome to craft! Add your Zen API key:")

	key := opts.Reader.ReadSecret("Zen API key: ")
	if check := config.ValidateZenKey(key); !check.Valid {
		return fmt.Errorf("invalid key: %s", check.Reason)
	}

	if opts.Ping != nil {
		fmt.Fprintln(out, "Checking key...")
		if check := opts.Ping(ctx, llm.ProviderZen, key); !check.Valid {
			return fmt.Errorf("key check failed: %s", check.Reason)
		}
	}

	path, err := config.WriteUserEnv(map[string]string{"API_KEY_ZEN": key})
	if err != nil {
		return fmt.Errorf("save key: %w", err)
	}
	fmt.Fprintf(out, "Saved to %s\n", path)
	return nil
}
