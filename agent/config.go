// Agent configuration types.
//
// Information Hiding:
// - Default values hidden
// - Fallback for invalid values hidden

package agent

const (
	DefaultMaxIterations = 5
	DefaultMaxTokens     = 512
	DefaultTemperature   = 0.2
)

// Config holds the planning loop limits and sampling settings.
type Config struct {
	// MaxIterations bounds the planning turns of one run.
	MaxIterations int

	// MaxTokens caps each planning reply.
	MaxTokens int

	// Temperature is sent with every planning request.
	Temperature float64
}

// DefaultConfig returns the standard loop configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations: DefaultMaxIterations,
		MaxTokens:     DefaultMaxTokens,
		Temperature:   DefaultTemperature,
	}
}

// withDefaults replaces non-positive limits with the defaults.
// MaxIterations is capped at DefaultMaxIterations.
func (c Config) withDefaults() Config {
	if c.MaxIterations <= 0 || c.MaxIterations > DefaultMaxIterations {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature < 0 {
		c.Temperature = DefaultTemperature
	}
	return c
}
