package agent

import (
	"github.com/richinex/craft/llm"
)

// describeToolError turns a dispatch failure into the message recorded in
// the scratchpad.
func describeToolError(err error) string {
	msg := err.Error()
	switch llm.Classify(err) {
	case llm.KindUnauthorized:
		return "invalid credentials, check credentials: " + msg
	case llm.KindRateLimited:
		return "rate limited, retry may help: " + msg
	case llm.KindNetwork:
		return "network error: " + msg
	case llm.KindServerError:
		return "provider unavailable, retry may help: " + msg
	default:
		return "tool error: " + msg
	}
}
