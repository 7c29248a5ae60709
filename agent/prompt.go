package agent

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the planning prompt for one iteration. toolDescription
// is the registry's tool listing and may be empty.
func BuildPrompt(goal, contextText string, results []string, toolDescription string) string {
	if contextText == "" {
		contextText = "None"
	}
	soFar := strings.Join(results, "; ")
	if soFar == "" {
		soFar = "Nothing"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an autonomous coding agent.\nGoal: %s\nContext: %s\nSo far: %s\n\n", goal, contextText, soFar)
	if toolDescription != "" {
		b.WriteString(toolDescription)
		b.WriteString("\n\ngenerate and execute end the run.\n\n")
	}
	b.WriteString("Return ONLY a JSON array of next tool calls (max 2) in a ```json``` block.")
	return b.String()
}
