// Package plan extracts tool-call plans from LLM replies.
//
// Models are told to answer with a JSON array inside a ```json fenced block.
// Replies often carry commentary around the block, and models disagree on
// field names, so extraction and field resolution are both tolerant: a
// reply that cannot be read yields an empty plan, never an error.
package plan

import (
	"regexp"
)

// fencedJSONRE matches the first ```json fenced block, non-greedy.
var fencedJSONRE = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractFencedJSON returns the trimmed contents of the first ```json block.
// ok is false when the text has no such block.
func ExtractFencedJSON(text string) (string, bool) {
	m := fencedJSONRE.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
