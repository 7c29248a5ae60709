package plan

import (
	"bytes"
	"encoding/json"
	"slices"
)

// ToolNameKeys are checked in order for the tool name. The first key
// holding a non-empty string wins.
var ToolNameKeys = []string{"tool", "tool_name", "name"}

// PayloadKeys are checked in order for the payload. The first key present
// wins even when its value is null, false or empty.
var PayloadKeys = []string{"payload", "args", "parameters", "arguments"}

// implicitPayloadStrip lists the keys removed from a flat element, such as
// {"tool": "read_file", "path": "x"}, to form its implicit payload.
var implicitPayloadStrip = []string{"tool", "tool_name", "name", "arguments"}

// Item is one planned tool invocation.
type Item struct {
	// Tool is the resolved tool name, "" when no name key was usable.
	Tool string
	// Payload is the resolved payload, byte-for-byte as the model wrote it.
	Payload json.RawMessage
	// Raw is the element as it appeared in the plan array.
	Raw json.RawMessage
}

// Plan is an ordered list of tool invocations for one turn.
type Plan []Item

// Tools returns the resolved tool names in order.
func (p Plan) Tools() []string {
	names := make([]string, len(p))
	for i, item := range p {
		names[i] = item.Tool
	}
	return names
}

// Parse reads the plan from an LLM reply. A reply without a ```json block,
// or whose block is not a JSON array, yields an empty plan.
func Parse(text string) Plan {
	block, ok := ExtractFencedJSON(text)
	if !ok {
		return Plan{}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(block), &elements); err != nil {
		return Plan{}
	}

	p := make(Plan, 0, len(elements))
	for _, el := range elements {
		p = append(p, ResolveItem(el))
	}
	return p
}

// ResolveItem resolves the tool name and payload of one plan element.
// Non-object elements resolve to an unnamed item whose payload is the element.
func ResolveItem(raw json.RawMessage) Item {
	raw = bytes.TrimSpace(raw)
	item := Item{Payload: raw, Raw: raw}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return item
	}

	item.Tool = resolveToolName(fields)
	item.Payload = resolvePayload(raw, fields)
	return item
}

func resolveToolName(fields map[string]json.RawMessage) string {
	for _, key := range ToolNameKeys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		var name string
		if err := json.Unmarshal(v, &name); err == nil && name != "" {
			return name
		}
	}
	return ""
}

func resolvePayload(raw json.RawMessage, fields map[string]json.RawMessage) json.RawMessage {
	for _, key := range PayloadKeys {
		if v, ok := fields[key]; ok {
			return v
		}
	}

	if !hasAnyKey(fields, implicitPayloadStrip) {
		return raw
	}

	rest := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		if !slices.Contains(implicitPayloadStrip, k) {
			rest[k] = v
		}
	}
	out, err := json.Marshal(rest)
	if err != nil {
		return raw
	}
	return out
}

func hasAnyKey(fields map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}
