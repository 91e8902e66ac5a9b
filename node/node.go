package node

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/reasoning"
	"github.com/hupe1980/pmcopilot/tool"
)

// Emitter publishes progress events to the turn's output stream. A nil
// emitter is valid and drops events.
type Emitter func(core.Event)

func (e Emitter) emit(ev core.Event) {
	if e != nil {
		e(ev)
	}
}

// toolDefinitions converts the registry catalog into reasoning tool
// definitions.
func toolDefinitions(descriptors []tool.Descriptor) []reasoning.ToolDefinition {
	defs := make([]reasoning.ToolDefinition, 0, len(descriptors))
	for _, d := range descriptors {
		defs = append(defs, reasoning.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return defs
}

// decodeArgs unmarshals a provider's tool call arguments. Malformed
// arguments degrade to an empty map; the tool reports missing fields
// itself.
func decodeArgs(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}

// stringifyResult renders a tool result for the episode transcript.
func stringifyResult(result any) string {
	switch v := result.(type) {
	case nil:
		return "null"
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
