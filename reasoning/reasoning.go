package reasoning

import (
	"context"
	"encoding/json"

	"github.com/hupe1980/pmcopilot/core"
)

// ToolDefinition declaratively exposes a callable tool to the reasoning
// service. Parameters is a minimal JSON Schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ToolCall is a tool invocation request surfaced by a provider, unified
// across vendors so downstream logic needs no per-provider branching.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Turn is one entry of an episode transcript handed to Chat. Assistant
// turns may carry tool calls; tool turns carry the result of one call.
type Turn struct {
	Role       core.Role  `json:"role"`
	Text       string     `json:"text,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// Request captures the normalized input of one Chat call.
type Request struct {
	Instructions string           `json:"instructions"`
	Turns        []Turn           `json:"turns"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// Response is the provider's answer to a Chat call: either final text or
// a set of requested tool calls (or both).
type Response struct {
	Text      string     `json:"text,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Service is the reasoning boundary used by every routing and execution
// node. All three calls may return a transient error; none of them is
// retried here.
type Service interface {
	// Classify answers with exactly one of the given labels. Providers
	// normalize the raw completion; callers still validate membership
	// and fall back to their conservative default on mismatch.
	Classify(ctx context.Context, prompt string, labels []string) (string, error)

	// GeneratePlan produces a multi-step plan for the goal given the
	// live tool catalog.
	GeneratePlan(ctx context.Context, goal string, tools []ToolDefinition) (*core.Plan, error)

	// Chat runs one generation over the transcript, optionally
	// requesting tool calls from the provided definitions.
	Chat(ctx context.Context, req Request) (*Response, error)
}

// TurnsFromMessages converts stored conversation messages into episode
// turns. Metadata is not carried over; it is a transport-layer concern.
func TurnsFromMessages(messages []core.Message) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, Turn{Role: m.Role, Text: m.Text})
	}
	return turns
}
