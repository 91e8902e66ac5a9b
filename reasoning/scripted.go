package reasoning

import (
	"context"
	"fmt"

	"github.com/hupe1980/pmcopilot/core"
)

// Scripted is a deterministic Service implementation for tests and
// examples. Unset function fields fall back to a safe default; tests
// override exactly the calls they want to steer or fail.
type Scripted struct {
	ClassifyFunc     func(ctx context.Context, prompt string, labels []string) (string, error)
	GeneratePlanFunc func(ctx context.Context, goal string, tools []ToolDefinition) (*core.Plan, error)
	ChatFunc         func(ctx context.Context, req Request) (*Response, error)

	// Calls counts invocations per method name.
	Calls map[string]int
}

// NewScripted constructs a Scripted service with default behavior.
func NewScripted() *Scripted {
	return &Scripted{Calls: map[string]int{}}
}

func (s *Scripted) count(method string) {
	if s.Calls == nil {
		s.Calls = map[string]int{}
	}
	s.Calls[method]++
}

// Classify implements Service. Defaults to the first label.
func (s *Scripted) Classify(ctx context.Context, prompt string, labels []string) (string, error) {
	s.count("classify")
	if s.ClassifyFunc != nil {
		return s.ClassifyFunc(ctx, prompt, labels)
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("no labels provided")
	}
	return labels[0], nil
}

// GeneratePlan implements Service. Defaults to a single-step plan that
// restates the goal.
func (s *Scripted) GeneratePlan(ctx context.Context, goal string, tools []ToolDefinition) (*core.Plan, error) {
	s.count("generate_plan")
	if s.GeneratePlanFunc != nil {
		return s.GeneratePlanFunc(ctx, goal, tools)
	}
	step := core.NewStep(goal)
	return &core.Plan{Goal: goal, Reasoning: "scripted default", Steps: []core.Step{step}}, nil
}

// Chat implements Service. Defaults to a fixed acknowledgment with no
// tool calls.
func (s *Scripted) Chat(ctx context.Context, req Request) (*Response, error) {
	s.count("chat")
	if s.ChatFunc != nil {
		return s.ChatFunc(ctx, req)
	}
	return &Response{Text: "OK."}, nil
}
