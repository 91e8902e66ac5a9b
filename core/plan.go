package core

import (
	"fmt"

	"github.com/google/uuid"
)

// StepStatus is the lifecycle state of a plan step. Transitions are
// strictly forward: pending -> running -> done | failed. A step never
// reverts and is never re-executed once it leaves pending.
type StepStatus string

// Step lifecycle states.
const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepDone    StepStatus = "done"
	StepFailed  StepStatus = "failed"
)

// Step is one unit of work within a Plan, optionally bound to a tool
// call. Steps are value records: transition helpers return an updated
// copy rather than mutating in place, so two holders of the same Plan
// never observe a half-applied update.
type Step struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	ToolName    string         `json:"tool_name,omitempty"`
	ToolArgs    map[string]any `json:"tool_args,omitempty"`
	Status      StepStatus     `json:"status"`
	Result      map[string]any `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// NewStep creates a pending step with a generated ID.
func NewStep(description string) Step {
	return Step{ID: NewID(), Description: description, Status: StepPending}
}

// Started returns a copy of the step marked running.
func (s Step) Started() Step {
	s.Status = StepRunning
	return s
}

// Completed returns a copy of the step marked done with its result.
func (s Step) Completed(result map[string]any) Step {
	s.Status = StepDone
	s.Result = result
	return s
}

// Failed returns a copy of the step marked failed with the error text.
func (s Step) Failed(errMsg string) Step {
	s.Status = StepFailed
	s.Error = errMsg
	return s
}

// Plan is a generated multi-step execution intent. Like Step it is a
// value record; Advanced and ReplaceStep return updated copies.
// CurrentStepIdx is monotonically non-decreasing across the plan's
// lifetime and stays within [0, len(Steps)].
type Plan struct {
	Goal           string `json:"goal"`
	Reasoning      string `json:"reasoning"`
	Steps          []Step `json:"steps"`
	CurrentStepIdx int    `json:"current_step_idx"`
}

// CurrentStep returns the step at CurrentStepIdx, or false when the
// index has advanced past the last step.
func (p Plan) CurrentStep() (Step, bool) {
	if p.CurrentStepIdx < 0 || p.CurrentStepIdx >= len(p.Steps) {
		return Step{}, false
	}
	return p.Steps[p.CurrentStepIdx], true
}

// IsComplete reports whether every step finished successfully.
func (p Plan) IsComplete() bool {
	for _, s := range p.Steps {
		if s.Status != StepDone {
			return false
		}
	}
	return true
}

// HasFailures reports whether any step failed.
func (p Plan) HasFailures() bool {
	for _, s := range p.Steps {
		if s.Status == StepFailed {
			return true
		}
	}
	return false
}

// ReplaceStep returns a copy of the plan with the step at idx replaced.
// The steps slice is copied so the original plan is untouched.
func (p Plan) ReplaceStep(idx int, step Step) Plan {
	steps := make([]Step, len(p.Steps))
	copy(steps, p.Steps)
	if idx >= 0 && idx < len(steps) {
		steps[idx] = step
	}
	p.Steps = steps
	return p
}

// Clone returns a copy of the plan with its own steps slice. Step maps
// (ToolArgs, Result) stay shared: steps are value records that are
// replaced wholesale, never mutated in place.
func (p Plan) Clone() Plan {
	steps := make([]Step, len(p.Steps))
	copy(steps, p.Steps)
	p.Steps = steps
	return p
}

// Advanced returns a copy of the plan with CurrentStepIdx moved one step
// forward. The index may equal len(Steps), which marks the plan as fully
// traversed.
func (p Plan) Advanced() Plan {
	if p.CurrentStepIdx < len(p.Steps) {
		p.CurrentStepIdx++
	}
	return p
}

// Validate checks the structural invariants of the plan. A violation
// indicates state corruption and is the only fatal error class in the
// engine.
func (p Plan) Validate() error {
	if p.CurrentStepIdx < 0 || p.CurrentStepIdx > len(p.Steps) {
		return fmt.Errorf("%w: current_step_idx %d out of range [0,%d]", ErrCorruptPlan, p.CurrentStepIdx, len(p.Steps))
	}
	for i, s := range p.Steps {
		switch s.Status {
		case StepPending, StepRunning, StepDone, StepFailed:
		default:
			return fmt.Errorf("%w: step %d has unknown status %q", ErrCorruptPlan, i, s.Status)
		}
	}
	return nil
}

// StepResult is one entry of the append-only tool result log kept on the
// conversation state. The last few entries are folded into subsequent
// step prompts as context.
type StepResult struct {
	StepID      string     `json:"step_id"`
	StepIdx     int        `json:"step_idx"`
	Description string     `json:"description"`
	Status      StepStatus `json:"status"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// NewID generates a unique identifier for events and steps.
func NewID() string { return uuid.NewString() }
