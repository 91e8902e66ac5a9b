package node

import (
	"context"
	"fmt"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/logging"
	"github.com/hupe1980/pmcopilot/prompt"
	"github.com/hupe1980/pmcopilot/reasoning"
	"github.com/hupe1980/pmcopilot/tool"
)

// embeddedResultCount is how many recent step results are folded into
// the next step's prompt.
const embeddedResultCount = 3

// Phase is the engine's position in a plan run, derived from state
// rather than stored: no plan means planning, an index inside the steps
// means executing, an index past the last step means completion.
type Phase string

// Engine phases.
const (
	PhasePlanning  Phase = "planning"
	PhaseExecuting Phase = "executing"
	PhaseCompleted Phase = "completed"
)

// Outcome is the result of one engine cycle. Done marks a terminal
// cycle; Final and Status are only meaningful when Done is true.
type Outcome struct {
	Done   bool
	Final  string
	Status core.TerminalStatus
}

// Engine is the self-looping plan-execute machine. Each Advance call
// performs exactly one cycle (generate the plan, execute one step, or
// summarize) and decrements the step budget; the caller loops until an
// Outcome reports Done.
type Engine struct {
	svc      reasoning.Service
	tools    tool.Service
	executor *SimpleExecutor
	logger   logging.Logger
}

// NewEngine constructs a plan-execute engine sharing the executor's
// bounded episode for step execution.
func NewEngine(svc reasoning.Service, tools tool.Service, executor *SimpleExecutor, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Engine{svc: svc, tools: tools, executor: executor, logger: logger}
}

// PhaseOf derives the engine phase from the conversation state.
func (e *Engine) PhaseOf(st *core.ConversationState) Phase {
	if st.Plan == nil {
		return PhasePlanning
	}
	if st.Plan.CurrentStepIdx < len(st.Plan.Steps) {
		return PhaseExecuting
	}
	return PhaseCompleted
}

// Advance runs one engine cycle against the state. Plan corruption is
// the only fatal condition; every other failure is absorbed into the
// plan's step records or the fallback plan.
func (e *Engine) Advance(ctx context.Context, st *core.ConversationState, emit Emitter) Outcome {
	if st.Plan != nil {
		if err := st.Plan.Validate(); err != nil {
			e.logger.Error("engine.corrupt_plan", "error", err)
			return Outcome{Done: true, Final: prompt.Message(prompt.MsgInternalError, nil), Status: core.StatusFailed}
		}
	}

	switch e.PhaseOf(st) {
	case PhasePlanning:
		return e.planCycle(ctx, st)
	case PhaseExecuting:
		return e.stepCycle(ctx, st, emit)
	default:
		return e.completionCycle(st)
	}
}

// planCycle generates the plan for the turn's goal. A planner failure
// or an empty plan degrades to a single-step fallback so execution
// always has something to run.
func (e *Engine) planCycle(ctx context.Context, st *core.ConversationState) Outcome {
	goal := st.LastUserText()

	plan, err := e.svc.GeneratePlan(ctx, goal, toolDefinitions(e.tools.List()))
	if err != nil || plan == nil || len(plan.Steps) == 0 {
		e.logger.Warn("engine.planner_failed, using fallback plan", "error", err)
		plan = fallbackPlan(goal)
	} else {
		e.logger.Info("engine.planned", "goal", plan.Goal, "steps", len(plan.Steps))
	}

	st.Plan = plan
	st.RemainingSteps--
	return Outcome{}
}

// stepCycle executes the current step through the bounded episode,
// records its outcome and advances the plan. A failure on the final
// step is terminal; earlier failures are recorded and execution moves
// on so later steps still run.
func (e *Engine) stepCycle(ctx context.Context, st *core.ConversationState, emit Emitter) Outcome {
	step, ok := st.Plan.CurrentStep()
	if !ok {
		return Outcome{Done: true, Final: prompt.Message(prompt.MsgInternalError, nil), Status: core.StatusFailed}
	}
	idx := st.Plan.CurrentStepIdx
	isLast := idx == len(st.Plan.Steps)-1

	running := step.Started()
	updated := st.Plan.ReplaceStep(idx, running)
	st.Plan = &updated

	instructions := prompt.RenderExecutorSystem(prompt.FormatProjectContext(st.ProjectContext))
	stepPrompt := prompt.BuildStepPrompt(running, st.ProjectContext, st.RecentToolResults(embeddedResultCount))

	text, err := e.executor.RunEpisode(ctx, instructions,
		[]reasoning.Turn{{Role: core.RoleUser, Text: stepPrompt}}, emit)

	var finished core.Step
	record := core.StepResult{StepID: step.ID, StepIdx: idx, Description: step.Description}
	if err != nil {
		finished = running.Failed(err.Error())
		record.Status = core.StepFailed
		record.Error = err.Error()
		e.logger.Warn("engine.step_failed", "step", idx+1, "error", err)
	} else {
		if text == "" {
			text = "Step executed (no output)"
		}
		finished = running.Completed(map[string]any{"output": text})
		record.Status = core.StepDone
		record.Result = text
		e.logger.Info("engine.step_done", "step", idx+1)
	}

	updated = st.Plan.ReplaceStep(idx, finished)
	st.AppendToolResult(record)

	if err != nil && isLast {
		st.Plan = &updated
		st.RemainingSteps--
		return Outcome{
			Done: true,
			Final: prompt.Message(prompt.MsgPlanAborted, map[string]string{
				"description": step.Description,
				"error":       err.Error(),
			}),
			Status: core.StatusFailed,
		}
	}

	updated = updated.Advanced()
	st.Plan = &updated
	st.RemainingSteps--

	if st.RemainingSteps <= 1 && updated.CurrentStepIdx < len(updated.Steps) {
		e.logger.Warn("engine.budget_exhausted",
			"completed", updated.CurrentStepIdx, "total", len(updated.Steps))
		final := prompt.Message(prompt.MsgBudgetExhausted, nil) + "\n\n" + prompt.BuildPlanSummary(updated)
		return Outcome{Done: true, Final: final, Status: core.StatusCompleted}
	}
	return Outcome{}
}

// completionCycle renders the terminal summary once every step has been
// traversed.
func (e *Engine) completionCycle(st *core.ConversationState) Outcome {
	return Outcome{Done: true, Final: prompt.BuildPlanSummary(*st.Plan), Status: core.StatusCompleted}
}

// fallbackPlan wraps the raw goal in a single execution step when plan
// generation fails.
func fallbackPlan(goal string) *core.Plan {
	return &core.Plan{
		Goal:      goal,
		Reasoning: "Fallback plan due to planner error",
		Steps:     []core.Step{core.NewStep(fmt.Sprintf("Execute request: %s", goal))},
	}
}
