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

// DefaultMaxIterations bounds the reasoning/tool loop of one episode.
const DefaultMaxIterations = 10

// SimpleExecutor runs one bounded reasoning/tool episode: the model may
// request tool calls, results are folded back into the transcript, and
// the loop ends when the model answers without tool calls or the
// iteration budget runs out. The plan-execute engine reuses the same
// episode for individual steps.
type SimpleExecutor struct {
	svc           reasoning.Service
	tools         tool.Service
	maxIterations int
	logger        logging.Logger
}

// NewSimpleExecutor constructs an executor with the given iteration
// budget; values below 1 fall back to DefaultMaxIterations.
func NewSimpleExecutor(svc reasoning.Service, tools tool.Service, maxIterations int, logger logging.Logger) *SimpleExecutor {
	if maxIterations < 1 {
		maxIterations = DefaultMaxIterations
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &SimpleExecutor{svc: svc, tools: tools, maxIterations: maxIterations, logger: logger}
}

// Execute handles a simple-mode request over the full conversation
// history and returns the final assistant text. Episode failures
// degrade to a fixed apology so the turn still terminates.
func (e *SimpleExecutor) Execute(ctx context.Context, st *core.ConversationState, emit Emitter) (string, core.TerminalStatus) {
	instructions := prompt.RenderExecutorSystem(prompt.FormatProjectContext(st.ProjectContext))
	text, err := e.RunEpisode(ctx, instructions, reasoning.TurnsFromMessages(st.Messages), emit)
	if err != nil {
		e.logger.Error("simple.episode_failed", "error", err)
		return prompt.Message(prompt.MsgExecutionError, nil), core.StatusFailed
	}
	return text, core.StatusCompleted
}

// RunEpisode runs the bounded tool-calling loop over an arbitrary
// transcript. Tool invocation errors are not episode errors: the error
// text is fed back to the model, which decides how to proceed. Only
// reasoning failures and budget exhaustion surface as errors.
func (e *SimpleExecutor) RunEpisode(ctx context.Context, instructions string, turns []reasoning.Turn, emit Emitter) (string, error) {
	defs := toolDefinitions(e.tools.List())

	for i := 0; i < e.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := e.svc.Chat(ctx, reasoning.Request{
			Instructions: instructions,
			Turns:        turns,
			Tools:        defs,
		})
		if err != nil {
			return "", fmt.Errorf("episode iteration %d: %w", i+1, err)
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Text, nil
		}

		turns = append(turns, reasoning.Turn{
			Role:      core.RoleAssistant,
			Text:      resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			emit.emit(core.NewToolStartedEvent(call.Name))
			result, callErr := e.tools.Invoke(ctx, call.Name, decodeArgs(call.Arguments))
			emit.emit(core.NewToolCompletedEvent(call.Name))

			payload := stringifyResult(result)
			if callErr != nil {
				payload = fmt.Sprintf("Error: %s", callErr.Error())
				e.logger.Warn("simple.tool_failed", "tool", call.Name, "error", callErr)
			}
			turns = append(turns, reasoning.Turn{
				Role:       core.RoleTool,
				Text:       payload,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}
	}

	return "", fmt.Errorf("episode exceeded %d iterations without a final answer", e.maxIterations)
}
