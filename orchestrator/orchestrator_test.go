package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/prompt"
	"github.com/hupe1980/pmcopilot/reasoning"
	"github.com/hupe1980/pmcopilot/store"
	"github.com/hupe1980/pmcopilot/tool"
)

func newRegistry(names ...string) *tool.Registry {
	r := tool.NewRegistry(nil)
	for _, name := range names {
		n := name
		r.Register(tool.NewFunctionTool(n, "test tool", map[string]any{"type": "object"},
			func(_ context.Context, _ map[string]any) (any, error) {
				return map[string]any{"tool": n, "ok": true}, nil
			},
		))
	}
	return r
}

func finalOf(t *testing.T, events []core.Event) core.Event {
	t.Helper()
	var finals []core.Event
	for _, ev := range events {
		if ev.IsFinal() {
			finals = append(finals, ev)
		}
	}
	require.Len(t, finals, 1, "a turn must emit exactly one final event")
	return finals[0]
}

func TestChatTurn(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, _ string, _ []string) (string, error) {
		return "chat", nil
	}
	svc.ChatFunc = func(_ context.Context, _ reasoning.Request) (*reasoning.Response, error) {
		return &reasoning.Response{Text: "Hello! How can I help?"}, nil
	}

	o := New(svc, newRegistry())
	final, events, err := o.RunSync(context.Background(), "t1", core.NewUserMessage("hi"))
	require.NoError(t, err)

	assert.Equal(t, "Hello! How can I help?", final.Text)
	assert.Equal(t, core.StatusCompleted, final.Status)

	// node_started for the classifier and the responder, then the final.
	var nodes []string
	for _, ev := range events {
		if ev.Kind == core.EventNodeStarted {
			nodes = append(nodes, ev.Node)
		}
	}
	assert.Equal(t, []string{"classify_conversation", "chat_response"}, nodes)
	assert.Equal(t, final, finalOf(t, events))
}

func TestAskProjectTurn(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, prompt string, labels []string) (string, error) {
		// Conversation classification then task classification.
		if strings.Contains(prompt, "pm_work") {
			return "pm_work", nil
		}
		return "simple", nil
	}
	svc.ChatFunc = func(_ context.Context, req reasoning.Request) (*reasoning.Response, error) {
		text := req.Turns[0].Text
		if strings.Contains(text, "Return ONLY the project key") {
			return &reasoning.Response{Text: "UNKNOWN"}, nil
		}
		// Tool prediction.
		return &reasoning.Response{Text: "jira_list_issues"}, nil
	}

	o := New(svc, newRegistry("jira_list_issues"))
	final, events, err := o.RunSync(context.Background(), "t1", core.NewUserMessage("show all tasks"))
	require.NoError(t, err)

	assert.Equal(t, prompt.Message(prompt.MsgAskProjectKey, nil), final.Text)
	assert.Equal(t, core.StatusCompleted, final.Status)

	var nodes []string
	for _, ev := range events {
		if ev.Kind == core.EventNodeStarted {
			nodes = append(nodes, ev.Node)
		}
	}
	assert.Equal(t, []string{
		"classify_conversation", "resolve_context", "classify_task", "validate", "ask_project",
	}, nodes)
}

func TestSimpleToolTurn(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, prompt string, _ []string) (string, error) {
		if strings.Contains(prompt, "pm_work") {
			return "pm_work", nil
		}
		return "simple", nil
	}
	svc.ChatFunc = func(_ context.Context, req reasoning.Request) (*reasoning.Response, error) {
		text := req.Turns[0].Text
		switch {
		case strings.Contains(text, "Return ONLY the project key"):
			return &reasoning.Response{Text: "ALPHA"}, nil
		case strings.Contains(text, "Return ONLY comma-separated tool names"):
			return &reasoning.Response{Text: "jira_list_issues"}, nil
		}
		// Execution episode: call the tool once, then answer.
		last := req.Turns[len(req.Turns)-1]
		if last.Role == core.RoleTool {
			return &reasoning.Response{Text: "Project ALPHA has 1 issue."}, nil
		}
		return &reasoning.Response{
			ToolCalls: []reasoning.ToolCall{{
				ID: "c1", Name: "jira_list_issues", Arguments: json.RawMessage(`{"project_key":"ALPHA"}`),
			}},
		}, nil
	}

	memory := store.NewInMemoryStore()
	o := New(svc, newRegistry("jira_list_issues"), func(opts *Options) {
		opts.Store = memory
	})

	final, events, err := o.RunSync(context.Background(), "t1",
		core.NewUserMessage("show all tasks in project ALPHA"))
	require.NoError(t, err)

	assert.Equal(t, "Project ALPHA has 1 issue.", final.Text)
	assert.Equal(t, core.StatusCompleted, final.Status)

	// Tool events appear between the executor node start and the final.
	var kinds []core.EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Contains(t, kinds, core.EventToolStarted)
	assert.Contains(t, kinds, core.EventToolCompleted)
	assert.Equal(t, core.EventFinal, kinds[len(kinds)-1])

	// State was persisted: resolved key plus both conversation turns.
	st, err := memory.Load(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "ALPHA", st.ProjectContext.ProjectKey)
	require.Len(t, st.Messages, 2)
	assert.Equal(t, core.RoleUser, st.Messages[0].Role)
	assert.Equal(t, core.RoleAssistant, st.Messages[1].Role)
	assert.Equal(t, "Project ALPHA has 1 issue.", st.Messages[1].Text)
}

func TestPlanExecuteTurn(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, prompt string, _ []string) (string, error) {
		if strings.Contains(prompt, "pm_work") {
			return "pm_work", nil
		}
		return "plan_execute", nil
	}
	svc.GeneratePlanFunc = func(_ context.Context, goal string, _ []reasoning.ToolDefinition) (*core.Plan, error) {
		return &core.Plan{
			Goal:  goal,
			Steps: []core.Step{core.NewStep("gather data"), core.NewStep("write report")},
		}, nil
	}
	svc.ChatFunc = func(_ context.Context, req reasoning.Request) (*reasoning.Response, error) {
		text := req.Turns[0].Text
		if strings.Contains(text, "Return ONLY the project key") {
			return &reasoning.Response{Text: "ALPHA"}, nil
		}
		return &reasoning.Response{Text: "step output"}, nil
	}

	o := New(svc, newRegistry("jira_list_issues"))
	final, events, err := o.RunSync(context.Background(), "t1",
		core.NewUserMessage("prepare a status report for ALPHA"))
	require.NoError(t, err)

	assert.Equal(t, core.StatusCompleted, final.Status)
	assert.Contains(t, final.Text, "**Steps Completed:** 2/2")

	// One execute_plan node event per engine cycle: plan, two steps,
	// completion.
	planCycles := 0
	for _, ev := range events {
		if ev.Kind == core.EventNodeStarted && ev.Node == "execute_plan" {
			planCycles++
		}
	}
	assert.Equal(t, 4, planCycles)
}

func TestBudgetReseededEachTurn(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, prompt string, _ []string) (string, error) {
		if strings.Contains(prompt, "pm_work") {
			return "pm_work", nil
		}
		return "plan_execute", nil
	}
	svc.ChatFunc = func(_ context.Context, req reasoning.Request) (*reasoning.Response, error) {
		if strings.Contains(req.Turns[0].Text, "Return ONLY the project key") {
			return &reasoning.Response{Text: "ALPHA"}, nil
		}
		return &reasoning.Response{Text: "done"}, nil
	}

	memory := store.NewInMemoryStore()
	o := New(svc, newRegistry(), func(opts *Options) {
		opts.Store = memory
		opts.MaxPlanCycles = 4
	})

	for i := 0; i < 2; i++ {
		final, _, err := o.RunSync(context.Background(), "t1", core.NewUserMessage("run the workflow"))
		require.NoError(t, err)
		// The default scripted plan has one step; with budget 4 both
		// turns finish with a full summary, proving the second turn did
		// not inherit the first turn's spent budget.
		assert.Equal(t, core.StatusCompleted, final.Status)
		assert.Contains(t, final.Text, "**Steps Completed:** 1/1")
	}

	st, err := memory.Load(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 4-2, st.RemainingSteps)
}

func TestMetadataSeedsProjectContext(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, prompt string, _ []string) (string, error) {
		if strings.Contains(prompt, "pm_work") {
			return "pm_work", nil
		}
		return "simple", nil
	}
	resolverCalled := false
	svc.ChatFunc = func(_ context.Context, req reasoning.Request) (*reasoning.Response, error) {
		if strings.Contains(req.Turns[0].Text, "Return ONLY the project key") {
			resolverCalled = true
		}
		return &reasoning.Response{Text: "done"}, nil
	}

	memory := store.NewInMemoryStore()
	o := New(svc, newRegistry(), func(opts *Options) { opts.Store = memory })

	msg := core.NewUserMessage("show all tasks")
	msg.Metadata = map[string]any{
		"project_key":  "beta",
		"sprint_name":  "Sprint 7",
		"team_members": []any{"kim", "sasha"},
	}

	_, _, err := o.RunSync(context.Background(), "t1", msg)
	require.NoError(t, err)

	// A metadata-provided key makes the resolver skip detection.
	assert.False(t, resolverCalled)

	st, err := memory.Load(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "BETA", st.ProjectContext.ProjectKey)
	assert.Equal(t, "Sprint 7", st.ProjectContext.SprintName)
	assert.Equal(t, []string{"kim", "sasha"}, st.ProjectContext.TeamMembers)
}

func TestRunRejectsInvalidInput(t *testing.T) {
	o := New(reasoning.NewScripted(), newRegistry())

	_, err := o.Run(context.Background(), "", core.NewUserMessage("hi"))
	assert.Error(t, err)

	_, err = o.Run(context.Background(), "t1", core.NewAssistantMessage("hi"))
	assert.Error(t, err)
}

func TestStoreFailuresAreAbsorbed(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, _ string, _ []string) (string, error) {
		return "chat", nil
	}
	svc.ChatFunc = func(_ context.Context, _ reasoning.Request) (*reasoning.Response, error) {
		return &reasoning.Response{Text: "hello"}, nil
	}

	o := New(svc, newRegistry(), func(opts *Options) {
		opts.Store = failingStore{}
	})

	final, _, err := o.RunSync(context.Background(), "t1", core.NewUserMessage("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hello", final.Text)
	assert.Equal(t, core.StatusCompleted, final.Status)
}

func TestAbandonedConsumerDoesNotBlockTurn(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, _ string, _ []string) (string, error) {
		return "chat", nil
	}
	svc.ChatFunc = func(_ context.Context, _ reasoning.Request) (*reasoning.Response, error) {
		return &reasoning.Response{Text: "hello"}, nil
	}

	saved := make(chan struct{})
	o := New(svc, newRegistry(), func(opts *Options) {
		// Unbuffered channel: without a reader the very first event
		// send would park the goroutine forever if emission ignored
		// cancellation.
		opts.EventBufferSize = 0
		opts.Store = notifyingStore{saved: saved}
	})

	ctx, cancel := context.WithCancel(context.Background())
	_, err := o.Run(ctx, "t1", core.NewUserMessage("hi"))
	require.NoError(t, err)

	// The consumer gives up without reading a single event.
	cancel()

	select {
	case <-saved:
		// The turn ran to completion and persisted state.
	case <-time.After(2 * time.Second):
		t.Fatal("turn goroutine still blocked after the consumer gave up")
	}
}

// notifyingStore signals when the orchestrator reaches the end-of-turn
// save.
type notifyingStore struct {
	saved chan struct{}
}

func (notifyingStore) Load(context.Context, string) (*core.ConversationState, error) {
	return nil, store.ErrNotFound
}

func (s notifyingStore) Save(context.Context, string, *core.ConversationState) error {
	close(s.saved)
	return nil
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) (*core.ConversationState, error) {
	return nil, fmt.Errorf("connection refused")
}

func (failingStore) Save(context.Context, string, *core.ConversationState) error {
	return fmt.Errorf("connection refused")
}
