package node

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/reasoning"
)

func stateWithUserText(text string) *core.ConversationState {
	st := core.NewConversationState("t1")
	st.AppendMessage(core.NewUserMessage(text))
	return st
}

func TestClassifierChat(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, _ string, _ []string) (string, error) {
		return "chat", nil
	}

	c := NewClassifier(svc, nil)
	route := c.Classify(context.Background(), stateWithUserText("hello!"))
	assert.Equal(t, core.RouteChatResponse, route)
}

func TestClassifierPMWork(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, _ string, _ []string) (string, error) {
		return "pm_work", nil
	}

	c := NewClassifier(svc, nil)
	route := c.Classify(context.Background(), stateWithUserText("create an issue"))
	assert.Equal(t, core.RouteResolveContext, route)
}

func TestClassifierFailsOpenToPMWork(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, _ string, _ []string) (string, error) {
		return "", fmt.Errorf("provider unavailable")
	}

	c := NewClassifier(svc, nil)
	route := c.Classify(context.Background(), stateWithUserText("show the backlog"))
	assert.Equal(t, core.RouteResolveContext, route)
}

func TestClassifierUnknownLabelRoutesToPMWork(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, _ string, _ []string) (string, error) {
		return "banter", nil
	}

	c := NewClassifier(svc, nil)
	route := c.Classify(context.Background(), stateWithUserText("hmm"))
	assert.Equal(t, core.RouteResolveContext, route)
}

func TestClassifierSeesHistory(t *testing.T) {
	var seenPrompt string
	svc := reasoning.NewScripted()
	svc.ClassifyFunc = func(_ context.Context, prompt string, _ []string) (string, error) {
		seenPrompt = prompt
		return "pm_work", nil
	}

	st := core.NewConversationState("t1")
	st.AppendMessage(core.NewUserMessage("create a task for the login bug"))
	st.AppendMessage(core.NewAssistantMessage("Should I create it in project ALPHA?"))
	st.AppendMessage(core.NewUserMessage("yes, do it"))

	NewClassifier(svc, nil).Classify(context.Background(), st)

	assert.Contains(t, seenPrompt, "Should I create it in project ALPHA?")
	assert.Contains(t, seenPrompt, "yes, do it")
}
