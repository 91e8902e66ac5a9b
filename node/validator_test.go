package node

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/reasoning"
	"github.com/hupe1980/pmcopilot/tool"
)

func noopTool(name string) tool.Tool {
	return tool.NewFunctionTool(name, "test tool", map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]any) (any, error) { return "ok", nil },
	)
}

func registryWith(names ...string) *tool.Registry {
	r := tool.NewRegistry(nil)
	for _, name := range names {
		r.Register(noopTool(name))
	}
	return r
}

func TestValidatorProceedsWithProjectKey(t *testing.T) {
	svc := reasoning.NewScripted()
	st := stateWithUserText("list issues")
	st.ProjectContext.ProjectKey = "ALPHA"

	v := NewPrereqValidator(svc, registryWith("jira_list_issues"), nil)
	route := v.Validate(context.Background(), st)

	assert.Equal(t, core.RouteExecuteSimple, route)
	// No prediction call needed when the key is already resolved.
	assert.Zero(t, svc.Calls["chat"])
}

func TestValidatorBlocksProjectScopedTool(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ChatFunc = func(_ context.Context, _ reasoning.Request) (*reasoning.Response, error) {
		return &reasoning.Response{Text: "jira_list_issues"}, nil
	}

	st := stateWithUserText("show all tasks")
	v := NewPrereqValidator(svc, registryWith("jira_list_issues", "calendar_list_events"), nil)
	route := v.Validate(context.Background(), st)

	assert.Equal(t, core.RouteAskProject, route)
}

func TestValidatorAllowsUnscopedTools(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ChatFunc = func(_ context.Context, _ reasoning.Request) (*reasoning.Response, error) {
		return &reasoning.Response{Text: "calendar_list_events, confluence_search_pages"}, nil
	}

	st := stateWithUserText("what meetings do I have today")
	v := NewPrereqValidator(svc, registryWith("calendar_list_events", "confluence_search_pages"), nil)
	route := v.Validate(context.Background(), st)

	assert.Equal(t, core.RouteExecuteSimple, route)
}

func TestValidatorRoutesByMode(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ChatFunc = func(_ context.Context, _ reasoning.Request) (*reasoning.Response, error) {
		return &reasoning.Response{Text: "none"}, nil
	}

	st := stateWithUserText("prepare the sprint plan")
	st.Mode = core.ModePlanExecute

	v := NewPrereqValidator(svc, registryWith("jira_list_issues"), nil)
	route := v.Validate(context.Background(), st)

	assert.Equal(t, core.RouteExecutePlan, route)
}

func TestValidatorFailsOpen(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ChatFunc = func(_ context.Context, _ reasoning.Request) (*reasoning.Response, error) {
		return nil, fmt.Errorf("provider unavailable")
	}

	st := stateWithUserText("show all tasks")
	v := NewPrereqValidator(svc, registryWith("jira_list_issues"), nil)
	route := v.Validate(context.Background(), st)

	assert.Equal(t, core.RouteExecuteSimple, route)
}

func TestValidatorEmptyCatalogProceeds(t *testing.T) {
	svc := reasoning.NewScripted()
	st := stateWithUserText("show all tasks")

	v := NewPrereqValidator(svc, registryWith(), nil)
	route := v.Validate(context.Background(), st)

	assert.Equal(t, core.RouteExecuteSimple, route)
	assert.Zero(t, svc.Calls["chat"])
}

func TestParsePredictedTools(t *testing.T) {
	assert.Nil(t, ParsePredictedTools("none"))
	assert.Nil(t, ParsePredictedTools("None"))
	assert.Nil(t, ParsePredictedTools(""))
	assert.Equal(t,
		[]string{"jira_list_issues", "pm_get_project_snapshot"},
		ParsePredictedTools(" jira_list_issues , `pm_get_project_snapshot` "),
	)
}
