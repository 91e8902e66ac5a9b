package node

import (
	"context"
	"strings"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/logging"
	"github.com/hupe1980/pmcopilot/prompt"
	"github.com/hupe1980/pmcopilot/reasoning"
	"github.com/hupe1980/pmcopilot/tool"
)

// toolsRequiringProject names the tools that cannot run without a
// resolved project key. Membership is static: prediction picks the
// tools, this set decides whether the key is mandatory.
var toolsRequiringProject = map[string]struct{}{
	"jira_list_issues":         {},
	"jira_create_issues_batch": {},
	"pm_link_meeting_issues":   {},
	"pm_get_meeting_issues":    {},
	"pm_get_project_snapshot":  {},
}

// PrereqValidator predicts which tools a request will need and blocks
// execution with a clarifying question when a project-scoped tool is
// predicted but no project key is resolved. Prediction failures fail
// open: execution proceeds and the tools themselves surface missing
// prerequisites.
type PrereqValidator struct {
	svc    reasoning.Service
	tools  tool.Service
	logger logging.Logger
}

// NewPrereqValidator constructs a prerequisite validator.
func NewPrereqValidator(svc reasoning.Service, tools tool.Service, logger logging.Logger) *PrereqValidator {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &PrereqValidator{svc: svc, tools: tools, logger: logger}
}

// Validate routes to the ask-project clarification or to the executor
// selected by the state's mode.
func (v *PrereqValidator) Validate(ctx context.Context, st *core.ConversationState) core.Route {
	proceed := core.RouteExecuteSimple
	if st.Mode == core.ModePlanExecute {
		proceed = core.RouteExecutePlan
	}

	if st.ProjectContext.ProjectKey != "" {
		return proceed
	}

	names := make([]string, 0)
	for _, d := range v.tools.List() {
		names = append(names, d.Name)
	}
	if len(names) == 0 {
		return proceed
	}

	resp, err := v.svc.Chat(ctx, reasoning.Request{
		Turns: []reasoning.Turn{{
			Role: core.RoleUser,
			Text: prompt.RenderToolPrediction(names, st.LastUserText()),
		}},
	})
	if err != nil {
		v.logger.Warn("validator.prediction_failed, proceeding", "error", err)
		return proceed
	}

	predicted := ParsePredictedTools(resp.Text)
	v.logger.Info("validator.predicted", "tools", predicted)

	for _, name := range predicted {
		if _, ok := toolsRequiringProject[name]; ok {
			v.logger.Info("validator.blocked, project key required", "tool", name)
			return core.RouteAskProject
		}
	}
	return proceed
}

// ParsePredictedTools splits a prediction answer into tool names. The
// literal "none" (in any casing) yields an empty list.
func ParsePredictedTools(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.Trim(strings.TrimSpace(p), "`\"'")
		if name != "" && !strings.EqualFold(name, "none") {
			names = append(names, name)
		}
	}
	return names
}
