package reasoning

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/pmcopilot/core"
)

// planEnvelope is the JSON shape providers are instructed to emit for
// plan generation.
type planEnvelope struct {
	Goal      string `json:"goal"`
	Reasoning string `json:"reasoning"`
	Steps     []struct {
		Description string         `json:"description"`
		ToolName    string         `json:"tool_name"`
		ToolArgs    map[string]any `json:"tool_args"`
	} `json:"steps"`
}

// ParsePlan decodes a provider's plan JSON into a core.Plan with fresh
// step IDs, pending statuses and the step index reset to 0. The goal
// falls back to the request's goal when the provider omitted it. A plan
// without steps is an error so callers can apply their fallback.
func ParsePlan(goal string, data []byte) (*core.Plan, error) {
	var env planEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if len(env.Steps) == 0 {
		return nil, fmt.Errorf("plan has no steps")
	}
	if env.Goal == "" {
		env.Goal = goal
	}

	steps := make([]core.Step, 0, len(env.Steps))
	for _, s := range env.Steps {
		step := core.NewStep(strings.TrimSpace(s.Description))
		step.ToolName = s.ToolName
		step.ToolArgs = s.ToolArgs
		steps = append(steps, step)
	}

	plan := &core.Plan{
		Goal:           env.Goal,
		Reasoning:      env.Reasoning,
		Steps:          steps,
		CurrentStepIdx: 0,
	}
	return plan, plan.Validate()
}

// FormatToolCatalog renders tool definitions as a bullet list for plan
// and prediction prompts.
func FormatToolCatalog(tools []ToolDefinition) string {
	if len(tools) == 0 {
		return "No tools available"
	}
	lines := make([]string, 0, len(tools))
	for _, t := range tools {
		lines = append(lines, fmt.Sprintf("- **%s**: %s", t.Name, t.Description))
	}
	return strings.Join(lines, "\n")
}

// ExtractJSON strips markdown code fences and surrounding prose from a
// completion, returning the outermost JSON object. Providers are asked
// for bare JSON but models occasionally wrap it anyway.
func ExtractJSON(text string) []byte {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || end < start {
		return []byte(text)
	}
	return []byte(text[start : end+1])
}

// NormalizeLabel lower-cases and trims a raw classification completion
// and reports whether it matches one of the allowed labels.
func NormalizeLabel(raw string, labels []string) (string, bool) {
	normalized := strings.ToLower(strings.Trim(strings.TrimSpace(raw), `"'`))
	for _, l := range labels {
		if normalized == l {
			return l, true
		}
	}
	return normalized, false
}
