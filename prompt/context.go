package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/pmcopilot/core"
)

// maxEmbeddedResultLen bounds how much of a prior step result, in
// runes, is folded into the next step's prompt.
const maxEmbeddedResultLen = 500

// FormatProjectContext renders the project context block embedded in
// executor system prompts. Unset fields render as explicit placeholders
// so the model never has to guess whether a value was omitted.
func FormatProjectContext(pc core.ProjectContext) string {
	if pc.ProjectKey == "" {
		return "- Project: Not specified (will use default or ask if needed for specific operations)"
	}
	parts := []string{fmt.Sprintf("- Project: %s", pc.ProjectKey)}
	if pc.SprintName != "" {
		parts = append(parts, fmt.Sprintf("- Sprint: %s", pc.SprintName))
	} else {
		parts = append(parts, "- Sprint: Not set")
	}
	if len(pc.TeamMembers) > 0 {
		parts = append(parts, fmt.Sprintf("- Team: %s", strings.Join(pc.TeamMembers, ", ")))
	} else {
		parts = append(parts, "- Team: Not specified")
	}
	return strings.Join(parts, "\n")
}

// BuildStepPrompt assembles the execution prompt for one plan step: the
// step description, project context, the last few tool results and an
// optional tool hint.
func BuildStepPrompt(step core.Step, pc core.ProjectContext, recent []core.StepResult) string {
	var b strings.Builder

	b.WriteString("**Current Step:**\n")
	b.WriteString(step.Description)
	b.WriteString("\n")

	if pc.ProjectKey != "" {
		b.WriteString("\n**Project Context:**\n")
		b.WriteString(fmt.Sprintf("- Project: %s\n", pc.ProjectKey))
		if pc.SprintName != "" {
			b.WriteString(fmt.Sprintf("- Sprint: %s\n", pc.SprintName))
		}
		if len(pc.TeamMembers) > 0 {
			team := pc.TeamMembers
			if len(team) > 3 {
				team = team[:3]
			}
			b.WriteString(fmt.Sprintf("- Team: %s\n", strings.Join(team, ", ")))
		}
	}

	if len(recent) > 0 {
		b.WriteString("\n**Previous Step Results:**\n")
		for _, r := range recent {
			icon := "[ok]"
			if r.Status != core.StepDone {
				icon = "[failed]"
			}
			b.WriteString(fmt.Sprintf("%s Step %d: %s\n", icon, r.StepIdx+1, r.Description))
			if r.Result != "" {
				result := r.Result
				// Truncate on a rune boundary so a multibyte result
				// never embeds invalid UTF-8 into the prompt.
				if runes := []rune(result); len(runes) > maxEmbeddedResultLen {
					result = string(runes[:maxEmbeddedResultLen]) + "... (truncated)"
				}
				b.WriteString(fmt.Sprintf("  Result: %s\n", result))
			}
		}
	}

	if step.ToolName != "" {
		b.WriteString("\n**Suggested Tool:**\n")
		if len(step.ToolArgs) > 0 {
			args, err := json.MarshalIndent(step.ToolArgs, "", "  ")
			if err != nil {
				args = []byte("{}")
			}
			b.WriteString(fmt.Sprintf("Use `%s` with arguments: %s\n", step.ToolName, args))
		} else {
			b.WriteString(fmt.Sprintf("Use `%s` (determine appropriate arguments based on context)\n", step.ToolName))
		}
	}

	b.WriteString("\n**Instructions:**\n")
	b.WriteString("Execute this step using the available tools. Provide a clear summary of what was accomplished and any key findings.\n")

	return b.String()
}

// BuildPlanSummary renders the terminal summary of a plan run,
// enumerating completed and failed steps.
func BuildPlanSummary(plan core.Plan) string {
	var completed, failed []core.Step
	for _, s := range plan.Steps {
		switch s.Status {
		case core.StepDone:
			completed = append(completed, s)
		case core.StepFailed:
			failed = append(failed, s)
		}
	}

	lines := []string{
		"**Plan Execution Complete**",
		"",
		fmt.Sprintf("**Goal:** %s", plan.Goal),
		fmt.Sprintf("**Reasoning:** %s", plan.Reasoning),
		"",
		fmt.Sprintf("**Steps Completed:** %d/%d", len(completed), len(plan.Steps)),
	}

	if len(failed) > 0 {
		lines = append(lines, fmt.Sprintf("**Failed Steps:** %d", len(failed)), "")
		for _, s := range failed {
			lines = append(lines, fmt.Sprintf("[failed] %s", s.Description))
			if s.Error != "" {
				lines = append(lines, fmt.Sprintf("  Error: %s", s.Error))
			}
		}
	}

	if len(completed) > 0 {
		lines = append(lines, "", "**Completed Steps:**")
		for _, s := range completed {
			lines = append(lines, fmt.Sprintf("[ok] %s", s.Description))
		}
	}

	return strings.Join(lines, "\n")
}
