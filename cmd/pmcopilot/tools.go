package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/pmcopilot"
	"github.com/hupe1980/pmcopilot/tool"
)

// demoIssue is an in-memory stand-in for a tracker issue, used until the
// CLI grows real Jira/Confluence connectors.
type demoIssue struct {
	Key      string `json:"key"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Assignee string `json:"assignee,omitempty"`
}

// demoBacklog seeds the in-memory tracker so list/create calls have
// something to work with out of the box.
type demoBacklog struct {
	mu     sync.Mutex
	nextID int
	issues map[string][]demoIssue
}

func newDemoBacklog() *demoBacklog {
	return &demoBacklog{
		nextID: 4,
		issues: map[string][]demoIssue{
			"ALPHA": {
				{Key: "ALPHA-1", Summary: "Set up CI pipeline", Status: "Done", Assignee: "kim"},
				{Key: "ALPHA-2", Summary: "Implement login flow", Status: "In Progress", Assignee: "sasha"},
				{Key: "ALPHA-3", Summary: "Write onboarding docs", Status: "To Do"},
			},
		},
	}
}

func (b *demoBacklog) list(project string) []demoIssue {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]demoIssue(nil), b.issues[project]...)
}

func (b *demoBacklog) create(project, summary string) demoIssue {
	b.mu.Lock()
	defer b.mu.Unlock()
	issue := demoIssue{
		Key:     fmt.Sprintf("%s-%d", project, b.nextID),
		Summary: summary,
		Status:  "To Do",
	}
	b.nextID++
	b.issues[project] = append(b.issues[project], issue)
	return issue
}

// registerDemoTools wires a small in-memory PM toolset so the CLI is
// usable without external services.
func registerDemoTools(c *pmcopilot.Copilot) {
	backlog := newDemoBacklog()

	c.RegisterTool(tool.NewFunctionTool(
		"jira_list_issues",
		"List issues of a project, optionally filtered by status",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"project_key": map[string]any{"type": "string"},
				"status":      map[string]any{"type": "string"},
			},
			"required": []string{"project_key"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			project, _ := args["project_key"].(string)
			if project == "" {
				return nil, tool.NewToolError("jira_list_issues", "project_key is required", "MISSING_ARGUMENT")
			}
			status, _ := args["status"].(string)
			issues := backlog.list(strings.ToUpper(project))
			if status != "" {
				filtered := issues[:0]
				for _, i := range issues {
					if strings.EqualFold(i.Status, status) {
						filtered = append(filtered, i)
					}
				}
				issues = filtered
			}
			return map[string]any{"issues": issues, "count": len(issues)}, nil
		},
	))

	c.RegisterTool(tool.NewFunctionTool(
		"jira_create_issues_batch",
		"Create one or more issues in a project",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"project_key": map[string]any{"type": "string"},
				"summaries": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []string{"project_key", "summaries"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			project, _ := args["project_key"].(string)
			if project == "" {
				return nil, tool.NewToolError("jira_create_issues_batch", "project_key is required", "MISSING_ARGUMENT")
			}
			raw, _ := args["summaries"].([]any)
			created := make([]demoIssue, 0, len(raw))
			for _, item := range raw {
				if summary, ok := item.(string); ok && summary != "" {
					created = append(created, backlog.create(strings.ToUpper(project), summary))
				}
			}
			return map[string]any{"created": created}, nil
		},
	))

	c.RegisterTool(tool.NewFunctionTool(
		"confluence_search_pages",
		"Search wiki pages by text query",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
			},
			"required": []string{"query"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			return map[string]any{
				"pages": []map[string]string{
					{"title": "Team Handbook", "url": "https://wiki.example.com/handbook"},
					{"title": fmt.Sprintf("Search notes: %s", query), "url": "https://wiki.example.com/notes"},
				},
			}, nil
		},
	))

	c.RegisterTool(tool.NewFunctionTool(
		"calendar_list_events",
		"List calendar events for a day (defaults to today)",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"date": map[string]any{"type": "string", "description": "YYYY-MM-DD"},
			},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			date, _ := args["date"].(string)
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			return map[string]any{
				"date": date,
				"events": []map[string]string{
					{"time": "10:00", "title": "Daily standup"},
					{"time": "14:00", "title": "Sprint planning"},
				},
			}, nil
		},
	))

	c.RegisterTool(tool.NewFunctionTool(
		"pm_get_project_snapshot",
		"Summarize the current state of a project: issue counts by status",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"project_key": map[string]any{"type": "string"},
			},
			"required": []string{"project_key"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			project, _ := args["project_key"].(string)
			if project == "" {
				return nil, tool.NewToolError("pm_get_project_snapshot", "project_key is required", "MISSING_ARGUMENT")
			}
			counts := map[string]int{}
			for _, i := range backlog.list(strings.ToUpper(project)) {
				counts[i.Status]++
			}
			return map[string]any{"project_key": strings.ToUpper(project), "by_status": counts}, nil
		},
	))
}
