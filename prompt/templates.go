package prompt

import "strings"

// render substitutes {key} placeholders in a template.
func render(tmpl string, vars map[string]string) string {
	for k, v := range vars {
		tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", v)
	}
	return tmpl
}

// ConversationClassification is the two-label taxonomy prompt separating
// idle chat from project-management work. A confirmation of a pending PM
// task must classify as pm_work, so the recent history is embedded.
const ConversationClassification = `Classify the user's request based on conversation history.

CATEGORIES:

1. "chat" - Simple conversational queries that DON'T require PM tools:
   - Greetings: "hello", "hi", "hey", "how are you"
   - General questions: "what can you do", "who are you", "help"
   - Small talk: "thanks", "ok", "got it", "sounds good"
   - Standalone acknowledgments with NO previous context: "ok", "no", "agreed"

2. "pm_work" - Requests requiring PM tools (issue tracker, wiki, calendar):
   - Issue operations: "create an issue", "show the backlog", "update the task"
   - Wiki: "search the wiki", "show the documentation"
   - Calendar: "what meetings do I have today", "create an event"
   - Reports: "generate a report", "project status"
   - PM operations: "link the meeting to the issue", "action items"
   - Confirmations of PM tasks: "yes, check it", "yes, create it", "go ahead"

IMPORTANT: Consider the conversation history! If the assistant asked to confirm
a PM task and the user says "yes", "do it", etc., classify it as "pm_work".

CONVERSATION HISTORY:
{history}

CURRENT USER MESSAGE: {message}

Return ONLY ONE WORD: "chat" OR "pm_work"`

// RenderConversationClassification fills in the classification prompt.
func RenderConversationClassification(history, message string) string {
	return render(ConversationClassification, map[string]string{
		"history": history,
		"message": message,
	})
}

// ProjectDetection asks for an explicit or implicit project key from the
// full conversation, answering UNKNOWN when none can be determined with
// confidence.
const ProjectDetection = `Analyze the conversation history and extract the project key if mentioned.

Look for project keys in these patterns:
1. Explicit mentions: "we are working on project ALPHA", "project BETA"
2. Implicit context: "issue ALPHA-123" means project_key=ALPHA
3. Context from previous messages: if the user mentioned a project earlier, use that

Project key format:
- Usually 3-6 uppercase letters
- Examples: ALPHA, BETA, GAMMA, PROJ, DEV, TEST

Priority rules:
- Recent mentions have higher priority than old ones
- Explicit mentions override implicit ones
- If multiple projects are mentioned, use the most recent

Conversation history:
{conversation_history}

Return ONLY the project key (e.g., "ALPHA") or "UNKNOWN" if you cannot determine it with confidence.`

// RenderProjectDetection fills in the project detection prompt.
func RenderProjectDetection(history string) string {
	return render(ProjectDetection, map[string]string{"conversation_history": history})
}

// TaskClassification separates single-step requests from multi-step
// workflows that need planning.
const TaskClassification = `Classify this PM request into one of two execution modes:

1. "simple" - Straightforward single-step tasks:
   - List issues: "show all tasks", "list issues"
   - Create a single issue: "create an issue with description X"
   - Search docs: "find the documentation", "search the wiki"
   - Schedule a meeting: "create a meeting for tomorrow"
   - Link a meeting to an issue
   - Single query operations

2. "plan_execute" - Multi-step complex workflows:
   - Sprint planning: "prepare the sprint plan", "analyze the backlog"
   - Status reports: "generate a project report", "status of all tasks"
   - Complex analysis: "which tasks are blocked", "risk analysis"
   - Multi-step operations: "create tasks based on the document"
   - Retrospective reviews: "analyze the sprint"

Request: {request}

Guidelines:
- If the request requires gathering data from multiple sources: plan_execute
- If the request requires multiple sequential operations: plan_execute
- If the request is a single straightforward operation: simple

Return ONLY ONE WORD: "simple" OR "plan_execute"`

// RenderTaskClassification fills in the task classification prompt.
func RenderTaskClassification(request string) string {
	return render(TaskClassification, map[string]string{"request": request})
}

// ToolPrediction asks which tools from the live catalog a request will
// likely need, as a comma-separated list or "none".
const ToolPrediction = `Given this user request, predict which tools will likely be called to fulfill it.

Available tools:
{tool_names}

User request:
{request}

Instructions:
- Analyze the user's intent carefully
- Return a comma-separated list of tool names that will likely be needed
- If no tools are needed (unlikely), return "none"
- Be conservative: it's better to predict a tool that won't be used than to miss one that's needed

Examples:
- "create an issue in ALPHA" -> jira_create_issues_batch
- "show all tasks in project BETA" -> jira_list_issues
- "find the API documentation" -> confluence_search_pages
- "what meetings do I have today" -> calendar_list_events
- "link the meeting to issue ALPHA-123" -> pm_link_meeting_issues
- "status of project GAMMA" -> pm_get_project_snapshot

Return ONLY comma-separated tool names (or "none"):`

// RenderToolPrediction fills in the tool prediction prompt.
func RenderToolPrediction(toolNames []string, request string) string {
	return render(ToolPrediction, map[string]string{
		"tool_names": strings.Join(toolNames, ", "),
		"request":    request,
	})
}

// PlannerSystem instructs the reasoning service to break a complex goal
// into ordered, tool-bound steps.
const PlannerSystem = `You are a strategic planner for a project management copilot.

Your task is to analyze complex project management requests and break them down into concrete, executable steps.

**Available Tools:**
{tools}

**Guidelines:**

1. **Analyze the Goal**: Understand what the user wants to accomplish and why
2. **Break Down into Steps**: Create a sequence of concrete, actionable steps
3. **Assign Tools**: For each step, specify which tool to use and what arguments it needs
4. **Consider Dependencies**: Ensure steps are ordered correctly
5. **Be Specific**: Use exact tool names and provide detailed step descriptions
6. **Stay Focused**: Only include steps necessary to achieve the goal

**Output Format:**
Respond with a JSON object:
- "goal": clear statement of what we are trying to achieve
- "reasoning": why this plan was chosen
- "steps": array of objects, each with:
  - "description": what this step does
  - "tool_name": name of the tool to use (or null for reasoning steps)
  - "tool_args": object of arguments for the tool (or null)`

// RenderPlannerSystem fills in the planner system prompt.
func RenderPlannerSystem(tools string) string {
	return render(PlannerSystem, map[string]string{"tools": tools})
}

// ChatPersona is the system prompt for idle conversational replies. It
// deliberately has no tool access.
const ChatPersona = `You are PM Copilot, an AI assistant for project management.

You can:
- Create and search issues in the issue tracker
- Search wiki documentation
- Manage calendar events
- Generate status reports
- Link meetings to tasks

Answer in a friendly and concise way. If the user asks for help with a task, suggest concrete actions.`

// ExecutorSystem is the system prompt for tool-calling execution
// episodes, parameterized by the current project context.
const ExecutorSystem = `You are PM Copilot, an AI assistant specialized in project management tasks.

You have access to tools for managing issues, wiki pages, calendar events,
and PM-specific operations like linking meetings to issues.

**Your capabilities:**
- Create, update, and list issues
- Search and read wiki documentation
- Manage calendar events
- Link meetings to issues
- Generate project status reports

**Guidelines:**
- Use the available tools to accomplish user requests efficiently
- Always confirm what you're doing before executing actions
- Provide clear, concise responses
- If you're unsure, ask for clarification
- Format responses in a user-friendly way

**Current project context:**
{project_context}`

// RenderExecutorSystem fills in the executor system prompt.
func RenderExecutorSystem(projectContext string) string {
	return render(ExecutorSystem, map[string]string{"project_context": projectContext})
}
