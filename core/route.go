package core

// Route is the closed set of transition targets a node can return. The
// orchestrator dispatches over this enum in a single switch; there is no
// graph library underneath.
type Route int

// Routing targets.
const (
	// RouteEnd terminates the turn.
	RouteEnd Route = iota
	// RouteChatResponse answers idle chat without tools.
	RouteChatResponse
	// RouteResolveContext extracts a project key from history.
	RouteResolveContext
	// RouteClassifyTask labels work as simple or plan_execute.
	RouteClassifyTask
	// RouteValidate checks tool prerequisites before execution.
	RouteValidate
	// RouteAskProject emits the fixed ask-for-project clarification.
	RouteAskProject
	// RouteExecuteSimple runs one bounded tool-calling episode.
	RouteExecuteSimple
	// RouteExecutePlan steps the plan-execute engine to a terminal phase.
	RouteExecutePlan
)

// String returns the route's node name as used in progress events.
func (r Route) String() string {
	switch r {
	case RouteEnd:
		return "end"
	case RouteChatResponse:
		return "chat_response"
	case RouteResolveContext:
		return "resolve_context"
	case RouteClassifyTask:
		return "classify_task"
	case RouteValidate:
		return "validate"
	case RouteAskProject:
		return "ask_project"
	case RouteExecuteSimple:
		return "execute_simple"
	case RouteExecutePlan:
		return "execute_plan"
	default:
		return "unknown"
	}
}
