package prompt

import "strings"

// Catalog message keys.
const (
	MsgAskProjectKey   = "ask_project_key"
	MsgChatFallback    = "chat_fallback"
	MsgExecutionError  = "execution_error"
	MsgPlanAborted     = "plan_aborted"
	MsgBudgetExhausted = "budget_exhausted"
	MsgInternalError   = "internal_error"
)

// Catalog maps message keys to templates with {name} placeholders.
// Swapping this map localizes every user-facing message without touching
// transition code.
var Catalog = map[string]string{
	MsgAskProjectKey: "To handle this request I need to know which project to work with.\n\n" +
		"Please provide the project key (for example: ALPHA, BETA, GAMMA).",
	MsgChatFallback:   "Sorry, something went wrong. Please try again.",
	MsgExecutionError: "Something went wrong while handling your request. Please try rephrasing it.",
	MsgPlanAborted:    "Plan aborted: the final step '{description}' failed.\n\nError: {error}",
	MsgBudgetExhausted: "The iteration limit was reached before the plan finished. " +
		"The plan was partially completed.",
	MsgInternalError: "Sorry, an internal error occurred and this request could not be completed.",
}

// Message renders a catalog entry, substituting {key} placeholders from
// vars. Unknown catalog keys render as the key itself so a missing entry
// is visible rather than silent.
func Message(key string, vars map[string]string) string {
	tmpl, ok := Catalog[key]
	if !ok {
		return key
	}
	for k, v := range vars {
		tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", v)
	}
	return tmpl
}
