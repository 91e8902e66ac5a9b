package core

import (
	"strings"
	"time"
)

// Mode selects the execution strategy for project-management work.
type Mode string

// Execution modes.
const (
	// ModeSimple handles single-action requests in one bounded
	// reasoning/tool episode.
	ModeSimple Mode = "simple"
	// ModePlanExecute handles multi-step workflows through the
	// plan-execute engine.
	ModePlanExecute Mode = "plan_execute"
)

// ProjectContext carries the project scope resolved from the
// conversation. ProjectKey is the only field that gates tool execution.
type ProjectContext struct {
	ProjectKey  string   `json:"project_key,omitempty"`
	SprintName  string   `json:"sprint_name,omitempty"`
	TeamMembers []string `json:"team_members,omitempty"`
}

// UserContext holds audit-only identity fields attached by the transport
// layer. It is never consulted for authorization decisions.
type UserContext struct {
	UserID      string `json:"user_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// ConversationState is the per-thread state owned by the orchestrator.
// It is created on the first message of a thread (or reconstructed from
// the state store), mutated once per orchestrator invocation and
// persisted at the end of each invocation. Messages and ToolResults are
// append-only within a turn.
type ConversationState struct {
	ThreadID       string         `json:"thread_id"`
	Messages       []Message      `json:"messages"`
	ProjectContext ProjectContext `json:"project_context"`
	Mode           Mode           `json:"mode"`
	Plan           *Plan          `json:"plan,omitempty"`
	ToolResults    []StepResult   `json:"tool_results,omitempty"`
	RemainingSteps int            `json:"remaining_steps"`
	UserContext    *UserContext   `json:"user_context,omitempty"`
	Created        time.Time      `json:"created"`
	Updated        time.Time      `json:"updated"`
}

// NewConversationState creates an empty state for a thread.
func NewConversationState(threadID string) *ConversationState {
	now := time.Now().UTC()
	return &ConversationState{
		ThreadID: threadID,
		Messages: []Message{},
		Mode:     ModeSimple,
		Created:  now,
		Updated:  now,
	}
}

// AppendMessage adds a message to the history.
func (s *ConversationState) AppendMessage(m Message) {
	s.Messages = append(s.Messages, m)
	s.Updated = time.Now().UTC()
}

// AppendToolResult adds an entry to the tool result log.
func (s *ConversationState) AppendToolResult(r StepResult) {
	s.ToolResults = append(s.ToolResults, r)
	s.Updated = time.Now().UTC()
}

// LastUserText returns the text of the most recent user message, or ""
// when the history holds none.
func (s *ConversationState) LastUserText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Text
		}
	}
	return ""
}

// RecentHistory returns up to n messages preceding the latest one,
// rendered for classification prompts. An empty history renders as a
// placeholder so prompts stay well-formed.
func (s *ConversationState) RecentHistory(n int) string {
	if len(s.Messages) <= 1 {
		return "(No previous context)"
	}
	prior := s.Messages[:len(s.Messages)-1]
	if len(prior) > n {
		prior = prior[len(prior)-n:]
	}
	return Transcript(prior)
}

// Transcript renders messages as a "User:"/"Assistant:" dialogue for
// prompt embedding.
func Transcript(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := "Assistant"
		if m.Role == RoleUser {
			label = "User"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(m.Text)
	}
	return b.String()
}

// RecentToolResults returns up to n of the most recent tool result
// entries.
func (s *ConversationState) RecentToolResults(n int) []StepResult {
	if len(s.ToolResults) <= n {
		return s.ToolResults
	}
	return s.ToolResults[len(s.ToolResults)-n:]
}

// Clone returns a deep copy of the state safe for independent mutation.
func (s *ConversationState) Clone() *ConversationState {
	clone := *s
	clone.Messages = make([]Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	clone.ToolResults = make([]StepResult, len(s.ToolResults))
	copy(clone.ToolResults, s.ToolResults)
	if s.ProjectContext.TeamMembers != nil {
		clone.ProjectContext.TeamMembers = append([]string(nil), s.ProjectContext.TeamMembers...)
	}
	if s.Plan != nil {
		p := s.Plan.Clone()
		clone.Plan = &p
	}
	if s.UserContext != nil {
		uc := *s.UserContext
		clone.UserContext = &uc
	}
	return &clone
}
