package core

// Role identifies the author of a conversation message.
type Role string

// Conversation roles understood by the reasoning providers.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn of the conversation. Metadata may carry
// project hints (project_key, sprint_name, team_members) supplied by the
// transport layer; the orchestrator validates and extracts them at the
// boundary.
type Message struct {
	Role     Role           `json:"role"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// NewAssistantMessage creates an assistant-authored text message.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}
