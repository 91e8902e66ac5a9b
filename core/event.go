package core

import "time"

// EventKind discriminates progress events on the turn's output stream.
type EventKind string

// Progress event kinds. A turn emits zero or more node/tool events
// followed by exactly one final event.
const (
	EventNodeStarted   EventKind = "node_started"
	EventToolStarted   EventKind = "tool_started"
	EventToolCompleted EventKind = "tool_completed"
	EventFinal         EventKind = "final"
)

// TerminalStatus is the outcome carried by the final event. Budget
// exhaustion counts as completed (partial), not failed.
type TerminalStatus string

// Terminal statuses.
const (
	StatusCompleted TerminalStatus = "completed"
	StatusFailed    TerminalStatus = "failed"
)

// Event is one entry of the per-turn progress stream delivered to the
// upstream presentation layer. After emission it should be treated as
// immutable.
type Event struct {
	ID        string         `json:"id"`
	Kind      EventKind      `json:"kind"`
	Node      string         `json:"node,omitempty"`
	Tool      string         `json:"tool,omitempty"`
	Text      string         `json:"text,omitempty"`
	Status    TerminalStatus `json:"status,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func newEvent(kind EventKind) Event {
	return Event{ID: NewID(), Kind: kind, Timestamp: time.Now().UTC()}
}

// NewNodeStartedEvent signals that a routing or execution node began.
func NewNodeStartedEvent(node string) Event {
	ev := newEvent(EventNodeStarted)
	ev.Node = node
	return ev
}

// NewToolStartedEvent signals that a tool invocation began.
func NewToolStartedEvent(tool string) Event {
	ev := newEvent(EventToolStarted)
	ev.Tool = tool
	return ev
}

// NewToolCompletedEvent signals that a tool invocation finished.
func NewToolCompletedEvent(tool string) Event {
	ev := newEvent(EventToolCompleted)
	ev.Tool = tool
	return ev
}

// NewFinalEvent carries the single final assistant message of a turn.
func NewFinalEvent(text string, status TerminalStatus) Event {
	ev := newEvent(EventFinal)
	ev.Text = text
	ev.Status = status
	return ev
}

// IsFinal reports whether this event terminates the turn's stream.
func (e Event) IsFinal() bool { return e.Kind == EventFinal }
