package node

import (
	"context"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/logging"
	"github.com/hupe1980/pmcopilot/prompt"
	"github.com/hupe1980/pmcopilot/reasoning"
)

// recentHistoryTurns bounds how much prior context the conversation
// classifier sees.
const recentHistoryTurns = 5

// Classifier separates idle chat from project-management work. It fails
// open to pm_work so real work is never silently dropped on a reasoning
// failure.
type Classifier struct {
	svc    reasoning.Service
	logger logging.Logger
}

// NewClassifier constructs a conversation classifier.
func NewClassifier(svc reasoning.Service, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Classifier{svc: svc, logger: logger}
}

// Classify routes the latest message to the chat responder or into the
// PM work pipeline. It never mutates state.
func (c *Classifier) Classify(ctx context.Context, st *core.ConversationState) core.Route {
	last := st.LastUserText()
	history := st.RecentHistory(recentHistoryTurns)

	label, err := c.svc.Classify(ctx,
		prompt.RenderConversationClassification(history, last),
		[]string{"chat", "pm_work"},
	)
	if err != nil {
		c.logger.Warn("classifier.failed, falling back to pm_work", "error", err)
		return core.RouteResolveContext
	}

	c.logger.Info("classifier.decision", "label", label)

	if label == "chat" {
		return core.RouteChatResponse
	}
	// Unknown labels route to PM work as well; dropping real work is
	// worse than answering small talk with tools available.
	return core.RouteResolveContext
}
