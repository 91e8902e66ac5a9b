package node

import (
	"context"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/logging"
	"github.com/hupe1980/pmcopilot/prompt"
	"github.com/hupe1980/pmcopilot/reasoning"
)

// ChatResponder answers idle conversation with the copilot persona. It
// has no tool access on purpose; anything requiring tools goes through
// the PM work pipeline instead.
type ChatResponder struct {
	svc    reasoning.Service
	logger logging.Logger
}

// NewChatResponder constructs a chat responder.
func NewChatResponder(svc reasoning.Service, logger logging.Logger) *ChatResponder {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ChatResponder{svc: svc, logger: logger}
}

// Respond generates the final text of a chat turn. On any failure it
// returns the fixed fallback message so the turn still terminates
// cleanly.
func (c *ChatResponder) Respond(ctx context.Context, st *core.ConversationState) string {
	resp, err := c.svc.Chat(ctx, reasoning.Request{
		Instructions: prompt.ChatPersona,
		Turns:        reasoning.TurnsFromMessages(st.Messages),
	})
	if err != nil {
		c.logger.Warn("chat.failed", "error", err)
		return prompt.Message(prompt.MsgChatFallback, nil)
	}
	if resp.Text == "" {
		return prompt.Message(prompt.MsgChatFallback, nil)
	}
	return resp.Text
}
