// Package store defines the optional state store boundary that persists
// per-thread conversation state between turns. A nil store means
// stateless, single-turn operation. The caller is responsible for
// serializing invocations per thread; implementations do not lock across
// processes.
package store

import (
	"context"
	"errors"

	"github.com/hupe1980/pmcopilot/core"
)

// ErrNotFound is returned by Load when no state exists for a thread.
var ErrNotFound = errors.New("conversation state not found")

// StateStore persists conversation state keyed by thread identifier.
type StateStore interface {
	// Load retrieves the state for a thread or ErrNotFound.
	Load(ctx context.Context, threadID string) (*core.ConversationState, error)

	// Save persists the state for a thread, replacing any prior snapshot.
	Save(ctx context.Context, threadID string, state *core.ConversationState) error
}
