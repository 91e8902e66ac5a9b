package redis

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/pmcopilot/core"
)

// encodeState serializes a conversation snapshot for storage.
func encodeState(state *core.ConversationState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// decodeState deserializes a stored snapshot.
func decodeState(data []byte) (*core.ConversationState, error) {
	var state core.ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}
