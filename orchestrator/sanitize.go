package orchestrator

import (
	"strings"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/logging"
)

// maxMessageLen bounds incoming message text in runes. Longer texts are
// truncated rather than rejected so a pasted document still yields a
// useful turn.
const maxMessageLen = 10000

// Metadata keys recognized at the transport boundary.
const (
	metaProjectKey  = "project_key"
	metaSprintName  = "sprint_name"
	metaTeamMembers = "team_members"
	metaUserID      = "user_id"
	metaDisplayName = "display_name"
	metaEmail       = "email"
)

// sanitizeText truncates oversized message text.
func sanitizeText(text string, logger logging.Logger) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLen {
		return text
	}
	logger.Warn("message.truncated", "original_len", len(runes), "max_len", maxMessageLen)
	return string(runes[:maxMessageLen])
}

// applyMetadata folds validated transport metadata into the project
// context. Values of the wrong type are logged and dropped; they never
// fail the turn.
func applyMetadata(st *core.ConversationState, metadata map[string]any, logger logging.Logger) {
	if len(metadata) == 0 {
		return
	}

	if v, ok := metadata[metaProjectKey]; ok {
		if key, ok := v.(string); ok && strings.TrimSpace(key) != "" {
			st.ProjectContext.ProjectKey = strings.ToUpper(strings.TrimSpace(key))
		} else {
			logger.Warn("metadata.dropped", "key", metaProjectKey, "reason", "not a non-empty string")
		}
	}

	if v, ok := metadata[metaSprintName]; ok {
		if name, ok := v.(string); ok && strings.TrimSpace(name) != "" {
			st.ProjectContext.SprintName = strings.TrimSpace(name)
		} else {
			logger.Warn("metadata.dropped", "key", metaSprintName, "reason", "not a non-empty string")
		}
	}

	if v, ok := metadata[metaTeamMembers]; ok {
		if members, ok := stringSlice(v); ok {
			st.ProjectContext.TeamMembers = members
		} else {
			logger.Warn("metadata.dropped", "key", metaTeamMembers, "reason", "not a string list")
		}
	}

	applyUserContext(st, metadata, logger)
}

// applyUserContext fills the audit-only identity fields. They are never
// consulted for routing or authorization.
func applyUserContext(st *core.ConversationState, metadata map[string]any, logger logging.Logger) {
	var uc core.UserContext
	if st.UserContext != nil {
		uc = *st.UserContext
	}
	set := st.UserContext != nil
	for key, target := range map[string]*string{
		metaUserID:      &uc.UserID,
		metaDisplayName: &uc.DisplayName,
		metaEmail:       &uc.Email,
	} {
		v, ok := metadata[key]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			*target = s
			set = true
		} else {
			logger.Warn("metadata.dropped", "key", key, "reason", "not a non-empty string")
		}
	}
	if set {
		st.UserContext = &uc
	}
}

// stringSlice accepts []string directly and []any holding only strings,
// the shape JSON decoding produces.
func stringSlice(v any) ([]string, bool) {
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...), true
	case []any:
		members := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			members = append(members, s)
		}
		return members, true
	default:
		return nil, false
	}
}
