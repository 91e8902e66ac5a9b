package node

import (
	"context"
	"regexp"
	"strings"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/logging"
	"github.com/hupe1980/pmcopilot/prompt"
	"github.com/hupe1980/pmcopilot/reasoning"
)

// unknownProjectKey is the sentinel the detection prompt uses when no
// key can be determined with confidence.
const unknownProjectKey = "UNKNOWN"

// projectKeyPattern accepts a bare key, optionally written as an issue
// reference like ALPHA-123.
var projectKeyPattern = regexp.MustCompile(`^([A-Z]{3,6})(?:-\d+)?$`)

// ContextResolver extracts the project key from the conversation and
// pins it on the state. Resolution is sticky: once a key is set it is
// never re-derived, only an explicit new mention in a later turn can
// change it through the transport metadata path.
type ContextResolver struct {
	svc    reasoning.Service
	logger logging.Logger
}

// NewContextResolver constructs a project context resolver.
func NewContextResolver(svc reasoning.Service, logger logging.Logger) *ContextResolver {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ContextResolver{svc: svc, logger: logger}
}

// Resolve fills ProjectContext.ProjectKey from the full conversation
// history when it is still unset. Failures are non-fatal; the
// prerequisite validator decides later whether a missing key blocks the
// request.
func (r *ContextResolver) Resolve(ctx context.Context, st *core.ConversationState) core.Route {
	if st.ProjectContext.ProjectKey != "" {
		r.logger.Debug("resolver.skip, key already set", "project_key", st.ProjectContext.ProjectKey)
		return core.RouteClassifyTask
	}

	resp, err := r.svc.Chat(ctx, reasoning.Request{
		Turns: []reasoning.Turn{{
			Role: core.RoleUser,
			Text: prompt.RenderProjectDetection(core.Transcript(st.Messages)),
		}},
	})
	if err != nil {
		r.logger.Warn("resolver.failed, leaving project unset", "error", err)
		return core.RouteClassifyTask
	}

	if key, ok := ParseProjectKey(resp.Text); ok {
		st.ProjectContext.ProjectKey = key
		r.logger.Info("resolver.detected", "project_key", key)
	} else {
		r.logger.Debug("resolver.no_key", "answer", strings.TrimSpace(resp.Text))
	}
	return core.RouteClassifyTask
}

// ParseProjectKey normalizes a detection answer to a canonical project
// key. The sentinel UNKNOWN and anything not shaped like a key are
// rejected.
func ParseProjectKey(raw string) (string, bool) {
	candidate := strings.ToUpper(strings.Trim(strings.TrimSpace(raw), `"'`))
	if candidate == "" || candidate == unknownProjectKey {
		return "", false
	}
	m := projectKeyPattern.FindStringSubmatch(candidate)
	if m == nil {
		return "", false
	}
	return m[1], true
}
