package node

import (
	"context"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/logging"
	"github.com/hupe1980/pmcopilot/prompt"
	"github.com/hupe1980/pmcopilot/reasoning"
)

// TaskClassifier decides between the simple executor and the
// plan-execute engine. The default on any failure is simple: it is the
// cheaper path and still handles most work acceptably.
type TaskClassifier struct {
	svc    reasoning.Service
	logger logging.Logger
}

// NewTaskClassifier constructs a task complexity classifier.
func NewTaskClassifier(svc reasoning.Service, logger logging.Logger) *TaskClassifier {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &TaskClassifier{svc: svc, logger: logger}
}

// Classify sets the execution mode on the state and routes to the
// prerequisite validator.
func (c *TaskClassifier) Classify(ctx context.Context, st *core.ConversationState) core.Route {
	st.Mode = core.ModeSimple

	label, err := c.svc.Classify(ctx,
		prompt.RenderTaskClassification(st.LastUserText()),
		[]string{string(core.ModeSimple), string(core.ModePlanExecute)},
	)
	if err != nil {
		c.logger.Warn("task_classifier.failed, defaulting to simple", "error", err)
		return core.RouteValidate
	}

	if label == string(core.ModePlanExecute) {
		st.Mode = core.ModePlanExecute
	}
	c.logger.Info("task_classifier.decision", "mode", st.Mode)
	return core.RouteValidate
}
