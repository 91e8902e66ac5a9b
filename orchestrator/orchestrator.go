package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/logging"
	"github.com/hupe1980/pmcopilot/node"
	"github.com/hupe1980/pmcopilot/prompt"
	"github.com/hupe1980/pmcopilot/reasoning"
	"github.com/hupe1980/pmcopilot/store"
	"github.com/hupe1980/pmcopilot/tool"
)

// Defaults applied by New when options are left unset.
const (
	DefaultMaxPlanCycles   = 10
	DefaultEventBufferSize = 100
)

// classifierNode is the entry node name as reported on the event
// stream; it has no Route value because nothing routes back into it.
const classifierNode = "classify_conversation"

// Options holds dependency and configuration overrides passed to New.
type Options struct {
	// Store persists conversation state across turns. Nil keeps state
	// within a single turn only.
	Store store.StateStore
	// MaxIterations bounds one reasoning/tool episode.
	MaxIterations int
	// MaxPlanCycles reseeds the plan step budget at the start of every
	// turn.
	MaxPlanCycles int
	// EventBufferSize sets the progress channel buffer.
	EventBufferSize int
	// Logger defaults to a no-op logger.
	Logger logging.Logger
}

// Orchestrator drives one conversation turn through the routing nodes.
// Public methods are safe for concurrent use across threads; turns of
// the same thread must not overlap.
type Orchestrator struct {
	classifier     *node.Classifier
	resolver       *node.ContextResolver
	taskClassifier *node.TaskClassifier
	validator      *node.PrereqValidator
	chat           *node.ChatResponder
	simple         *node.SimpleExecutor
	engine         *node.Engine

	store           store.StateStore
	maxPlanCycles   int
	eventBufferSize int
	logger          logging.Logger
}

// New constructs an orchestrator over a reasoning service and tool
// catalog, wiring every routing node with shared defaults.
func New(svc reasoning.Service, tools tool.Service, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MaxIterations:   node.DefaultMaxIterations,
		MaxPlanCycles:   DefaultMaxPlanCycles,
		EventBufferSize: DefaultEventBufferSize,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxPlanCycles < 1 {
		opts.MaxPlanCycles = DefaultMaxPlanCycles
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	executor := node.NewSimpleExecutor(svc, tools, opts.MaxIterations, opts.Logger)

	return &Orchestrator{
		classifier:      node.NewClassifier(svc, opts.Logger),
		resolver:        node.NewContextResolver(svc, opts.Logger),
		taskClassifier:  node.NewTaskClassifier(svc, opts.Logger),
		validator:       node.NewPrereqValidator(svc, tools, opts.Logger),
		chat:            node.NewChatResponder(svc, opts.Logger),
		simple:          executor,
		engine:          node.NewEngine(svc, tools, executor, opts.Logger),
		store:           opts.Store,
		maxPlanCycles:   opts.MaxPlanCycles,
		eventBufferSize: opts.EventBufferSize,
		logger:          opts.Logger,
	}
}

// Run processes one turn asynchronously and returns its progress
// stream. The channel is closed after the single final event.
func (o *Orchestrator) Run(ctx context.Context, threadID string, msg core.Message) (<-chan core.Event, error) {
	if threadID == "" {
		return nil, fmt.Errorf("thread id must not be empty")
	}
	if msg.Role != core.RoleUser {
		return nil, fmt.Errorf("turn input must be a user message, got role %q", msg.Role)
	}

	events := make(chan core.Event, o.eventBufferSize)
	go func() {
		defer close(events)
		// Guard every send with the context so an abandoned consumer
		// cannot park the turn goroutine forever; once cancelled,
		// events are dropped and the between-node checks end the turn.
		emit := func(ev core.Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		o.processTurn(ctx, threadID, msg, emit)
	}()
	return events, nil
}

// RunSync processes one turn and blocks until the final event, returning
// it alongside the full event trace. A failed terminal is a valid
// outcome, not an error; the error return covers invalid input only.
func (o *Orchestrator) RunSync(ctx context.Context, threadID string, msg core.Message) (core.Event, []core.Event, error) {
	ch, err := o.Run(ctx, threadID, msg)
	if err != nil {
		return core.Event{}, nil, err
	}

	var (
		events []core.Event
		final  core.Event
	)
	for ev := range ch {
		events = append(events, ev)
		if ev.IsFinal() {
			final = ev
		}
	}
	return final, events, nil
}

// processTurn runs the full turn lifecycle and emits exactly one final
// event regardless of which path terminates it.
func (o *Orchestrator) processTurn(ctx context.Context, threadID string, msg core.Message, emit node.Emitter) {
	st := o.loadState(ctx, threadID)

	msg.Text = sanitizeText(msg.Text, o.logger)
	applyMetadata(st, msg.Metadata, o.logger)
	st.AppendMessage(msg)

	// Every turn gets a fresh budget and a fresh plan; the previous
	// turn's plan is kept in the snapshot for audit only.
	st.RemainingSteps = o.maxPlanCycles
	st.Plan = nil

	final, status := o.route(ctx, st, emit)

	st.AppendMessage(core.NewAssistantMessage(final))
	o.saveState(ctx, threadID, st)

	emit(core.NewFinalEvent(final, status))
}

// route dispatches over the routing enum until a node terminates the
// turn. Context cancellation between nodes is cooperative and yields a
// failed terminal.
func (o *Orchestrator) route(ctx context.Context, st *core.ConversationState, emit node.Emitter) (string, core.TerminalStatus) {
	emit(core.NewNodeStartedEvent(classifierNode))
	r := o.classifier.Classify(ctx, st)

	for {
		if ctx.Err() != nil {
			o.logger.Warn("turn.cancelled", "thread_id", st.ThreadID)
			return prompt.Message(prompt.MsgInternalError, nil), core.StatusFailed
		}

		switch r {
		case core.RouteChatResponse:
			emit(core.NewNodeStartedEvent(r.String()))
			return o.chat.Respond(ctx, st), core.StatusCompleted

		case core.RouteResolveContext:
			emit(core.NewNodeStartedEvent(r.String()))
			r = o.resolver.Resolve(ctx, st)

		case core.RouteClassifyTask:
			emit(core.NewNodeStartedEvent(r.String()))
			r = o.taskClassifier.Classify(ctx, st)

		case core.RouteValidate:
			emit(core.NewNodeStartedEvent(r.String()))
			r = o.validator.Validate(ctx, st)

		case core.RouteAskProject:
			emit(core.NewNodeStartedEvent(r.String()))
			return prompt.Message(prompt.MsgAskProjectKey, nil), core.StatusCompleted

		case core.RouteExecuteSimple:
			emit(core.NewNodeStartedEvent(r.String()))
			return o.simple.Execute(ctx, st, emit)

		case core.RouteExecutePlan:
			return o.runEngine(ctx, st, emit)

		default:
			o.logger.Error("route.unexpected", "route", r.String())
			return prompt.Message(prompt.MsgInternalError, nil), core.StatusFailed
		}
	}
}

// runEngine loops the plan-execute engine to a terminal outcome, one
// node event per cycle.
func (o *Orchestrator) runEngine(ctx context.Context, st *core.ConversationState, emit node.Emitter) (string, core.TerminalStatus) {
	for {
		if ctx.Err() != nil {
			o.logger.Warn("turn.cancelled", "thread_id", st.ThreadID)
			return prompt.Message(prompt.MsgInternalError, nil), core.StatusFailed
		}

		emit(core.NewNodeStartedEvent(core.RouteExecutePlan.String()))
		out := o.engine.Advance(ctx, st, emit)
		if out.Done {
			return out.Final, out.Status
		}
	}
}

// loadState fetches the thread's state or creates a fresh one. Store
// failures other than not-found are logged and absorbed; the turn runs
// on fresh state rather than failing.
func (o *Orchestrator) loadState(ctx context.Context, threadID string) *core.ConversationState {
	if o.store == nil {
		return core.NewConversationState(threadID)
	}
	st, err := o.store.Load(ctx, threadID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			o.logger.Warn("state.load_failed, starting fresh", "thread_id", threadID, "error", err)
		}
		return core.NewConversationState(threadID)
	}
	return st
}

// saveState persists the updated state. Failures are logged and
// absorbed; the final event still reflects the completed work.
func (o *Orchestrator) saveState(ctx context.Context, threadID string, st *core.ConversationState) {
	if o.store == nil {
		return
	}
	if err := o.store.Save(ctx, threadID, st); err != nil {
		o.logger.Warn("state.save_failed", "thread_id", threadID, "error", err)
	}
}
