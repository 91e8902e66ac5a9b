// Package pmcopilot provides a high-level façade over the orchestrator
// and its services (reasoning, tools, state persistence and logging) for
// building a project-management copilot. Most applications interact with
// this package by:
//  1. Creating a Copilot via New() with a reasoning service
//  2. Registering the PM tools the deployment exposes
//  3. Asking questions asynchronously (Ask) or synchronously (AskSync)
//
// The façade delegates turn handling to orchestrator.Orchestrator while
// keeping setup concise. All defaults are safe for local development;
// production deployments typically supply a redis-backed state store and
// a structured logger.
package pmcopilot

import (
	"context"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/logging"
	"github.com/hupe1980/pmcopilot/orchestrator"
	"github.com/hupe1980/pmcopilot/reasoning"
	"github.com/hupe1980/pmcopilot/store"
	"github.com/hupe1980/pmcopilot/tool"
)

// Options configures the Copilot instance.
type Options struct {
	// Store persists conversation state across turns. Defaults to an
	// in-memory store.
	Store store.StateStore
	// MaxIterations bounds one reasoning/tool episode.
	MaxIterations int
	// MaxPlanCycles bounds the plan-execute engine per turn.
	MaxPlanCycles int
	// EventBufferSize sets the progress channel buffer.
	EventBufferSize int
	// Logger defaults to a no-op logger.
	Logger logging.Logger
}

// Copilot is the high-level façade aggregating the orchestrator and its
// tool registry.
type Copilot struct {
	registry     *tool.Registry
	orchestrator *orchestrator.Orchestrator
}

// New creates a Copilot over a reasoning service with optional
// overrides. Any unset service falls back to a safe in-process default.
func New(svc reasoning.Service, optFns ...func(o *Options)) *Copilot {
	opts := Options{
		Store:           store.NewInMemoryStore(),
		MaxIterations:   0,
		MaxPlanCycles:   orchestrator.DefaultMaxPlanCycles,
		EventBufferSize: orchestrator.DefaultEventBufferSize,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	registry := tool.NewRegistry(opts.Logger)
	orch := orchestrator.New(svc, registry, func(o *orchestrator.Options) {
		o.Store = opts.Store
		o.MaxIterations = opts.MaxIterations
		o.MaxPlanCycles = opts.MaxPlanCycles
		o.EventBufferSize = opts.EventBufferSize
		o.Logger = opts.Logger
	})

	return &Copilot{registry: registry, orchestrator: orch}
}

// RegisterTool adds a tool to the copilot's catalog. Registration is
// expected during setup, before the first turn.
func (c *Copilot) RegisterTool(t tool.Tool) {
	c.registry.Register(t)
}

// Tools returns the registered tool catalog.
func (c *Copilot) Tools() []tool.Descriptor {
	return c.registry.List()
}

// Ask processes one turn asynchronously and returns its progress
// stream.
func (c *Copilot) Ask(ctx context.Context, threadID string, msg core.Message) (<-chan core.Event, error) {
	return c.orchestrator.Run(ctx, threadID, msg)
}

// AskSync processes one turn and blocks until the final event.
func (c *Copilot) AskSync(ctx context.Context, threadID string, msg core.Message) (core.Event, []core.Event, error) {
	return c.orchestrator.RunSync(ctx, threadID, msg)
}
