package tool

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/pmcopilot/logging"
)

// Registry holds the set of registered tools and implements the tool
// service consumed by the orchestrator: listing the catalog and invoking
// a tool by name. The catalog is treated as immutable for the duration
// of a request; Register calls are expected during setup only, but the
// registry is safe for concurrent use regardless.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger logging.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Registry{tools: make(map[string]Tool), logger: logger}
}

// Register adds a tool to the catalog, replacing any tool with the same
// name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// List returns the catalog of registered tools sorted by name.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptors := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		descriptors = append(descriptors, Descriptor{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })
	return descriptors
}

// Names returns the sorted tool names of the catalog.
func (r *Registry) Names() []string {
	descriptors := r.List()
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names
}

// Invoke executes the named tool with the given arguments. An unknown
// name yields a *ToolError with code UNKNOWN_TOOL.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, NewToolError(name, "tool is not registered", "UNKNOWN_TOOL")
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	r.logger.Info("tool.invoked",
		"tool", name,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)
	return result, err
}
