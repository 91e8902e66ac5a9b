package tool

import "context"

// Service is the tool boundary consumed by the execution nodes: a live
// catalog plus invocation by name. *Registry is the canonical
// implementation; tests may substitute their own.
type Service interface {
	// List returns the current tool catalog sorted by name.
	List() []Descriptor
	// Invoke executes the named tool with the given arguments.
	Invoke(ctx context.Context, name string, args map[string]any) (any, error)
}

var _ Service = (*Registry)(nil)
