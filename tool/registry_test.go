package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) *FunctionTool {
	return NewFunctionTool(name, "echoes its input",
		map[string]any{"type": "object"},
		func(_ context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		},
	)
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoTool("zeta"))
	r.Register(echoTool("alpha"))
	r.Register(echoTool("mid"))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())

	descriptors := r.List()
	require.Len(t, descriptors, 3)
	assert.Equal(t, "alpha", descriptors[0].Name)
	assert.Equal(t, "echoes its input", descriptors[0].Description)
}

func TestRegistryInvoke(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoTool("echo"))

	result, err := r.Invoke(context.Background(), "echo", map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
}

func TestRegistryInvokeUnknown(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Invoke(context.Background(), "missing", nil)
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "UNKNOWN_TOOL", toolErr.Code)
	assert.Equal(t, "missing", toolErr.Tool)
}

func TestFunctionToolWrapsErrors(t *testing.T) {
	failing := NewFunctionTool("broken", "always fails", nil,
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, fmt.Errorf("plain failure")
		},
	)

	_, err := failing.Call(context.Background(), nil)
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "broken", toolErr.Tool)
	assert.Contains(t, toolErr.Error(), "plain failure")
}

func TestFunctionToolPassesToolErrorThrough(t *testing.T) {
	failing := NewFunctionTool("strict", "fails typed", nil,
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, NewToolError("strict", "missing project", "MISSING_ARGUMENT")
		},
	)

	_, err := failing.Call(context.Background(), nil)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "MISSING_ARGUMENT", toolErr.Code)
}
