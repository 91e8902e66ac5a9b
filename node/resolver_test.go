package node

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/reasoning"
)

func TestResolverSkipsWhenKeySet(t *testing.T) {
	svc := reasoning.NewScripted()
	st := stateWithUserText("list issues")
	st.ProjectContext.ProjectKey = "ALPHA"

	route := NewContextResolver(svc, nil).Resolve(context.Background(), st)

	assert.Equal(t, core.RouteClassifyTask, route)
	assert.Equal(t, "ALPHA", st.ProjectContext.ProjectKey)
	assert.Zero(t, svc.Calls["chat"])
}

func TestResolverDetectsKey(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ChatFunc = func(_ context.Context, _ reasoning.Request) (*reasoning.Response, error) {
		return &reasoning.Response{Text: " alpha \n"}, nil
	}

	st := stateWithUserText("show issues in project alpha")
	route := NewContextResolver(svc, nil).Resolve(context.Background(), st)

	assert.Equal(t, core.RouteClassifyTask, route)
	assert.Equal(t, "ALPHA", st.ProjectContext.ProjectKey)
}

func TestResolverLeavesUnsetOnUnknown(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ChatFunc = func(_ context.Context, _ reasoning.Request) (*reasoning.Response, error) {
		return &reasoning.Response{Text: "UNKNOWN"}, nil
	}

	st := stateWithUserText("show my issues")
	route := NewContextResolver(svc, nil).Resolve(context.Background(), st)

	assert.Equal(t, core.RouteClassifyTask, route)
	assert.Empty(t, st.ProjectContext.ProjectKey)
}

func TestResolverFailureIsNonFatal(t *testing.T) {
	svc := reasoning.NewScripted()
	svc.ChatFunc = func(_ context.Context, _ reasoning.Request) (*reasoning.Response, error) {
		return nil, fmt.Errorf("provider unavailable")
	}

	st := stateWithUserText("show my issues")
	route := NewContextResolver(svc, nil).Resolve(context.Background(), st)

	assert.Equal(t, core.RouteClassifyTask, route)
	assert.Empty(t, st.ProjectContext.ProjectKey)
}

func TestParseProjectKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"ALPHA", "ALPHA", true},
		{" beta ", "BETA", true},
		{`"GAMMA"`, "GAMMA", true},
		{"ALPHA-123", "ALPHA", true},
		{"UNKNOWN", "", false},
		{"", "", false},
		{"AB", "", false},
		{"TOOLONGKEY", "", false},
		{"The project is ALPHA", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseProjectKey(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
	}
}
