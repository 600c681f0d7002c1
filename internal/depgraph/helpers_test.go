package depgraph

import (
	"slices"
	"testing"

	"tracegen/internal/buildlog"
)

func mkTarget(name string, typ buildlog.TargetType, deps ...string) *buildlog.Target {
	return &buildlog.Target{
		Name:         name,
		AbsPath:      "/out/" + name,
		Dependencies: deps,
		TargetType:   typ,
	}
}

func targetNames(ts []*buildlog.Target) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func assertNames(t *testing.T, what string, got []*buildlog.Target, want ...string) {
	t.Helper()
	if names := targetNames(got); !slices.Equal(names, want) {
		t.Fatalf("%s = %v, want %v", what, names, want)
	}
}
