package depgraph

import (
	"slices"
	"testing"

	"tracegen/internal/buildlog"
)

func allTargets(idx *TargetIndex) []*buildlog.Target {
	var out []*buildlog.Target
	for _, name := range idx.Names() {
		tg, _ := idx.Get(name)
		out = append(out, tg)
	}
	return out
}

func TestToposortAcyclic(t *testing.T) {
	idx := sampleIndex()
	g := BuildGraph(allTargets(idx), idx)
	topo := Toposort(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", g.NamesOf(topo.Cycles))
	}
	order := g.NamesOf(topo.Order)
	pos := func(name string) int { return slices.Index(order, name) }
	if pos("app") > pos("libnet.so") || pos("libnet.so") > pos("libcore.so") {
		t.Fatalf("order %v does not put dependents first", order)
	}
	if len(order) != idx.Len() {
		t.Fatalf("order has %d targets, want %d", len(order), idx.Len())
	}
}

func TestToposortReportsOnlyCycleMembers(t *testing.T) {
	idx := NewTargetIndex(
		mkTarget("app", buildlog.Executable, "/l/libping.so"),
		mkTarget("libping.so", buildlog.Shared, "/l/libpong.so"),
		mkTarget("libpong.so", buildlog.Shared, "/l/libping.so", "/l/libleaf.so"),
		mkTarget("libleaf.so", buildlog.Shared),
	)
	g := BuildGraph(allTargets(idx), idx)
	topo := Toposort(g)
	if !topo.Cyclic {
		t.Fatalf("cycle not detected")
	}
	if got := g.NamesOf(topo.Cycles); !slices.Equal(got, []string{"libping.so", "libpong.so"}) {
		t.Fatalf("Cycles = %v, want [libping.so libpong.so]", got)
	}
	path := g.NamesOf(topo.CyclePath(g))
	if !slices.Equal(path, []string{"libping.so", "libpong.so", "libping.so"}) {
		t.Fatalf("CyclePath = %v", path)
	}
}

func TestToposortSelfDependency(t *testing.T) {
	idx := NewTargetIndex(mkTarget("libself.so", buildlog.Shared, "/l/libself.so"))
	g := BuildGraph(allTargets(idx), idx)
	topo := Toposort(g)
	if !topo.Cyclic {
		t.Fatalf("self dependency not reported")
	}
	if path := g.NamesOf(topo.CyclePath(g)); !slices.Equal(path, []string{"libself.so", "libself.so"}) {
		t.Fatalf("CyclePath = %v", path)
	}
}

func TestBuildGraphDropsEdgesOutsideSet(t *testing.T) {
	idx := sampleIndex()
	app, _ := idx.Get("app")
	g := BuildGraph([]*buildlog.Target{app}, idx)
	if len(g.Names) != 1 || len(g.Edges[0]) != 0 {
		t.Fatalf("graph = %+v, want a single isolated node", g)
	}
}
