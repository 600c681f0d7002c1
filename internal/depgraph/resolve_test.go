package depgraph

import (
	"context"
	"strings"
	"testing"

	"tracegen/internal/buildlog"
)

// app -> libnet.so -> libcore.so; app also links a static archive that is
// itself an indexed target, its own objects and a system library.
func sampleIndex() *TargetIndex {
	return NewTargetIndex(
		mkTarget("app", buildlog.Executable,
			"/b/CMakeFiles/app.dir/main.cpp.o",
			"/b/lib/libnet.so",
			"/b/lib/libutil.a",
			"/usr/lib/libpthread.so",
		),
		mkTarget("libnet.so", buildlog.Shared,
			"/b/CMakeFiles/net.dir/socket.cpp.o",
			"/b/lib/libcore.so",
		),
		mkTarget("libcore.so", buildlog.Shared, "/b/CMakeFiles/core.dir/core.cpp.o"),
		mkTarget("libutil.a", buildlog.Static, "/b/CMakeFiles/util.dir/util.cpp.o"),
	)
}

func TestOneHopFiltersArchivesObjectsAndUnknowns(t *testing.T) {
	idx := sampleIndex()
	app, _ := idx.Get("app")
	assertNames(t, "OneHop(app)", OneHop(app, idx), "libnet.so")
}

func TestOneHopNeverReturnsArchives(t *testing.T) {
	idx := sampleIndex()
	for _, name := range idx.Names() {
		tg, _ := idx.Get(name)
		for _, dep := range OneHop(tg, idx) {
			if strings.HasSuffix(dep.Name, ".a") && !strings.Contains(dep.Name, ".so") {
				t.Fatalf("OneHop(%s) returned archive %s", name, dep.Name)
			}
			if got, ok := idx.Get(dep.Name); !ok || got != dep {
				t.Fatalf("OneHop(%s) returned %s which is not the indexed target", name, dep.Name)
			}
		}
	}
}

func TestOneHopAdmitsNonArchiveTargets(t *testing.T) {
	idx := NewTargetIndex(
		mkTarget("runner", buildlog.Executable, "/b/bin/helper", "/b/lib/libplug.so.2"),
		mkTarget("helper", buildlog.Executable),
		mkTarget("libplug.so.2", buildlog.Shared),
	)
	runner, _ := idx.Get("runner")
	assertNames(t, "OneHop(runner)", OneHop(runner, idx), "helper", "libplug.so.2")
}

func TestOneHopParallelMatchesSequential(t *testing.T) {
	idx := NewTargetIndex(
		mkTarget("root", buildlog.Executable,
			"/l/liba.so", "/l/x.o", "/l/libb.so", "/l/libc.a", "/l/libd.so", "/l/liba.so"),
		mkTarget("liba.so", buildlog.Shared),
		mkTarget("libb.so", buildlog.Shared),
		mkTarget("libc.a", buildlog.Static),
		mkTarget("libd.so", buildlog.Shared),
	)
	root, _ := idx.Get("root")
	seq := OneHop(root, idx)
	par, err := OneHopParallel(context.Background(), root, idx, 3)
	if err != nil {
		t.Fatalf("OneHopParallel: %v", err)
	}
	assertNames(t, "sequential", seq, "liba.so", "libb.so", "libd.so", "liba.so")
	assertNames(t, "parallel", par, targetNames(seq)...)
}

func TestClosureAcyclic(t *testing.T) {
	idx := sampleIndex()
	app, _ := idx.Get("app")
	got, err := Closure(context.Background(), []*buildlog.Target{app}, idx, 2)
	if err != nil {
		t.Fatalf("Closure: %v", err)
	}
	assertNames(t, "Closure(app)", got, "app", "libnet.so", "libcore.so")
}

func TestClosureDiamondVisitsOnce(t *testing.T) {
	idx := NewTargetIndex(
		mkTarget("top", buildlog.Executable, "/l/libleft.so", "/l/libright.so"),
		mkTarget("libleft.so", buildlog.Shared, "/l/libbase.so"),
		mkTarget("libright.so", buildlog.Shared, "/l/libbase.so"),
		mkTarget("libbase.so", buildlog.Shared),
	)
	top, _ := idx.Get("top")
	levels, err := ClosureLevels(context.Background(), []*buildlog.Target{top}, idx, 4)
	if err != nil {
		t.Fatalf("ClosureLevels: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("len(levels) = %d, want 3", len(levels))
	}
	assertNames(t, "level 0", levels[0], "top")
	assertNames(t, "level 1", levels[1], "libleft.so", "libright.so")
	assertNames(t, "level 2", levels[2], "libbase.so")
}

func TestClosureTerminatesOnCycle(t *testing.T) {
	idx := NewTargetIndex(
		mkTarget("app", buildlog.Executable, "/l/libping.so"),
		mkTarget("libping.so", buildlog.Shared, "/l/libpong.so"),
		mkTarget("libpong.so", buildlog.Shared, "/l/libping.so", "/bin/app"),
	)
	app, _ := idx.Get("app")
	got, err := Closure(context.Background(), []*buildlog.Target{app}, idx, 0)
	if err != nil {
		t.Fatalf("Closure: %v", err)
	}
	assertNames(t, "Closure(app)", got, "app", "libping.so", "libpong.so")
}

func TestClosureDedupsSeed(t *testing.T) {
	idx := sampleIndex()
	core, _ := idx.Get("libcore.so")
	net, _ := idx.Get("libnet.so")
	got, err := Closure(context.Background(), []*buildlog.Target{core, net, core}, idx, 1)
	if err != nil {
		t.Fatalf("Closure: %v", err)
	}
	assertNames(t, "Closure", got, "libcore.so", "libnet.so")
}

func TestClosureIsReflexiveTransitive(t *testing.T) {
	idx := sampleIndex()
	for _, name := range idx.Names() {
		tg, _ := idx.Get(name)
		got, err := Closure(context.Background(), []*buildlog.Target{tg}, idx, 2)
		if err != nil {
			t.Fatalf("Closure(%s): %v", name, err)
		}
		want := naiveReach(tg, idx)
		if len(got) != len(want) {
			t.Fatalf("Closure(%s) = %v, want set %v", name, targetNames(got), want)
		}
		for _, g := range got {
			if _, ok := want[g.Name]; !ok {
				t.Fatalf("Closure(%s) contains unexpected %s", name, g.Name)
			}
		}
	}
}

func naiveReach(root *buildlog.Target, idx *TargetIndex) map[string]struct{} {
	seen := map[string]struct{}{root.Name: {}}
	stack := []*buildlog.Target{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range OneHop(cur, idx) {
			if _, ok := seen[dep.Name]; !ok {
				seen[dep.Name] = struct{}{}
				stack = append(stack, dep)
			}
		}
	}
	return seen
}

func TestClosureCancelled(t *testing.T) {
	idx := sampleIndex()
	app, _ := idx.Get("app")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Closure(ctx, []*buildlog.Target{app}, idx, 1); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
