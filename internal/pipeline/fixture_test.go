package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"tracegen/internal/buildlog"
)

func sym(names ...string) []buildlog.Symbol {
	out := make([]buildlog.Symbol, len(names))
	for i, n := range names {
		out[i] = buildlog.Symbol{Name: n}
	}
	return out
}

// sampleCollection: app -> libnet.so -> libcore.so, app also links the
// static libutil.a, and tool is a second executable.
func sampleCollection() *buildlog.Collection {
	return &buildlog.Collection{
		Objects: []buildlog.Object{
			{AbsPath: "/b/app.dir/main.o", Name: "main.o", DefinedSymbols: sym("main"), UndefinedSymbols: sym("net_open")},
			{AbsPath: "/b/net.dir/socket.o", Name: "socket.o", DefinedSymbols: sym("net_open", "net_close")},
			{AbsPath: "/b/core.dir/core.o", Name: "core.o", DefinedSymbols: sym("core_init")},
			{AbsPath: "/b/util.dir/util.o", Name: "util.o", DefinedSymbols: sym("util_fmt")},
			{AbsPath: "/b/tool.dir/tool.o", Name: "tool.o", DefinedSymbols: sym("tool_main")},
		},
		Scripts: []buildlog.LinkScript{
			{AbsPath: "/b/app.dir/link.txt", Target: buildlog.Target{
				Name: "app", AbsPath: "/out/bin/app", TargetType: buildlog.Executable,
				Dependencies: []string{"/b/app.dir/main.o", "/out/lib/libnet.so", "/out/lib/libutil.a", "/usr/lib/libm.so"},
			}},
			{AbsPath: "/b/net.dir/link.txt", Target: buildlog.Target{
				Name: "libnet.so", AbsPath: "/out/lib/libnet.so", TargetType: buildlog.Shared,
				Dependencies: []string{"/b/net.dir/socket.o", "/out/lib/libcore.so"},
			}},
			{AbsPath: "/b/core.dir/link.txt", Target: buildlog.Target{
				Name: "libcore.so", AbsPath: "/out/lib/libcore.so", TargetType: buildlog.Shared,
				Dependencies: []string{"/b/core.dir/core.o"},
			}},
			{AbsPath: "/b/util.dir/link.txt", Target: buildlog.Target{
				Name: "libutil.a", AbsPath: "/out/lib/libutil.a", TargetType: buildlog.Static,
				Dependencies: []string{"/b/util.dir/util.o"},
			}},
			{AbsPath: "/b/tool.dir/link.txt", Target: buildlog.Target{
				Name: "tool", AbsPath: "/out/bin/tool", TargetType: buildlog.Executable,
				Dependencies: []string{"/b/tool.dir/tool.o"},
			}},
		},
		Compile: []string{"cc -c main.c"},
	}
}

func writeLog(t *testing.T, col *buildlog.Collection) string {
	t.Helper()
	data, err := json.Marshal(col)
	if err != nil {
		t.Fatalf("marshal build log: %v", err)
	}
	path := filepath.Join(t.TempDir(), "cmake.log")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write build log: %v", err)
	}
	return path
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) count(stage Stage, status Status, withTarget bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.events {
		if ev.Stage == stage && ev.Status == status && (ev.Target != "") == withTarget {
			n++
		}
	}
	return n
}
