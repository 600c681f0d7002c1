package dialect

import (
	"errors"
	"strings"
	"testing"

	"tracegen/internal/symbols"
)

func single(symbolNames ...string) []symbols.TraceTarget {
	return []symbols.TraceTarget{{Name: "libfoo.so", Path: "/out/libfoo.so", Symbols: symbolNames}}
}

func TestRenderEBPFSingle(t *testing.T) {
	got, err := Render(EBPF, single("bar"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "uprobe:/out/libfoo.so:bar {\n" +
		"    if (pid > 0) {\n" +
		"        printf(\"probe: %s\\n%s\\n\", probe, ustack(perf));\n" +
		"    }\n" +
		"}\n"
	if got != want {
		t.Fatalf("Render(ebpf) =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderStapSingle(t *testing.T) {
	got, err := Render(Stap, single("bar"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "probe process(\"/out/libfoo.so\").function(\"bar\").call {\n" +
		"    printf(\"probe: %s\", ppfunc());\n" +
		"    print_usyms(ucallers(-1));\n" +
		"}\n"
	if got != want {
		t.Fatalf("Render(stap) =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderSeparatesBlocksWithOneBlankLine(t *testing.T) {
	got, err := Render(EBPF, single("first", "second"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	blocks := strings.Split(got, "}\n\nuprobe:")
	if len(blocks) != 2 {
		t.Fatalf("expected two blocks separated by one blank line, got %q", got)
	}
	if strings.Index(got, ":first {") > strings.Index(got, ":second {") {
		t.Fatalf("blocks out of symbol order: %q", got)
	}
	if strings.HasPrefix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Fatalf("leading or trailing separator in %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("more than one blank line between blocks: %q", got)
	}
}

func TestGenerateKeepsDuplicatesAcrossTargets(t *testing.T) {
	targets := []symbols.TraceTarget{
		{Name: "a", Path: "/out/a", Symbols: []string{"shared_fn"}},
		{Name: "empty", Path: "/out/empty"},
		{Name: "b", Path: "/out/b", Symbols: []string{"shared_fn"}},
	}
	var sb strings.Builder
	n, err := Generate(&sb, Stap, targets)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n != 2 {
		t.Fatalf("blocks = %d, want 2", n)
	}
	out := sb.String()
	if strings.Index(out, `process("/out/a")`) > strings.Index(out, `process("/out/b")`) {
		t.Fatalf("targets out of order: %q", out)
	}
}

func TestGenerateEmpty(t *testing.T) {
	got, err := Render(EBPF, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "" {
		t.Fatalf("Render(nil) = %q, want empty", got)
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	if _, err := Render(Kind(0), single("x")); err == nil {
		t.Fatalf("expected error for zero Kind")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestGeneratePropagatesWriteErrors(t *testing.T) {
	if _, err := Generate(failingWriter{}, EBPF, single("x")); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"stap", Stap, false},
		{"ebpf", EBPF, false},
		{"EBPF", EBPF, false},
		{"dtrace", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestKindFlagValue(t *testing.T) {
	var k Kind
	if err := k.Set("stap"); err != nil || k != Stap {
		t.Fatalf("Set(stap) = %v, kind %v", err, k)
	}
	if err := k.Set("nope"); err == nil {
		t.Fatalf("Set(nope) succeeded")
	}
	if k.String() != "stap" {
		t.Fatalf("failed Set changed the value to %v", k)
	}
}
