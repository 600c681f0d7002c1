package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{LevelOff, LevelError, LevelStage, LevelDetail, LevelDebug} {
		got, err := ParseLevel(strings.ToUpper(l.String()))
		if err != nil || got != l {
			t.Fatalf("ParseLevel(%q) = %v, %v", l.String(), got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelAllows(t *testing.T) {
	tests := []struct {
		level Level
		kind  Kind
		scope Scope
		want  bool
	}{
		{LevelOff, KindFail, ScopeDriver, false},
		{LevelError, KindFail, ScopeTarget, true},
		{LevelError, KindBegin, ScopeDriver, false},
		{LevelError, KindHeartbeat, ScopeDriver, false},
		{LevelStage, KindHeartbeat, ScopeDriver, true},
		{LevelStage, KindBegin, ScopeStage, true},
		{LevelStage, KindPoint, ScopeTarget, false},
		{LevelDetail, KindPoint, ScopeTarget, true},
		{LevelDetail, KindPoint, ScopeSymbol, false},
		{LevelDebug, KindPoint, ScopeSymbol, true},
	}
	for _, tt := range tests {
		if got := tt.level.Allows(tt.kind, tt.scope); got != tt.want {
			t.Fatalf("%v.Allows(%v, %v) = %v, want %v", tt.level, tt.kind, tt.scope, got, tt.want)
		}
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr != Nop {
		t.Fatalf("New(off) = %#v, want Nop", tr)
	}
	ctx := WithTracer(context.Background(), tr)
	next, span := Start(ctx, ScopeDriver, "x")
	if span.ID() != 0 || next != ctx {
		t.Fatalf("disabled span has id %d", span.ID())
	}
	span.End("")
}

func TestStreamTextSpans(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelStage, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)

	ctx, root := Start(ctx, ScopeDriver, "gen")
	_, load := Start(ctx, ScopeStage, "load", String("path", "cmake.log"))
	load.Set(Int("bytes", 42)).End("")
	load.End("ignored")
	TargetNote(ctx, "libnet.so", "symbols", "below level")
	root.End("")
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "driver → gen") {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[2], "stage    ← load path=cmake.log bytes=42 ") || !strings.HasSuffix(lines[2], "ms") {
		t.Fatalf("line 2 = %q", lines[2])
	}
	if SpanFromContext(ctx) != root {
		t.Fatalf("context does not carry the root span")
	}
}

func TestFailIsKeptAtErrorLevel(t *testing.T) {
	ring := NewRingTracer(8, LevelError)
	ctx := WithTracer(context.Background(), ring)
	_, span := StartTarget(ctx, "libcore.so", "collect")
	span.Fail(errors.New("missing object core.o"))

	events := ring.Events()
	if len(events) != 1 {
		t.Fatalf("events = %+v, want the failure only", events)
	}
	ev := events[0]
	if ev.Kind != KindFail || ev.Target != "libcore.so" || ev.Detail != "missing object core.o" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestStreamNDJSONAutoFormat(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeStream, Output: &buf, OutputPath: "run.ndjson"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)
	TargetNote(ctx, "libnet.so", "symbols", "", Int("count", 3))
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var ev jsonEvent
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("not JSON: %v (%q)", err, buf.String())
	}
	if ev.Kind != "point" || ev.Scope != "target" || ev.Target != "libnet.so" || ev.Attrs["count"] != "3" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestRingWrapsAndDumps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeStage, Name: name})
	}
	var names []string
	for _, ev := range ring.Events() {
		names = append(names, ev.Name)
	}
	if strings.Join(names, ",") != "c,d,e" {
		t.Fatalf("Events = %v, want [c d e]", names)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 3 {
		t.Fatalf("Dump wrote %d lines", got)
	}
}

func TestBothModeKeepsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelStage, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Note(WithTracer(context.Background(), tr), ScopeStage, "resolve", "")
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	ring := RingOf(tr)
	if ring == nil {
		t.Fatalf("RingOf(both) = nil")
	}
	if len(ring.Events()) != 1 || buf.Len() == 0 {
		t.Fatalf("ring = %d events, stream = %d bytes", len(ring.Events()), buf.Len())
	}
	if RingOf(Nop) != nil {
		t.Fatalf("RingOf(Nop) != nil")
	}
}

func TestParseModeAndFormat(t *testing.T) {
	if m, err := ParseMode("Ring"); err != nil || m != ModeRing {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
