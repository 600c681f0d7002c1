package depgraph

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		dep  string
		want DepKind
	}{
		{"/build/lib/libfoo.so", DepShared},
		{"libfoo.so.1.2", DepShared},
		{"/build/lib/libbar.a", DepStatic},
		{"/build/CMakeFiles/app.dir/main.cpp.o", DepObject},
		{"/build/bin/tool", DepOther},
		{"-lpthread", DepOther},
		{"/odd/libweird.so.a", DepShared},
		{"/dir.so/libz.a", DepStatic},
		{"", DepOther},
	}
	for _, tc := range cases {
		if got := Classify(tc.dep); got != tc.want {
			t.Fatalf("Classify(%q) = %v, want %v", tc.dep, got, tc.want)
		}
	}
}

func TestLinkableExcludesOnlyStaticArchives(t *testing.T) {
	for _, k := range []DepKind{DepOther, DepShared, DepObject} {
		if !k.Linkable() {
			t.Fatalf("%v.Linkable() = false, want true", k)
		}
	}
	if DepStatic.Linkable() {
		t.Fatalf("DepStatic.Linkable() = true, want false")
	}
}

func TestBasename(t *testing.T) {
	cases := map[string]string{
		"/a/b/libc.so": "libc.so",
		"libc.so":      "libc.so",
		"/a/b/":        "",
	}
	for in, want := range cases {
		if got := Basename(in); got != want {
			t.Fatalf("Basename(%q) = %q, want %q", in, got, want)
		}
	}
}
