package depgraph

import "strings"

// DepKind is the kind of artifact a raw dependency string refers to.
type DepKind uint8

const (
	// DepOther is anything without a recognised suffix (executables, unknown files).
	DepOther DepKind = iota
	// DepShared is a shared object: the basename contains ".so" (libfoo.so, libfoo.so.1).
	DepShared
	// DepStatic is a static archive: the basename ends with ".a".
	DepStatic
	// DepObject is a compiled object: the basename ends with ".o".
	DepObject
)

func (k DepKind) String() string {
	switch k {
	case DepShared:
		return "shared"
	case DepStatic:
		return "static"
	case DepObject:
		return "object"
	default:
		return "other"
	}
}

// Linkable reports whether a dependency of this kind may name a target node.
// Everything except static archives qualifies; whether it actually names a
// target is decided by the index.
func (k DepKind) Linkable() bool {
	return k != DepStatic
}

// Basename returns the text after the last '/'.
func Basename(dep string) string {
	return dep[strings.LastIndexByte(dep, '/')+1:]
}

// Classify decides the kind of a raw dependency from its basename.
// ".so" anywhere in the basename wins over a trailing ".a".
func Classify(dep string) DepKind {
	base := Basename(dep)
	switch {
	case strings.Contains(base, ".so"):
		return DepShared
	case strings.HasSuffix(base, ".a"):
		return DepStatic
	case strings.HasSuffix(base, ".o"):
		return DepObject
	default:
		return DepOther
	}
}
