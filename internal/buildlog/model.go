package buildlog

import (
	"encoding/json"
	"fmt"
)

// Symbol is a named entity provided or referenced by an object file.
type Symbol struct {
	Name string `json:"name" msgpack:"name"`
}

// Object is a compiled object file and the symbols it defines and references.
type Object struct {
	AbsPath          string   `json:"abs_path" msgpack:"abs_path"`
	Name             string   `json:"name" msgpack:"name"`
	DefinedSymbols   []Symbol `json:"defined_symbols" msgpack:"defined_symbols"`
	UndefinedSymbols []Symbol `json:"undefined_symbols" msgpack:"undefined_symbols"`
}

// TargetType discriminates link targets. The values are ordered:
// Executable < Shared < Static.
type TargetType uint8

const (
	// Executable is a linked program.
	Executable TargetType = iota
	// Shared is a shared library.
	Shared
	// Static is a static archive.
	Static

	targetTypeCount
)

// String returns the short name of the target type.
func (t TargetType) String() string {
	switch t {
	case Executable:
		return "exec"
	case Shared:
		return "shared"
	case Static:
		return "static"
	default:
		return fmt.Sprintf("TargetType(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the three known target types.
func (t TargetType) Valid() bool {
	return t < targetTypeCount
}

// UnmarshalJSON decodes the numeric discriminant and rejects unknown values.
func (t *TargetType) UnmarshalJSON(data []byte) error {
	var raw uint8
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("target_type: %w", err)
	}
	tt := TargetType(raw)
	if !tt.Valid() {
		return fmt.Errorf("target_type: unknown value %d (expected 0, 1 or 2)", raw)
	}
	*t = tt
	return nil
}

// Target is a link output together with its raw dependency references.
// Each dependency is either another target's file name or path, or the
// absolute path of an object file.
type Target struct {
	Name         string     `json:"name" msgpack:"name"`
	AbsPath      string     `json:"abs_path" msgpack:"abs_path"`
	Dependencies []string   `json:"dependencies" msgpack:"dependencies"`
	TargetType   TargetType `json:"target_type" msgpack:"target_type"`
	LinkingArgs  []string   `json:"linking_args" msgpack:"linking_args"`
	RanlibArgs   []string   `json:"ranlib_args" msgpack:"ranlib_args"`
}

// IsLinked reports whether the target is an executable or a shared library.
func (t *Target) IsLinked() bool {
	return t.TargetType < Static
}

// LinkScript pairs a link script path with the target it produces.
type LinkScript struct {
	AbsPath string `json:"abs_path" msgpack:"abs_path"`
	Target  Target `json:"target" msgpack:"target"`
}

// Collection is a whole build description. Scripts is the authoritative
// enumeration of targets; Compile holds raw compile commands.
type Collection struct {
	Objects []Object     `json:"objects" msgpack:"objects"`
	Scripts []LinkScript `json:"scripts" msgpack:"scripts"`
	Compile []string     `json:"compile" msgpack:"compile"`
}

// LinkedTargets returns executables and shared libraries in script order.
func (c *Collection) LinkedTargets() []*Target {
	if c == nil {
		return nil
	}
	out := make([]*Target, 0, len(c.Scripts))
	for i := range c.Scripts {
		t := &c.Scripts[i].Target
		if t.IsLinked() {
			out = append(out, t)
		}
	}
	return out
}
