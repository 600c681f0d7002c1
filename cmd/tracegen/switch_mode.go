package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// switchMode is the value of a tri-state auto|on|off flag (--color, --ui).
type switchMode string

const (
	switchAuto switchMode = "auto"
	switchOn   switchMode = "on"
	switchOff  switchMode = "off"
)

func parseSwitch(flag, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on":
		return switchOn, nil
	case "off":
		return switchOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// resolve returns the explicit choice, or auto() when the mode is auto.
func (m switchMode) resolve(auto func() bool) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	default:
		return auto()
	}
}

// colorEnabled resolves --color for output written to w. Auto honours
// NO_COLOR and requires a terminal.
func colorEnabled(mode switchMode, w io.Writer) bool {
	return mode.resolve(func() bool {
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		f, ok := w.(*os.File)
		return ok && isTerminal(f)
	})
}

// shouldUseTUI decides whether gen draws the progress view. Auto needs both
// streams on a terminal and no quiet mode.
func shouldUseTUI(mode switchMode, quiet bool) bool {
	return mode.resolve(func() bool {
		return !quiet && isTerminal(os.Stdout) && isTerminal(os.Stderr)
	})
}
