package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// logger prints human-facing progress and errors. Info and warning lines
// are dropped in quiet mode; errors never are.
type logger struct {
	w     io.Writer
	quiet bool
	info  *color.Color
	warn  *color.Color
	err   *color.Color
}

func newLogger(w io.Writer, useColor, quiet bool) *logger {
	l := &logger{
		w:     w,
		quiet: quiet,
		info:  color.New(color.FgCyan, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		err:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{l.info, l.warn, l.err} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return l
}

func (l *logger) Infof(format string, args ...any) {
	if l.quiet {
		return
	}
	l.line(l.info, "info", fmt.Sprintf(format, args...))
}

func (l *logger) Warnf(format string, args ...any) {
	if l.quiet {
		return
	}
	l.line(l.warn, "warning", fmt.Sprintf(format, args...))
}

func (l *logger) Error(err error) {
	if err == nil {
		return
	}
	l.line(l.err, "error", err.Error())
}

func (l *logger) line(tag *color.Color, name, msg string) {
	fmt.Fprintf(l.w, "%s %s\n", tag.Sprint(name+":"), strings.TrimRight(msg, "\n"))
}
