// Package main implements the tracegen CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tracegen/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tracegen",
		Short: "Generate stap/ebpf probe scripts from a build log",
		Long: `tracegen reads the JSON log of a finished native build, resolves the
targets a binary depends on and writes a probe script covering every
function compiled into them.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringP("input", "i", "", "build log to read (default ./cmake.log, env "+envInputPath+")")
	pf.String("config", "", "config file (default: nearest "+configFileName+")")
	pf.IntP("jobs", "j", 0, "parallel workers, 0 uses every CPU (env "+envJobs+")")
	pf.Bool("no-cache", false, "do not read or write the decoded build log cache")
	pf.Bool("clear-cache", false, "drop every cached build log before running")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")

	pf.String("trace", "", "write internal trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|stage|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(newListCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newGenCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// main runs the CLI and exits with status 1 on any error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newRootCmd(), os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs root with args and reports a failure on its error stream.
func execute(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		value, _ := root.PersistentFlags().GetString("color")
		useColor := false
		if mode, modeErr := parseSwitch("color", value); modeErr == nil {
			useColor = colorEnabled(mode, root.ErrOrStderr())
		}
		dumpTraceRing(root, root.ErrOrStderr())
		newLogger(root.ErrOrStderr(), useColor, false).Error(err)
		return 1
	}
	return 0
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
