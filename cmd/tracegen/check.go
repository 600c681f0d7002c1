package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tracegen/internal/pipeline"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [name]",
		Short: "Show a target and the targets it links against",
		Long: `Show a target and the targets it links against. Only direct dependencies
are listed unless --transitive is given; gen always probes the full closure.`,
		Args: cobra.MaximumNArgs(1),
		RunE: checkExecution,
	}
	cmd.Flags().StringP("name", "n", "", "target name")
	cmd.Flags().Bool("transitive", false, "list every target reachable from the target")
	cmd.Flags().Bool("cycles", false, "report a dependency cycle reachable from the target")
	return cmd
}

func checkExecution(cmd *cobra.Command, args []string) error {
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	transitive, err := cmd.Flags().GetBool("transitive")
	if err != nil {
		return err
	}
	cycles, err := cmd.Flags().GetBool("cycles")
	if err != nil {
		return err
	}
	switch {
	case len(args) == 1 && name != "" && args[0] != name:
		return fmt.Errorf("target given twice: %q and --name %q", args[0], name)
	case len(args) == 1:
		name = args[0]
	case name == "":
		return fmt.Errorf("missing target name")
	}

	s, cleanup, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	b, err := pipeline.Open(ctx, &pipeline.OpenRequest{
		InputPath: s.settings.Input,
		Cache:     s.cache,
		Jobs:      s.settings.Jobs,
		Timer:     s.timer,
	})
	if err != nil {
		return err
	}
	s.log.Infof("successfully loaded %s", s.settings.Input)

	phase := s.timer.Begin("check")
	res, err := b.Check(ctx, name, pipeline.CheckOptions{Transitive: transitive, Cycles: cycles})
	s.timer.End(phase, name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	targetTag := classColor(color.FgGreen, s.useColor)
	depTag := classColor(color.FgBlue, s.useColor)
	fmt.Fprintf(out, "%s %s: %s\n", targetTag.Sprint("[TARGET]"), res.Target.Name, res.Target.AbsPath)
	for _, dep := range res.Deps {
		fmt.Fprintf(out, "%s %s: %s\n", depTag.Sprint("[DEPNDT]"), dep.Name, dep.AbsPath)
	}
	if len(res.Cycle) > 0 {
		cycleTag := classColor(color.FgYellow, s.useColor)
		fmt.Fprintf(out, "%s %s\n", cycleTag.Sprint("[CYCLE]"), strings.Join(res.Cycle, " -> "))
	} else if cycles {
		s.log.Infof("no dependency cycles reachable from %s", name)
	}

	if s.timings {
		printTimings(cmd.ErrOrStderr(), s.timer)
	}
	return nil
}
