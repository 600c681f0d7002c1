package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tracegen/internal/dialect"
	"tracegen/internal/pipeline"
	"tracegen/internal/symbols"
)

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a probe script for a target and everything it links",
		Args:  cobra.NoArgs,
		RunE:  genExecution,
	}
	cmd.Flags().StringP("name", "n", "", "target name")
	cmd.Flags().VarP(new(dialect.Kind), "trace-type", "t", "script dialect")
	cmd.Flags().StringP("output", "o", "", "path of the generated script")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("skip-missing", false, "skip object files missing from the build log instead of failing")
	return cmd
}

func genExecution(cmd *cobra.Command, _ []string) error {
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	kind := *cmd.Flags().Lookup("trace-type").Value.(*dialect.Kind)
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	skipMissing, err := cmd.Flags().GetBool("skip-missing")
	if err != nil {
		return err
	}
	uiMode, err := parseSwitch("ui", uiValue)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("missing target name (--name)")
	}

	s, cleanup, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if kind == 0 && s.settings.TraceType != "" {
		if kind, err = dialect.Parse(s.settings.TraceType); err != nil {
			return fmt.Errorf("%s: %w", s.settings.ConfigPath, err)
		}
	}
	if kind == 0 {
		return fmt.Errorf("missing trace type (--trace-type %s)", strings.Join(dialect.Kinds(), "|"))
	}
	if output == "" {
		output = s.settings.Output
	}
	if output == "" {
		return fmt.Errorf("missing output path (--output)")
	}

	req := &pipeline.GenRequest{
		InputPath:   s.settings.Input,
		Target:      name,
		Dialect:     kind,
		OutputPath:  output,
		Jobs:        s.settings.Jobs,
		Cache:       s.cache,
		SkipMissing: skipMissing,
	}

	var res pipeline.GenResult
	if shouldUseTUI(uiMode, s.log.quiet) {
		res, err = runGenWithUI(cmd.Context(), cmd.ErrOrStderr(), "gen "+name, req)
	} else {
		res, err = pipeline.Gen(cmd.Context(), req)
	}
	if err != nil {
		if errors.Is(err, symbols.ErrMissingObject) {
			s.log.Warnf("rerun with --skip-missing to ignore objects absent from the build log")
		}
		return err
	}

	s.log.Infof("%d probes over %d targets", res.Probes, len(res.Targets))
	s.log.Infof("successfully saved to %s", res.OutputPath)
	if s.timings {
		printTimings(cmd.ErrOrStderr(), res.Timer)
	}
	return nil
}
