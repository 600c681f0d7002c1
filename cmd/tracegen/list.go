package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tracegen/internal/pipeline"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List executables and shared libraries in the build log",
		Args:  cobra.NoArgs,
		RunE:  listExecution,
	}
	cmd.Flags().String("format", "text", "output format (text|json)")
	return cmd
}

func listExecution(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}

	s, cleanup, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	b, err := pipeline.Open(cmd.Context(), &pipeline.OpenRequest{
		InputPath: s.settings.Input,
		Cache:     s.cache,
		Jobs:      s.settings.Jobs,
		Timer:     s.timer,
	})
	if err != nil {
		return err
	}
	s.log.Infof("successfully loaded %s", s.settings.Input)

	entries := b.List()
	out := cmd.OutOrStdout()
	if format == "json" {
		if entries == nil {
			entries = []pipeline.ListEntry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return err
		}
	} else {
		execTag := classColor(color.FgGreen, s.useColor)
		dynTag := classColor(color.FgCyan, s.useColor)
		for _, e := range entries {
			tag := dynTag
			if e.Class == pipeline.ClassExec {
				tag = execTag
			}
			fmt.Fprintf(out, "%s %s: %s\n", tag.Sprintf("[%s]", e.Class), e.Name, e.Path)
		}
	}

	if s.timings {
		printTimings(cmd.ErrOrStderr(), s.timer)
	}
	return nil
}

func classColor(attr color.Attribute, enabled bool) *color.Color {
	c := color.New(attr, color.Bold)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
