package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"tracegen/internal/pipeline"
	"tracegen/internal/ui"
)

type genOutcome struct {
	result pipeline.GenResult
	err    error
}

func runGenWithUI(ctx context.Context, out io.Writer, title string, req *pipeline.GenRequest) (pipeline.GenResult, error) {
	if req == nil {
		return pipeline.GenResult{}, fmt.Errorf("missing gen request")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan genOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Gen(ctx, &reqCopy)
		outcomeCh <- genOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the pipeline from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
