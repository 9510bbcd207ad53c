package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"loxvm/internal/driver"
	"loxvm/internal/ui"
)

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

// runCheckWithUI runs driver.Check in the background while a Bubble Tea
// program renders its progress events.
func runCheckWithUI(ctx context.Context, out io.Writer, title string, files []string, opts driver.CheckOptions) (*driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	opts.Events = events
	go func() {
		// Check закрывает events по завершении
		res, err := driver.Check(ctx, files, opts)
		outcomeCh <- checkOutcome{result: res, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// пусть Check не блокируется на отправке
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
