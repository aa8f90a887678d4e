package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/woupiestek/rlox/internal/driver"
	"github.com/woupiestek/rlox/internal/ui"
)

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

// runCheckWithUI runs a file check behind a live terminal progress view.
// Events flow from the checker goroutine into the Bubble Tea model; the
// channel closes once the check is finished so the view can quit.
func runCheckWithUI(title string, paths []string, opts driver.CheckOptions) (*driver.CheckResult, error) {
	events := make(chan driver.CheckEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		res, err := driver.CheckFiles(paths, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
