package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/tui"
)

func runMonitor(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()
	a.serve(ctx)

	// the terminal belongs to the UI from here on
	log.SetOutput(io.Discard)

	id := ids.NewSurface()
	if _, err := a.mgr.CreateWindow(ctx, id, a.settings.WindowSettings()); err != nil {
		return &exitError{code: exitWindow, err: err}
	}

	title := fmt.Sprintf("%s  %v", a.settings.WindowSettings().Title, id)
	if a.srv != nil {
		title += "  " + a.srv.Path()
	}

	p := tea.NewProgram(tui.NewModel(ctx, a.mgr.Events(), title), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running monitor: %w", err)
	}

	if err := a.mgr.Err(); err != nil {
		return &exitError{code: fatalCode(err), err: err}
	}
	return nil
}
