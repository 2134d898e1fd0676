package main

import (
	"cmp"
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/nmx/internal/shared"
	"github.com/desertthunder/nmx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal player.
//
// The queue is saved when the program exits.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmp.Or(r.config.Log.File, "./tmp/nmx-tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.Log.ParsedLevel())
	r.SetLogger(fileLogger)

	notices := ui.NewStatusNotifier()
	p, err := r.newPlayer(ctx, notices)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, p, notices)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()

	if err := p.SaveSession(context.WithoutCancel(ctx)); err != nil {
		r.logger.Error("failed to save session", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("error running TUI: %w", runErr)
	}
	return nil
}
