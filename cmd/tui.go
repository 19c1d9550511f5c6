package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/socotk/internal/session"
	"github.com/desertthunder/socotk/internal/shared"
	"github.com/desertthunder/socotk/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive speaker browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	store, err := r.Store()
	if err != nil {
		return err
	}

	sess := session.New(store, r.controller, r.fetcher, r.logger)
	model := ui.NewModel(ctx, sess, r.logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
