package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/offline/internal/adapters/tui"
	"go.trai.ch/zerr"
)

// Inspect opens the interactive bucket browser over the configured storage.
func (a *App) Inspect(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	storage, err := a.opener.Open(ctx, cfg.Storage)
	if err != nil {
		return zerr.Wrap(err, "failed to open cache storage")
	}
	defer func() {
		_ = storage.Close()
	}()

	buckets, err := tui.LoadBuckets(ctx, storage)
	if err != nil {
		return err
	}

	model := tui.NewModel(buckets, cfg.Generation.String())
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return zerr.Wrap(err, "inspector failed")
	}
	return nil
}
