// Package tui implements the interactive terminal client: a note list with
// inline viewing and editing, plus a status line reflecting the sync engine
// state.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/syncer"
	"github.com/mailguest/flatnotes/models"
)

var ErrUserQuit = errors.New("user quit the program")

type TUI struct {
	engine *syncer.Engine
	logger *logger.Logger
}

func New(engine *syncer.Engine, logger *logger.Logger) *TUI {
	return &TUI{engine: engine, logger: logger}
}

// Run starts the main loop and blocks until the user quits. Remote updates
// discovered by the sync engine are forwarded into the running program so
// the list refreshes without user action.
func (t *TUI) Run(ctx context.Context) error {
	model := newMainModel(ctx, t.engine, t.logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := t.engine.Subscribe(func(update models.RemoteUpdate) {
		program.Send(remoteUpdateMsg{update: update})
	})
	defer unsubscribe()

	t.engine.OnSessionExpired(func() {
		program.Send(sessionExpiredMsg{})
	})

	final, err := program.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(mainModel); ok && m.quitByUser {
		return ErrUserQuit
	}
	return nil
}
