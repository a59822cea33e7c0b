// Package client wires the interactive client together: local storage, the
// remote adapter, the sync engine, and the terminal UI.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailguest/flatnotes/internal/adapter"
	"github.com/mailguest/flatnotes/internal/config"
	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/netmon"
	"github.com/mailguest/flatnotes/internal/store"
	"github.com/mailguest/flatnotes/internal/syncer"
	"github.com/mailguest/flatnotes/internal/tui"
	"github.com/mailguest/flatnotes/models"
)

type App struct {
	engine *syncer.Engine
	remote adapter.RemoteStore
	local  store.LocalStorage
	ui     *tui.TUI
	logger *logger.Logger
}

func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	// No adapter address means a deliberately local-only client.
	var remote adapter.RemoteStore
	var monitor netmon.Monitor
	if cfg.Adapter.HTTPAddress != "" {
		remote, err = adapter.NewHTTPRemoteStore(cfg.Adapter, log)
		if err != nil {
			return nil, fmt.Errorf("create remote adapter: %w", err)
		}
		monitor = netmon.NewProbeMonitor(remote.Health, 0)
	}

	engine := syncer.NewEngine(storages.State, remote, monitor, syncer.ConfigFromClient(cfg.Sync), log)

	return &App{
		engine: engine,
		remote: remote,
		local:  storages.State,
		ui:     tui.New(engine, log),
		logger: log,
	}, nil
}

func (a *App) Run() error {
	ctx := context.Background()

	mode := a.engine.Start(ctx)
	defer a.engine.Stop()

	if mode == models.StorageModeRemote && a.remote.Token() == "" {
		token, err := a.ui.LoginFlow(ctx, a.remote)
		if err != nil {
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			return fmt.Errorf("login flow: %w", err)
		}

		if err = a.local.SaveToken(ctx, token.SignedString); err != nil {
			a.logger.Warn().Err(err).Msg("failed to persist token, session will not survive restart")
		}
	}

	if err := a.ui.Run(ctx); err != nil && !errors.Is(err, tui.ErrUserQuit) {
		return fmt.Errorf("main loop: %w", err)
	}

	return nil
}
