package store

import (
	"context"
	"fmt"

	"github.com/mailguest/flatnotes/internal/config"
	"github.com/mailguest/flatnotes/internal/logger"
)

// ClientStorages groups all client-side storage repositories into a single
// value that can be passed around the engine layer. Currently it holds only
// [LocalStorage]; additional repositories can be added here as the feature
// set grows.
type ClientStorages struct {
	// State is the SQLite-backed key-value repository holding the cached
	// application state, the UI selection, and the bearer credential.
	State LocalStorage
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [ClientStorages] value wired to a fresh
//     [LocalStorage].
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(cfg config.ClientStorage, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Msg("creating new client storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		State: NewLocalStateRepository(db, log),
	}, nil
}
