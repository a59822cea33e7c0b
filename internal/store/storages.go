package store

import (
	"fmt"
	"path/filepath"

	"github.com/mailguest/flatnotes/internal/config"
	"github.com/mailguest/flatnotes/internal/logger"
)

// Storages groups all server-side repositories into a single value passed to
// the service layer.
type Storages struct {
	Notes      NoteRepository
	Categories CategoryRepository
	Users      UserRepository
	Uploads    UploadRepository

	watcher *DataDirWatcher
}

// NewStorages initialises the server storage layer: the file-backed note,
// category, user, and upload repositories plus the data-dir watcher that
// keeps their caches coherent with on-disk edits.
func NewStorages(cfg config.ServerFiles, log *logger.Logger) (*Storages, error) {
	log.Info().Str("data_dir", cfg.DataDir).Msg("creating new storages...")

	notes, err := NewNoteFileRepository(cfg.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("create note repository: %w", err)
	}

	categories, err := NewCategoryFileRepository(cfg.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("create category repository: %w", err)
	}

	users, err := NewUserFileRepository(cfg.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("create user repository: %w", err)
	}

	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = filepath.Join(cfg.DataDir, "uploads")
	}
	uploads, err := NewUploadFileRepository(uploadDir, log)
	if err != nil {
		return nil, fmt.Errorf("create upload repository: %w", err)
	}

	watcher, err := NewDataDirWatcher(cfg.DataDir, notes, categories, log)
	if err != nil {
		return nil, fmt.Errorf("create data dir watcher: %w", err)
	}

	return &Storages{
		Notes:      notes,
		Categories: categories,
		Users:      users,
		Uploads:    uploads,
		watcher:    watcher,
	}, nil
}

// Close releases the watcher resources.
func (s *Storages) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}
