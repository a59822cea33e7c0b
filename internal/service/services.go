package service

import (
	"github.com/mailguest/flatnotes/internal/config"
	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/store"
)

// Services groups every server-side service into a single value passed to
// the transport layer.
type Services struct {
	Auth       AuthService
	Notes      NoteService
	Categories CategoryService
	Uploads    UploadService
}

// NewServices wires the service layer to the given storages.
func NewServices(storages *store.Storages, cfg config.ServerAuth, logger *logger.Logger) *Services {
	return &Services{
		Auth:       NewAuthService(storages.Users, cfg, logger),
		Notes:      NewNoteService(storages.Notes, logger),
		Categories: NewCategoryService(storages.Categories, storages.Notes, logger),
		Uploads:    NewUploadService(storages.Uploads, logger),
	}
}
