package store

import (
	"context"

	"github.com/mailguest/flatnotes/models"
)

// LocalStorage is the durable on-device persistence layer. It holds the last
// known full application state, the locally-scoped UI selection, and the
// bearer credential. Writes are synchronous; a crash immediately after a
// successful call loses nothing.
type LocalStorage interface {
	// GetAppState returns the persisted notes and categories. A never-written
	// store yields an empty state, not an error.
	GetAppState(ctx context.Context) (models.AppState, error)

	// SaveAppState durably replaces the persisted notes and categories.
	SaveAppState(ctx context.Context, state models.AppState) error

	// GetUIState returns the persisted UI selection. Never synchronized.
	GetUIState(ctx context.Context) (models.UIState, error)

	// SaveUIState durably replaces the persisted UI selection.
	SaveUIState(ctx context.Context, state models.UIState) error

	// GetToken returns the stored bearer credential, or [ErrKeyNotFound]
	// if none has been stored.
	GetToken(ctx context.Context) (string, error)

	// SaveToken durably stores the bearer credential.
	SaveToken(ctx context.Context, token string) error

	// DeleteToken removes the stored credential. Deleting an absent
	// credential is a no-op.
	DeleteToken(ctx context.Context) error
}
