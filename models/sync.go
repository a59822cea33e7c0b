package models

import "time"

// StorageMode tells where the application state authoritatively lives for the
// current session.
type StorageMode string

const (
	StorageModeLocal  StorageMode = "local"
	StorageModeRemote StorageMode = "remote"
)

// SyncState is a read-only snapshot of the engine's synchronization state,
// exposed to the UI through the status accessor.
type SyncState struct {
	Mode           StorageMode `json:"mode"`
	Online         bool        `json:"online"`
	PendingChanges int         `json:"pendingChanges"`
	LastSyncTime   *time.Time  `json:"lastSyncTime,omitempty"`
}

// RemoteUpdate carries the top-level fields a pull found changed. A nil slice
// means the corresponding collection did not change; subscribers never receive
// partial note fields.
type RemoteUpdate struct {
	Notes      []Note
	Categories []Category
}

// HasChanges reports whether the update carries anything at all.
func (u RemoteUpdate) HasChanges() bool {
	return u.Notes != nil || u.Categories != nil
}
