package syncer

import "errors"

var (
	// ErrNotRemoteMode is returned by remote-only operations while the
	// engine runs in local mode.
	ErrNotRemoteMode = errors.New("engine is not in remote mode")
	// ErrOffline is returned by ForceSyncToServer while connectivity is
	// down. Background writes are never rejected for being offline.
	ErrOffline = errors.New("remote store is offline")
	// ErrRemoteUnavailable is returned when the liveness probe fails.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	// ErrStopped is returned when a facade call races engine teardown.
	ErrStopped = errors.New("sync engine stopped")
)
