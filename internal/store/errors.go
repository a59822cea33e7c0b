package store

import "errors"

var (
	// ErrKeyNotFound is returned when a requested key has never been written
	// to the client cache.
	ErrKeyNotFound = errors.New("key not found in local storage")
	// ErrNoteNotFound is returned by the server file store when a note id is
	// absent from the metadata collection.
	ErrNoteNotFound = errors.New("note not found")
	// ErrUserExists is returned when registering a login that is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when a login is unknown.
	ErrUserNotFound = errors.New("user not found")
	// ErrUploadNotFound is returned when deleting an unknown upload.
	ErrUploadNotFound = errors.New("upload not found")
)
