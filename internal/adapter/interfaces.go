// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

// Package adapter provides the transport layer for communicating with the
// flatnotes remote store.
//
// The primary abstraction is [RemoteStore], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteStore]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/mailguest/flatnotes/models"
)

// RemoteStore defines transport-agnostic communication with the flatnotes
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type RemoteStore interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. An empty string clears the credential.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if none has been set.
	Token() string

	// Register creates a new account. On success the issued bearer token is
	// stored via SetToken and returned.
	Register(ctx context.Context, user models.User) (models.Token, error)

	// Login authenticates an existing account. On success the issued bearer
	// token is stored via SetToken and returned.
	Login(ctx context.Context, user models.User) (models.Token, error)

	// Health probes server liveness. It must not require a credential.
	Health(ctx context.Context) error

	// ListNotes fetches the full remote notes collection.
	ListNotes(ctx context.Context) ([]models.Note, error)

	// ReplaceNotes replaces the entire remote notes collection with the
	// given snapshot. Sending the full collection makes retries idempotent.
	ReplaceNotes(ctx context.Context, notes []models.Note) error

	// ListCategories fetches the full remote categories collection.
	ListCategories(ctx context.Context) ([]models.Category, error)

	// ReplaceCategories replaces the entire remote categories collection.
	ReplaceCategories(ctx context.Context, categories []models.Category) error

	// UpdateNoteOrder patches the display rank of a single note.
	UpdateNoteOrder(ctx context.Context, noteID string, order int) error

	// UpdateNoteCategory patches the category of a single note.
	UpdateNoteCategory(ctx context.Context, noteID, category string) error

	// ReorderNotes applies a batch of note rank assignments.
	ReorderNotes(ctx context.Context, items []models.ReorderEntry) error

	// ReorderCategories applies a batch of category rank assignments.
	ReorderCategories(ctx context.Context, items []models.ReorderEntry) error

	// UploadAttachment uploads attachment bytes via multipart form data and
	// returns the server-side location.
	UploadAttachment(ctx context.Context, name, mimeType string, data []byte) (models.UploadResponse, error)

	// DeleteAttachment removes a previously uploaded attachment by filename.
	DeleteAttachment(ctx context.Context, filename string) error
}
