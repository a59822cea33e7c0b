// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

// Package store contains every persistence layer of flatnotes: the
// SQLite-backed client cache ([LocalStorage]) and the file-backed server
// repositories ([NoteRepository], [CategoryRepository], [UserRepository],
// [UploadRepository]).
//
// The server note store keeps a metadata/content split: one collection file
// holds every note except its body, and one content file per note id holds
// the body. Rank and category patches therefore never touch note bodies.
package store

import (
	"context"

	"github.com/mailguest/flatnotes/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_store_mock.go -package=mock

// NoteRepository is the server-side persistent collection of notes.
type NoteRepository interface {
	// GetAll returns every note, bodies included.
	GetAll(ctx context.Context) ([]models.Note, error)
	// ReplaceAll replaces the whole collection with the given snapshot.
	ReplaceAll(ctx context.Context, notes []models.Note) error
	// UpdateOrder patches the display rank of one note without reading
	// any note body. Returns [ErrNoteNotFound] for an unknown id.
	UpdateOrder(ctx context.Context, noteID string, order int) error
	// UpdateCategory patches the category of one note without reading any
	// note body. Returns [ErrNoteNotFound] for an unknown id.
	UpdateCategory(ctx context.Context, noteID, category string) error
	// Reorder applies a batch of rank assignments; unknown ids are skipped.
	Reorder(ctx context.Context, items []models.ReorderEntry) error
}

// CategoryRepository is the server-side persistent collection of categories.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	ReplaceAll(ctx context.Context, categories []models.Category) error
	// Reorder applies a batch of rank assignments; unknown ids are skipped.
	Reorder(ctx context.Context, items []models.ReorderEntry) error
}

// UserRepository holds registered accounts.
type UserRepository interface {
	// Create stores a new account. Returns [ErrUserExists] when the login
	// is taken.
	Create(ctx context.Context, user models.User) (models.User, error)
	// GetByLogin returns the stored account, [ErrUserNotFound] otherwise.
	GetByLogin(ctx context.Context, login string) (models.User, error)
}

// UploadRepository holds attachment files.
type UploadRepository interface {
	// Save stores the uploaded bytes and returns the resulting location.
	Save(ctx context.Context, filename string, data []byte) (models.UploadResponse, error)
	// Delete removes a stored upload. Returns [ErrUploadNotFound] for an
	// unknown filename.
	Delete(ctx context.Context, filename string) error
}
