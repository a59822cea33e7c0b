// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

// Package service contains the server-side business logic sitting between
// the HTTP handlers and the store layer.
package service

import (
	"context"

	"github.com/mailguest/flatnotes/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService handles account registration, credential verification, and
// token lifecycle.
type AuthService interface {
	// RegisterUser creates a new account with a hashed password.
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	// Login verifies the supplied credentials against the stored account.
	Login(ctx context.Context, user models.User) (models.User, error)
	// CreateToken issues a signed token for the given user.
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	// ParseToken validates a raw token string. Any validation failure is
	// normalised to [ErrTokenIsExpiredOrInvalid].
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// NoteService exposes the notes collection and its patch operations.
type NoteService interface {
	List(ctx context.Context) ([]models.Note, error)
	ReplaceAll(ctx context.Context, notes []models.Note) error
	UpdateOrder(ctx context.Context, noteID string, order int) error
	UpdateCategory(ctx context.Context, noteID, category string) error
	Reorder(ctx context.Context, items []models.ReorderEntry) error
}

// CategoryService exposes the categories collection. Replacing the
// collection takes care of notes left pointing at a removed category.
type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	ReplaceAll(ctx context.Context, categories []models.Category) error
	Reorder(ctx context.Context, items []models.ReorderEntry) error
}

// UploadService stores and removes attachment files.
type UploadService interface {
	Save(ctx context.Context, filename string, data []byte) (models.UploadResponse, error)
	Delete(ctx context.Context, filename string) error
}
