// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

package models

import "time"

// CategoryUncategorized is the sentinel category assigned to notes that have
// no explicit category.
const CategoryUncategorized = "uncategorized"

// Attachment is a binary file owned by exactly one note. URL either embeds
// the data directly (local-only mode) or points into the server upload area.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// Note is a single note with its metadata. Order defines display rank within
// the note list; it is mutable and not globally unique.
type Note struct {
	ID          string       `json:"id" validate:"required"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Tags        []string     `json:"tags"`
	Category    string       `json:"category"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Order       int          `json:"order"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Touch bumps UpdatedAt to now, keeping the updatedAt >= createdAt invariant.
func (n *Note) Touch(now time.Time) {
	if now.Before(n.CreatedAt) {
		now = n.CreatedAt
	}
	n.UpdatedAt = now
}

// Equal reports whether two notes are identical field for field.
func (n Note) Equal(other Note) bool {
	if n.ID != other.ID ||
		n.Title != other.Title ||
		n.Content != other.Content ||
		n.Category != other.Category ||
		n.Order != other.Order ||
		!n.CreatedAt.Equal(other.CreatedAt) ||
		!n.UpdatedAt.Equal(other.UpdatedAt) {
		return false
	}
	if len(n.Tags) != len(other.Tags) {
		return false
	}
	for i := range n.Tags {
		if n.Tags[i] != other.Tags[i] {
			return false
		}
	}
	if len(n.Attachments) != len(other.Attachments) {
		return false
	}
	for i := range n.Attachments {
		if n.Attachments[i] != other.Attachments[i] {
			return false
		}
	}
	return true
}

// Category groups notes and carries its own display rank.
type Category struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

// AppState is the aggregate exchanged between the local and remote stores.
// UI selection lives in UIState and is never synchronized.
type AppState struct {
	Notes      []Note     `json:"notes"`
	Categories []Category `json:"categories"`
}

// UIState holds the currently open note and category. Persisted locally only.
type UIState struct {
	SelectedNoteID   string `json:"selectedNoteId"`
	SelectedCategory string `json:"selectedCategory"`
}
