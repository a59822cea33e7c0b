// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

package syncer

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mailguest/flatnotes/models"
)

// Convenience operations. Each one applies the change to the local store
// first and then, in remote mode, prefers the dedicated patch endpoint over
// a full push: the patches are cheap and idempotent on the server side. If
// the patch cannot be delivered the change is queued for the regular push
// path instead, so nothing depends on the fast path succeeding.

// ReorderNotes assigns new display ranks to the given notes.
func (e *Engine) ReorderNotes(ctx context.Context, items []models.ReorderEntry) error {
	state, err := e.local.GetAppState(ctx)
	if err != nil {
		return fmt.Errorf("read local state: %w", err)
	}

	ranks := make(map[string]int, len(items))
	for _, it := range items {
		ranks[it.ID] = it.Order
	}

	now := time.Now().UTC()
	changed := false
	for i := range state.Notes {
		if order, ok := ranks[state.Notes[i].ID]; ok && state.Notes[i].Order != order {
			state.Notes[i].Order = order
			state.Notes[i].Touch(now)
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err = e.local.SaveAppState(ctx, state); err != nil {
		return fmt.Errorf("save local state: %w", err)
	}

	e.patchOrQueue(ctx, func() error {
		return e.remote.ReorderNotes(ctx, items)
	})
	return nil
}

// ReorderCategories assigns new display ranks to the given categories.
func (e *Engine) ReorderCategories(ctx context.Context, items []models.ReorderEntry) error {
	state, err := e.local.GetAppState(ctx)
	if err != nil {
		return fmt.Errorf("read local state: %w", err)
	}

	ranks := make(map[string]int, len(items))
	for _, it := range items {
		ranks[it.ID] = it.Order
	}

	changed := false
	for i := range state.Categories {
		if order, ok := ranks[state.Categories[i].ID]; ok && state.Categories[i].Order != order {
			state.Categories[i].Order = order
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err = e.local.SaveAppState(ctx, state); err != nil {
		return fmt.Errorf("save local state: %w", err)
	}

	e.patchOrQueue(ctx, func() error {
		return e.remote.ReorderCategories(ctx, items)
	})
	return nil
}

// MoveNoteToCategory reassigns a single note to another category.
func (e *Engine) MoveNoteToCategory(ctx context.Context, noteID, categoryID string) error {
	state, err := e.local.GetAppState(ctx)
	if err != nil {
		return fmt.Errorf("read local state: %w", err)
	}

	idx := noteIndex(state.Notes, noteID)
	if idx < 0 {
		return fmt.Errorf("note %s: not found", noteID)
	}
	if state.Notes[idx].Category == categoryID {
		return nil
	}

	state.Notes[idx].Category = categoryID
	state.Notes[idx].Touch(time.Now().UTC())

	if err = e.local.SaveAppState(ctx, state); err != nil {
		return fmt.Errorf("save local state: %w", err)
	}

	e.patchOrQueue(ctx, func() error {
		return e.remote.UpdateNoteCategory(ctx, noteID, categoryID)
	})
	return nil
}

// SetNoteOrder assigns a new display rank to a single note.
func (e *Engine) SetNoteOrder(ctx context.Context, noteID string, order int) error {
	state, err := e.local.GetAppState(ctx)
	if err != nil {
		return fmt.Errorf("read local state: %w", err)
	}

	idx := noteIndex(state.Notes, noteID)
	if idx < 0 {
		return fmt.Errorf("note %s: not found", noteID)
	}
	if state.Notes[idx].Order == order {
		return nil
	}

	state.Notes[idx].Order = order
	state.Notes[idx].Touch(time.Now().UTC())

	if err = e.local.SaveAppState(ctx, state); err != nil {
		return fmt.Errorf("save local state: %w", err)
	}

	e.patchOrQueue(ctx, func() error {
		return e.remote.UpdateNoteOrder(ctx, noteID, order)
	})
	return nil
}

// AddAttachment attaches a file to a note. In remote mode the bytes go to
// the server upload area and the attachment records the returned URL; in
// local mode the bytes are embedded in the attachment itself as a data URL,
// so a purely local session never needs a blob store.
func (e *Engine) AddAttachment(ctx context.Context, noteID, name, mimeType string, data []byte) (models.Attachment, error) {
	att := models.Attachment{
		ID:       uuid.NewString(),
		Name:     name,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}

	if e.Mode() == models.StorageModeRemote && e.online() {
		resp, err := e.remote.UploadAttachment(ctx, name, mimeType, data)
		if err != nil {
			e.handleUnauthorized(ctx, err)
			return models.Attachment{}, fmt.Errorf("upload attachment: %w", err)
		}
		att.Name = resp.Filename
		att.URL = resp.URL
	} else {
		att.URL = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	}

	state, err := e.local.GetAppState(ctx)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("read local state: %w", err)
	}

	idx := noteIndex(state.Notes, noteID)
	if idx < 0 {
		return models.Attachment{}, fmt.Errorf("note %s: not found", noteID)
	}

	state.Notes[idx].Attachments = append(state.Notes[idx].Attachments, att)
	state.Notes[idx].Touch(time.Now().UTC())

	if err = e.local.SaveAppState(ctx, state); err != nil {
		return models.Attachment{}, fmt.Errorf("save local state: %w", err)
	}

	e.queueChange()
	return att, nil
}

// RemoveAttachment detaches a file from a note and, when it lives in the
// server upload area, deletes the stored bytes as well.
func (e *Engine) RemoveAttachment(ctx context.Context, noteID, attachmentID string) error {
	state, err := e.local.GetAppState(ctx)
	if err != nil {
		return fmt.Errorf("read local state: %w", err)
	}

	idx := noteIndex(state.Notes, noteID)
	if idx < 0 {
		return fmt.Errorf("note %s: not found", noteID)
	}

	note := &state.Notes[idx]
	var removed models.Attachment
	found := false
	for i, a := range note.Attachments {
		if a.ID == attachmentID {
			removed = a
			found = true
			note.Attachments = append(note.Attachments[:i], note.Attachments[i+1:]...)
			break
		}
	}
	if !found {
		return fmt.Errorf("attachment %s: not found", attachmentID)
	}

	note.Touch(time.Now().UTC())
	if err = e.local.SaveAppState(ctx, state); err != nil {
		return fmt.Errorf("save local state: %w", err)
	}

	if e.Mode() == models.StorageModeRemote && e.online() {
		if filename, ok := strings.CutPrefix(removed.URL, "/upload/"); ok {
			if err = e.remote.DeleteAttachment(ctx, filename); err != nil {
				e.handleUnauthorized(ctx, err)
				e.logger.Warn().Err(err).Str("filename", filename).Msg("failed to delete uploaded attachment")
			}
		}
	}

	e.queueChange()
	return nil
}

// patchOrQueue delivers a change through its dedicated remote endpoint. When
// the patch cannot run (local mode, offline, or a transport error) the
// change is queued for the next full push instead.
func (e *Engine) patchOrQueue(ctx context.Context, patch func() error) {
	if e.Mode() != models.StorageModeRemote {
		return
	}
	if !e.online() {
		e.queueChange()
		return
	}

	if err := patch(); err != nil {
		e.handleUnauthorized(ctx, err)
		e.logger.Warn().Err(err).Msg("remote patch failed, queueing for full push")
		e.queueChange()
	}
}

func (e *Engine) queueChange() {
	if e.Mode() != models.StorageModeRemote {
		return
	}
	e.mu.Lock()
	e.pending++
	e.mu.Unlock()
	e.signalSave()
}

func noteIndex(notes []models.Note, id string) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}
