package service

import (
	"context"
	"fmt"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/store"
	"github.com/mailguest/flatnotes/models"
)

// noteService implements NoteService on top of the note repository. It is a
// thin layer: collection semantics live in the repository, input shape is
// checked by the transport layer.
type noteService struct {
	notes  store.NoteRepository
	logger *logger.Logger
}

// NewNoteService constructs a NoteService wired to the given repository.
func NewNoteService(notes store.NoteRepository, logger *logger.Logger) NoteService {
	return &noteService{notes: notes, logger: logger}
}

func (s *noteService) List(ctx context.Context) ([]models.Note, error) {
	notes, err := s.notes.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// ReplaceAll swaps the whole collection for the given snapshot. Notes with
// an empty category land in the default one.
func (s *noteService) ReplaceAll(ctx context.Context, notes []models.Note) error {
	for i := range notes {
		if notes[i].Category == "" {
			notes[i].Category = models.CategoryUncategorized
		}
	}

	if err := s.notes.ReplaceAll(ctx, notes); err != nil {
		return fmt.Errorf("replace notes: %w", err)
	}

	logger.FromContext(ctx).Debug().Int("count", len(notes)).Msg("notes collection replaced")
	return nil
}

func (s *noteService) UpdateOrder(ctx context.Context, noteID string, order int) error {
	if noteID == "" {
		return ErrInvalidDataProvided
	}
	if err := s.notes.UpdateOrder(ctx, noteID, order); err != nil {
		return fmt.Errorf("update note order: %w", err)
	}
	return nil
}

func (s *noteService) UpdateCategory(ctx context.Context, noteID, category string) error {
	if noteID == "" || category == "" {
		return ErrInvalidDataProvided
	}
	if err := s.notes.UpdateCategory(ctx, noteID, category); err != nil {
		return fmt.Errorf("update note category: %w", err)
	}
	return nil
}

func (s *noteService) Reorder(ctx context.Context, items []models.ReorderEntry) error {
	if len(items) == 0 {
		return ErrInvalidDataProvided
	}
	if err := s.notes.Reorder(ctx, items); err != nil {
		return fmt.Errorf("reorder notes: %w", err)
	}
	return nil
}
