package service

import (
	"context"
	"fmt"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/store"
	"github.com/mailguest/flatnotes/models"
)

// categoryService implements CategoryService. It also holds the note
// repository: replacing the category collection may orphan notes, and those
// are reassigned here rather than left dangling.
type categoryService struct {
	categories store.CategoryRepository
	notes      store.NoteRepository
	logger     *logger.Logger
}

// NewCategoryService constructs a CategoryService wired to both repositories.
func NewCategoryService(categories store.CategoryRepository, notes store.NoteRepository, logger *logger.Logger) CategoryService {
	return &categoryService{categories: categories, notes: notes, logger: logger}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ReplaceAll swaps the whole collection for the given snapshot. Notes whose
// category disappears in the swap are moved to the first remaining category
// in rank order, or to the default category when none remain.
func (s *categoryService) ReplaceAll(ctx context.Context, categories []models.Category) error {
	log := logger.FromContext(ctx)

	previous, err := s.categories.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("read categories: %w", err)
	}

	if err = s.categories.ReplaceAll(ctx, categories); err != nil {
		return fmt.Errorf("replace categories: %w", err)
	}

	removed := removedIDs(previous, categories)
	if len(removed) == 0 {
		return nil
	}

	fallback := models.CategoryUncategorized
	bestOrder := 0
	for i, c := range categories {
		if i == 0 || c.Order < bestOrder {
			fallback = c.ID
			bestOrder = c.Order
		}
	}

	notes, err := s.notes.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("read notes for reassignment: %w", err)
	}

	for _, note := range notes {
		if !removed[note.Category] {
			continue
		}
		if err = s.notes.UpdateCategory(ctx, note.ID, fallback); err != nil {
			return fmt.Errorf("reassign note %s: %w", note.ID, err)
		}
		log.Debug().Str("note_id", note.ID).Str("category", fallback).Msg("note reassigned after category removal")
	}

	return nil
}

func (s *categoryService) Reorder(ctx context.Context, items []models.ReorderEntry) error {
	if len(items) == 0 {
		return ErrInvalidDataProvided
	}
	if err := s.categories.Reorder(ctx, items); err != nil {
		return fmt.Errorf("reorder categories: %w", err)
	}
	return nil
}

// removedIDs returns the ids present in previous but absent from current.
func removedIDs(previous, current []models.Category) map[string]bool {
	kept := make(map[string]bool, len(current))
	for _, c := range current {
		kept[c.ID] = true
	}

	removed := make(map[string]bool)
	for _, c := range previous {
		if !kept[c.ID] {
			removed[c.ID] = true
		}
	}
	return removed
}
