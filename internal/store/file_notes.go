package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/models"
)

const (
	notesMetaFile  = "notes.json"
	contentDirName = "content"
)

// noteMeta is the on-disk note record with the body excluded. The body lives
// in a separate content file so list-level operations never read it.
type noteMeta struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Tags        []string            `json:"tags"`
	Category    string              `json:"category"`
	Attachments []models.Attachment `json:"attachments,omitempty"`
	Order       int                 `json:"order"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

type noteFileRepository struct {
	dataDir string
	logger  *logger.Logger

	mu    sync.RWMutex
	cache []noteMeta // nil means not loaded
}

// NewNoteFileRepository constructs the file-backed [NoteRepository] rooted at
// dataDir. The metadata collection is cached in memory; Invalidate drops the
// cache when the files change outside the process.
func NewNoteFileRepository(dataDir string, log *logger.Logger) (*noteFileRepository, error) {
	if err := os.MkdirAll(filepath.Join(dataDir, contentDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}

	return &noteFileRepository{dataDir: dataDir, logger: log}, nil
}

// Invalidate drops the in-memory metadata cache. The next read reloads from
// disk. Called by the data-dir watcher.
func (r *noteFileRepository) Invalidate() {
	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()
}

func (r *noteFileRepository) GetAll(ctx context.Context) ([]models.Note, error) {
	metas, err := r.loadMeta()
	if err != nil {
		return nil, err
	}

	notes := make([]models.Note, 0, len(metas))
	for _, m := range metas {
		content, err := os.ReadFile(r.contentPath(m.ID))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read note content %s: %w", m.ID, err)
		}
		notes = append(notes, models.Note{
			ID:          m.ID,
			Title:       m.Title,
			Content:     string(content),
			Tags:        m.Tags,
			Category:    m.Category,
			Attachments: m.Attachments,
			Order:       m.Order,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		})
	}

	return notes, nil
}

func (r *noteFileRepository) ReplaceAll(ctx context.Context, notes []models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metas := make([]noteMeta, 0, len(notes))
	keep := make(map[string]bool, len(notes))
	for _, n := range notes {
		keep[n.ID] = true
		metas = append(metas, noteMeta{
			ID:          n.ID,
			Title:       n.Title,
			Tags:        n.Tags,
			Category:    n.Category,
			Attachments: n.Attachments,
			Order:       n.Order,
			CreatedAt:   n.CreatedAt,
			UpdatedAt:   n.UpdatedAt,
		})
		if err := writeFileAtomic(r.contentPath(n.ID), []byte(n.Content)); err != nil {
			return fmt.Errorf("write note content %s: %w", n.ID, err)
		}
	}

	// Content files of notes no longer in the collection are removed so
	// deletions propagate to disk.
	entries, err := os.ReadDir(filepath.Join(r.dataDir, contentDirName))
	if err != nil {
		return fmt.Errorf("list content dir: %w", err)
	}
	for _, entry := range entries {
		id := trimContentExt(entry.Name())
		if !keep[id] {
			if err := os.Remove(filepath.Join(r.dataDir, contentDirName, entry.Name())); err != nil {
				r.logger.Warn().Err(err).Str("note_id", id).Msg("failed to remove orphaned content file")
			}
		}
	}

	if err := r.saveMetaLocked(metas); err != nil {
		return err
	}

	return nil
}

func (r *noteFileRepository) UpdateOrder(ctx context.Context, noteID string, order int) error {
	return r.patchMeta(noteID, func(m *noteMeta) {
		m.Order = order
	})
}

func (r *noteFileRepository) UpdateCategory(ctx context.Context, noteID, category string) error {
	return r.patchMeta(noteID, func(m *noteMeta) {
		m.Category = category
	})
}

func (r *noteFileRepository) Reorder(ctx context.Context, items []models.ReorderEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metas, err := r.loadMetaLocked()
	if err != nil {
		return err
	}

	orders := make(map[string]int, len(items))
	for _, item := range items {
		orders[item.ID] = item.Order
	}

	now := time.Now().UTC()
	for i := range metas {
		if order, ok := orders[metas[i].ID]; ok {
			metas[i].Order = order
			metas[i].UpdatedAt = now
		}
	}

	return r.saveMetaLocked(metas)
}

func (r *noteFileRepository) patchMeta(noteID string, apply func(*noteMeta)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metas, err := r.loadMetaLocked()
	if err != nil {
		return err
	}

	for i := range metas {
		if metas[i].ID == noteID {
			apply(&metas[i])
			metas[i].UpdatedAt = time.Now().UTC()
			return r.saveMetaLocked(metas)
		}
	}

	return ErrNoteNotFound
}

func (r *noteFileRepository) loadMeta() ([]noteMeta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadMetaLocked()
}

func (r *noteFileRepository) loadMetaLocked() ([]noteMeta, error) {
	if r.cache != nil {
		return r.cache, nil
	}

	data, err := os.ReadFile(filepath.Join(r.dataDir, notesMetaFile))
	if err != nil {
		if os.IsNotExist(err) {
			r.cache = []noteMeta{}
			return r.cache, nil
		}
		return nil, fmt.Errorf("read notes metadata: %w", err)
	}

	var metas []noteMeta
	if err = json.Unmarshal(data, &metas); err != nil {
		return nil, fmt.Errorf("decode notes metadata: %w", err)
	}
	if metas == nil {
		metas = []noteMeta{}
	}

	r.cache = metas
	return metas, nil
}

func (r *noteFileRepository) saveMetaLocked(metas []noteMeta) error {
	payload, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notes metadata: %w", err)
	}

	if err = writeFileAtomic(filepath.Join(r.dataDir, notesMetaFile), payload); err != nil {
		return fmt.Errorf("write notes metadata: %w", err)
	}

	r.cache = metas
	return nil
}

func (r *noteFileRepository) contentPath(noteID string) string {
	return filepath.Join(r.dataDir, contentDirName, noteID+".md")
}

func trimContentExt(name string) string {
	if ext := filepath.Ext(name); ext != "" {
		return name[:len(name)-len(ext)]
	}
	return name
}

// writeFileAtomic writes via a temp file and rename so readers never observe
// a half-written collection.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
