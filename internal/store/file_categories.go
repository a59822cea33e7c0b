package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/models"
)

const categoriesFile = "categories.json"

type categoryFileRepository struct {
	dataDir string
	logger  *logger.Logger

	mu    sync.RWMutex
	cache []models.Category // nil means not loaded
}

// NewCategoryFileRepository constructs the file-backed [CategoryRepository]
// rooted at dataDir.
func NewCategoryFileRepository(dataDir string, log *logger.Logger) (*categoryFileRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &categoryFileRepository{dataDir: dataDir, logger: log}, nil
}

// Invalidate drops the in-memory cache; the next read reloads from disk.
func (r *categoryFileRepository) Invalidate() {
	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()
}

func (r *categoryFileRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *categoryFileRepository) ReplaceAll(ctx context.Context, categories []models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if categories == nil {
		categories = []models.Category{}
	}
	return r.saveLocked(categories)
}

func (r *categoryFileRepository) Reorder(ctx context.Context, items []models.ReorderEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	categories, err := r.loadLocked()
	if err != nil {
		return err
	}

	orders := make(map[string]int, len(items))
	for _, item := range items {
		orders[item.ID] = item.Order
	}

	for i := range categories {
		if order, ok := orders[categories[i].ID]; ok {
			categories[i].Order = order
		}
	}

	return r.saveLocked(categories)
}

func (r *categoryFileRepository) loadLocked() ([]models.Category, error) {
	if r.cache != nil {
		return r.cache, nil
	}

	data, err := os.ReadFile(filepath.Join(r.dataDir, categoriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			r.cache = []models.Category{}
			return r.cache, nil
		}
		return nil, fmt.Errorf("read categories: %w", err)
	}

	var categories []models.Category
	if err = json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}

	r.cache = categories
	return categories, nil
}

func (r *categoryFileRepository) saveLocked(categories []models.Category) error {
	payload, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}

	if err = writeFileAtomic(filepath.Join(r.dataDir, categoriesFile), payload); err != nil {
		return fmt.Errorf("write categories: %w", err)
	}

	r.cache = categories
	return nil
}
