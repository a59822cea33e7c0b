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

const usersFile = "users.json"

type userRecord struct {
	UserID       int64  `json:"userId"`
	Login        string `json:"login"`
	PasswordHash string `json:"passwordHash"`
}

type userFileRepository struct {
	dataDir string
	logger  *logger.Logger

	mu sync.Mutex
}

// NewUserFileRepository constructs the file-backed [UserRepository] rooted at
// dataDir.
func NewUserFileRepository(dataDir string, log *logger.Logger) (*userFileRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &userFileRepository{dataDir: dataDir, logger: log}, nil
}

func (r *userFileRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.loadLocked()
	if err != nil {
		return models.User{}, err
	}

	var maxID int64
	for _, rec := range records {
		if rec.Login == user.Login {
			return models.User{}, ErrUserExists
		}
		if rec.UserID > maxID {
			maxID = rec.UserID
		}
	}

	record := userRecord{
		UserID:       maxID + 1,
		Login:        user.Login,
		PasswordHash: user.PasswordHash,
	}
	records = append(records, record)

	if err = r.saveLocked(records); err != nil {
		return models.User{}, err
	}

	return models.User{UserID: record.UserID, Login: record.Login, PasswordHash: record.PasswordHash}, nil
}

func (r *userFileRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.loadLocked()
	if err != nil {
		return models.User{}, err
	}

	for _, rec := range records {
		if rec.Login == login {
			return models.User{UserID: rec.UserID, Login: rec.Login, PasswordHash: rec.PasswordHash}, nil
		}
	}

	return models.User{}, ErrUserNotFound
}

func (r *userFileRepository) loadLocked() ([]userRecord, error) {
	data, err := os.ReadFile(filepath.Join(r.dataDir, usersFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []userRecord{}, nil
		}
		return nil, fmt.Errorf("read users: %w", err)
	}

	var records []userRecord
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return records, nil
}

func (r *userFileRepository) saveLocked(records []userRecord) error {
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	if err = writeFileAtomic(filepath.Join(r.dataDir, usersFile), payload); err != nil {
		return fmt.Errorf("write users: %w", err)
	}

	return nil
}
