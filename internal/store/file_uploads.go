package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/models"
)

type uploadFileRepository struct {
	uploadDir string
	logger    *logger.Logger
}

// NewUploadFileRepository constructs the file-backed [UploadRepository]
// storing attachments under uploadDir.
func NewUploadFileRepository(uploadDir string, log *logger.Logger) (*uploadFileRepository, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &uploadFileRepository{uploadDir: uploadDir, logger: log}, nil
}

func (r *uploadFileRepository) Save(ctx context.Context, filename string, data []byte) (models.UploadResponse, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		name = uuid.NewString()
	}

	// A name collision gets a unique prefix rather than clobbering the
	// existing upload.
	if _, err := os.Stat(filepath.Join(r.uploadDir, name)); err == nil {
		name = uuid.NewString()[:8] + "-" + name
	}

	path := filepath.Join(r.uploadDir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return models.UploadResponse{}, fmt.Errorf("write upload %s: %w", name, err)
	}

	return models.UploadResponse{
		Filename: name,
		URL:      "/upload/" + name,
		Size:     int64(len(data)),
	}, nil
}

func (r *uploadFileRepository) Delete(ctx context.Context, filename string) error {
	name := sanitizeFilename(filename)
	path := filepath.Join(r.uploadDir, name)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrUploadNotFound
		}
		return fmt.Errorf("remove upload %s: %w", name, err)
	}

	return nil
}

// sanitizeFilename strips path separators so uploads cannot escape the
// upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
