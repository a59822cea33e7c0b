package service

import (
	"context"
	"fmt"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/store"
	"github.com/mailguest/flatnotes/models"
)

type uploadService struct {
	uploads store.UploadRepository
	logger  *logger.Logger
}

// NewUploadService constructs an UploadService wired to the given repository.
func NewUploadService(uploads store.UploadRepository, logger *logger.Logger) UploadService {
	return &uploadService{uploads: uploads, logger: logger}
}

func (s *uploadService) Save(ctx context.Context, filename string, data []byte) (models.UploadResponse, error) {
	if filename == "" || len(data) == 0 {
		return models.UploadResponse{}, ErrInvalidDataProvided
	}

	resp, err := s.uploads.Save(ctx, filename, data)
	if err != nil {
		return models.UploadResponse{}, fmt.Errorf("save upload: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("filename", resp.Filename).Int64("size", resp.Size).Msg("upload stored")
	return resp, nil
}

func (s *uploadService) Delete(ctx context.Context, filename string) error {
	if filename == "" {
		return ErrInvalidDataProvided
	}
	if err := s.uploads.Delete(ctx, filename); err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}
