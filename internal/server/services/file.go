package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/filex"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/files"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
	"github.com/google/uuid"
)

// FileService stores uploads per user. Files of other users behave as if
// they did not exist.
type FileService struct {
	files files.Repository
	store storage.Store
	log   logging.Logger
}

func NewFileService(m repomanager.RepositoryManager, store storage.Store, log logging.Logger) *FileService {
	return &FileService{files: m.Files(), store: store, log: log}
}

// StorageKey is where the content of file id of userID is kept.
func StorageKey(userID, id string) string {
	return fmt.Sprintf("users/%s/%s", userID, id)
}

// List returns the files of userID, newest first.
func (s *FileService) List(ctx context.Context, userID string) ([]*models.File, error) {
	list, err := s.files.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return list, nil
}

// Upload stores r as fileName. Only the last path element of fileName is
// kept.
func (s *FileService) Upload(ctx context.Context, userID, fileName string, r io.Reader, size int64, contentType string) (*models.File, error) {
	name := filex.SafeName(fileName)
	if name == "" {
		return nil, ErrEmptyFileName
	}

	f := &models.File{
		ID:          uuid.NewString(),
		UserID:      userID,
		FileName:    name,
		ContentType: contentType,
	}
	f.StorageKey = StorageKey(userID, f.ID)

	n, err := s.store.Save(ctx, f.StorageKey, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("error storing file: %w", err)
	}
	f.FileSize = n

	if err := s.files.Create(ctx, f); err != nil {
		if derr := s.store.Delete(ctx, f.StorageKey); derr != nil {
			s.log.Warn(ctx, "orphaned blob", "key", f.StorageKey, "error", derr)
		}
		return nil, fmt.Errorf("error saving file: %w", err)
	}
	return f, nil
}

func (s *FileService) owned(ctx context.Context, userID, id string) (*models.File, error) {
	f, err := s.files.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return f, nil
}

// Download locates the content of file id.
func (s *FileService) Download(ctx context.Context, userID, id string) (*models.File, storage.Object, error) {
	f, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, storage.Object{}, err
	}
	obj, err := s.store.Locate(ctx, f.StorageKey, f.FileName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.Object{}, common.ErrorNotFound
		}
		return nil, storage.Object{}, err
	}
	return f, obj, nil
}

// Delete removes the record, then the content. A failure to remove the
// content is logged only.
func (s *FileService) Delete(ctx context.Context, userID, id string) error {
	f, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.files.Delete(ctx, f.ID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, f.StorageKey); err != nil {
		s.log.Warn(ctx, "blob delete failed", "key", f.StorageKey, "error", err)
	}
	return nil
}
