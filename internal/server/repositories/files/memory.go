package files

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

// MemoryRepository keeps file metadata in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	files map[string]models.File
	seq   int64
	order map[string]int64
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		files: make(map[string]models.File),
		order: make(map[string]int64),
	}
}

func (r *MemoryRepository) Create(_ context.Context, file *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[file.ID]; ok {
		return common.ErrorAlreadyExists
	}
	file.CreatedAt = time.Now()
	r.seq++
	r.order[file.ID] = r.seq
	r.files[file.ID] = *file
	return nil
}

// ListByUser returns the files of userID, newest first. Insertion order
// breaks ties between equal timestamps.
func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.File
	for _, f := range r.files {
		if f.UserID == userID {
			result = append(result, &f)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return r.order[result[i].ID] > r.order[result[j].ID]
	})
	return result, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &f, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.files, id)
	delete(r.order, id)
	return nil
}
