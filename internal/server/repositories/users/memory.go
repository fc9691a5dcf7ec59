package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. Returned users are
// copies; changes take effect through Update.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return user, nil
}

func (r *MemoryRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) GetByActivationToken(_ context.Context, token string) (*models.User, error) {
	return r.find(func(u models.User) bool { return token != "" && u.ActivationToken == token })
}

func (r *MemoryRepository) GetByResetToken(_ context.Context, token string) (*models.User, error) {
	return r.find(func(u models.User) bool { return token != "" && u.ResetToken == token })
}

func (r *MemoryRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.users[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	u := *user
	u.Email = old.Email
	u.CreatedAt = old.CreatedAt
	r.users[user.ID] = u
	return nil
}
