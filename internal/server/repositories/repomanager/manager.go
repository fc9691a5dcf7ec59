// Package repomanager vends the repositories of one storage backend and
// owns its lifecycle (migrations, closing).
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/files"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Files() files.Repository
	Close() error
}
