package files

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

// Repository persists file metadata. Get and Delete of an unknown id
// return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, file *models.File) error
	ListByUser(ctx context.Context, userID string) ([]*models.File, error)
	Get(ctx context.Context, id string) (*models.File, error)
	Delete(ctx context.Context, id string) error
}
