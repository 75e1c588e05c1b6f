package documents

import (
	"context"

	"github.com/truthlens/truthlens/internal/server/models"
)

// UpdateFields lists the mutable document columns. Nil pointers are left
// unchanged.
type UpdateFields struct {
	Title   *string
	Content *string
}

type Repository interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	// List returns documents ordered by creation time descending. A nil
	// userID returns every document.
	List(ctx context.Context, userID *int64) ([]*models.Document, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*models.Document, error)
	Delete(ctx context.Context, id int64) error
}
