package corrections

import (
	"context"

	"github.com/truthlens/truthlens/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Correction) (*models.Correction, error)
	GetByID(ctx context.Context, id int64) (*models.Correction, error)
	// ListBySentence returns the sentence's corrections newest first.
	ListBySentence(ctx context.Context, sentenceID int64) ([]*models.Correction, error)
	// DeleteByDocument removes every correction attached to the document's
	// sentences. Used before re-merging an analysis run.
	DeleteByDocument(ctx context.Context, documentID int64) (int64, error)
}
