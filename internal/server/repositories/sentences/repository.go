package sentences

import (
	"context"

	"github.com/truthlens/truthlens/internal/server/models"
)

// SliceFields lists the reconcilable sentence columns. Nil pointers are left
// unchanged, so a reconciliation update writes only what actually differs.
type SliceFields struct {
	Content *string
	Start   *int
	End     *int
}

type Repository interface {
	// ListByDocument returns the document's sentences ordered by start
	// offset ascending, then id ascending.
	ListByDocument(ctx context.Context, documentID int64) ([]*models.Sentence, error)
	GetByID(ctx context.Context, id int64) (*models.Sentence, error)
	Create(ctx context.Context, s *models.Sentence) (*models.Sentence, error)
	UpdateSlice(ctx context.Context, id int64, fields SliceFields) error
	// SetAnalysis writes the derived analysis state of one sentence.
	SetAnalysis(ctx context.Context, id int64, flagged bool, confidence int) error
	// ResetAnalysisByDocument clears flags and confidence for every sentence
	// of a document.
	ResetAnalysisByDocument(ctx context.Context, documentID int64) error
	// Delete removes the given sentences; their corrections cascade away.
	Delete(ctx context.Context, ids []int64) (int64, error)
	DeleteByDocument(ctx context.Context, documentID int64) (int64, error)
}
