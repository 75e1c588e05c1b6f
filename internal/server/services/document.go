package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/truthlens/truthlens/internal/common"
	"github.com/truthlens/truthlens/internal/logging"
	"github.com/truthlens/truthlens/internal/server/models"
	"github.com/truthlens/truthlens/internal/server/repositories/documents"
	"github.com/truthlens/truthlens/internal/server/repositories/repomanager"
)

// DocumentService handles document CRUD. Content updates re-sync sentences so
// the stored spans never drift from the text.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sentences   *SentenceService
	logger      logging.Logger
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, sentences *SentenceService, logger logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: m,
		sentences:   sentences,
		logger:      logger.With("module", "documents"),
	}
}

func (s *DocumentService) Create(ctx context.Context, userID int64, title, content string) (*models.Document, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrInvalidInput)
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrInvalidInput)
		}
		return nil, err
	}

	doc := &models.Document{UserID: userID, Title: title, Content: content}
	doc, err := s.repomanager.Documents(s.db).Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("error creating document: %w", err)
	}

	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, id int64) (*models.Document, error) {
	return s.repomanager.Documents(s.db).GetByID(ctx, id)
}

func (s *DocumentService) List(ctx context.Context, userID *int64) ([]*models.Document, error) {
	return s.repomanager.Documents(s.db).List(ctx, userID)
}

// Update changes title and/or content. A content change re-syncs the
// document's sentences before returning.
func (s *DocumentService) Update(ctx context.Context, id int64, title, content *string) (*models.Document, error) {
	if title == nil && content == nil {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrInvalidInput)
	}

	doc, err := s.repomanager.Documents(s.db).Update(ctx, id, documents.UpdateFields{Title: title, Content: content})
	if err != nil {
		return nil, err
	}

	if content != nil {
		if _, err := s.sentences.sync(ctx, doc.ID, doc.Content); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Documents(s.db).Delete(ctx, id)
}
