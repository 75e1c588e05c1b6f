package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/truthlens/truthlens/internal/common"
	"github.com/truthlens/truthlens/internal/logging"
	"github.com/truthlens/truthlens/internal/server/models"
	"github.com/truthlens/truthlens/internal/server/repositories/documents"
	"github.com/truthlens/truthlens/internal/server/repositories/repomanager"
)

// SentenceWithCorrections pairs a sentence with its corrections, newest
// first.
type SentenceWithCorrections struct {
	Sentence    *models.Sentence
	Corrections []*models.Correction
}

// ApplyResult is the document state after a correction has been applied.
type ApplyResult struct {
	Document  *models.Document
	Sentences []SentenceWithCorrections
}

// CorrectionService manages suggested corrections and their application back
// into the document text.
type CorrectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sentences   *SentenceService
	logger      logging.Logger
}

func NewCorrectionService(db *sql.DB, m repomanager.RepositoryManager, sentences *SentenceService, logger logging.Logger) *CorrectionService {
	return &CorrectionService{
		db:          db,
		repomanager: m,
		sentences:   sentences,
		logger:      logger.With("module", "corrections"),
	}
}

// Create records a manual correction for a sentence.
func (s *CorrectionService) Create(ctx context.Context, sentenceID int64, suggested, reasoning, sources string) (*models.Correction, error) {
	if suggested == "" {
		return nil, fmt.Errorf("%w: suggested correction is required", common.ErrInvalidInput)
	}

	if _, err := s.repomanager.Sentences(s.db).GetByID(ctx, sentenceID); err != nil {
		return nil, err
	}

	return s.repomanager.Corrections(s.db).Create(ctx, &models.Correction{
		SentenceID: sentenceID,
		Suggested:  suggested,
		Reasoning:  reasoning,
		Sources:    sources,
	})
}

// ListForSentence returns a sentence's corrections, newest first.
func (s *CorrectionService) ListForSentence(ctx context.Context, sentenceID int64) ([]*models.Correction, error) {
	if _, err := s.repomanager.Sentences(s.db).GetByID(ctx, sentenceID); err != nil {
		return nil, err
	}
	return s.repomanager.Corrections(s.db).ListBySentence(ctx, sentenceID)
}

// Apply splices the correction's suggested text over the sentence's span in
// the document, persists the new content and reconciles the sentences. The
// document lock is held across splice and sync so the offsets the splice
// relies on cannot move underneath it.
func (s *CorrectionService) Apply(ctx context.Context, sentenceID, correctionID int64) (*ApplyResult, error) {
	sent, err := s.repomanager.Sentences(s.db).GetByID(ctx, sentenceID)
	if err != nil {
		return nil, err
	}

	corr, err := s.repomanager.Corrections(s.db).GetByID(ctx, correctionID)
	if err != nil {
		return nil, err
	}
	if corr.SentenceID != sent.ID {
		return nil, fmt.Errorf("%w: correction does not belong to sentence", common.ErrNotFound)
	}

	unlock := s.sentences.lockDocument(sent.DocumentID)
	defer unlock()

	// Re-read both under the lock: a concurrent reconciliation may have
	// moved or dropped the sentence, and the document content itself may
	// have changed, while we were resolving them.
	sent, err = s.repomanager.Sentences(s.db).GetByID(ctx, sentenceID)
	if err != nil {
		return nil, err
	}

	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, sent.DocumentID)
	if err != nil {
		return nil, err
	}
	if sent.Start < 0 || sent.End > len(doc.Content) || sent.Start > sent.End {
		return nil, fmt.Errorf("%w: sentence span [%d,%d) outside document", common.ErrInternal, sent.Start, sent.End)
	}

	content := doc.Content[:sent.Start] + corr.Suggested + doc.Content[sent.End:]

	doc, err = s.repomanager.Documents(s.db).Update(ctx, doc.ID, documents.UpdateFields{Content: &content})
	if err != nil {
		return nil, err
	}

	final, err := s.sentences.syncLocked(ctx, doc.ID, doc.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "correction applied",
		"document_id", doc.ID, "sentence_id", sentenceID, "correction_id", correctionID)

	result := &ApplyResult{Document: doc, Sentences: make([]SentenceWithCorrections, 0, len(final))}
	for _, fs := range final {
		corrs, err := s.repomanager.Corrections(s.db).ListBySentence(ctx, fs.ID)
		if err != nil {
			return nil, err
		}
		result.Sentences = append(result.Sentences, SentenceWithCorrections{Sentence: fs, Corrections: corrs})
	}

	return result, nil
}
