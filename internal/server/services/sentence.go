// Package services contains server-side business logic: document CRUD,
// sentence reconciliation, analysis merging, correction handling and user
// authentication. All storage mutation funnels through dbx.WithTx so each
// operation commits atomically or not at all.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/truthlens/truthlens/internal/dbx"
	"github.com/truthlens/truthlens/internal/logging"
	"github.com/truthlens/truthlens/internal/server/models"
	"github.com/truthlens/truthlens/internal/server/reconcile"
	"github.com/truthlens/truthlens/internal/server/repositories/repomanager"
	"github.com/truthlens/truthlens/internal/server/repositories/sentences"
	"github.com/truthlens/truthlens/internal/textx"
)

// SentenceService keeps the stored sentences of a document in sync with its
// text. It owns the per-document locks; sibling services that need to hold a
// document across a larger critical section acquire them through it.
type SentenceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	locks       *docLocks
	logger      logging.Logger
}

func NewSentenceService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *SentenceService {
	return &SentenceService{
		db:          db,
		repomanager: m,
		locks:       newDocLocks(),
		logger:      logger.With("module", "sentences"),
	}
}

// lockDocument exposes the per-document lock to sibling services in this
// package.
func (s *SentenceService) lockDocument(documentID int64) func() {
	return s.locks.lock(documentID)
}

// SyncDocument reconciles the stored sentences of a document against its
// current content and returns the final ordered list. Returns
// common.ErrNotFound when the document does not exist; in that case nothing
// is written.
func (s *SentenceService) SyncDocument(ctx context.Context, documentID int64) ([]*models.Sentence, error) {
	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(doc.ID)
	defer unlock()

	return s.syncLocked(ctx, doc.ID, doc.Content)
}

// sync reconciles against the given text (used by siblings that just wrote
// new content and already hold no stale state).
func (s *SentenceService) sync(ctx context.Context, documentID int64, text string) ([]*models.Sentence, error) {
	unlock := s.locks.lock(documentID)
	defer unlock()

	return s.syncLocked(ctx, documentID, text)
}

// syncLocked does the actual work; the caller must hold the document lock.
func (s *SentenceService) syncLocked(ctx context.Context, documentID int64, text string) ([]*models.Sentence, error) {
	slices := textx.Segment(text)

	// Fast path: no sentences remain, drop everything without planning.
	if len(slices) == 0 {
		err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			_, err := s.repomanager.Sentences(tx).DeleteByDocument(ctx, documentID)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("error clearing sentences: %w", err)
		}
		return []*models.Sentence{}, nil
	}

	existing, err := s.repomanager.Sentences(s.db).ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	old := make([]reconcile.Stored, len(existing))
	byID := make(map[int64]*models.Sentence, len(existing))
	for i, sent := range existing {
		old[i] = reconcile.Stored{ID: sent.ID, Content: sent.Content, Start: sent.Start, End: sent.End}
		byID[sent.ID] = sent
	}

	plan := reconcile.Build(old, slices)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sentences(tx)

		var deletes []int64
		for _, op := range plan {
			if op.Type == reconcile.OpDelete {
				deletes = append(deletes, op.ID)
			}
		}
		if len(deletes) > 0 {
			if _, err := repo.Delete(ctx, deletes); err != nil {
				return err
			}
		}

		for _, op := range plan {
			switch op.Type {
			case reconcile.OpUpdate:
				fields := changedFields(byID[op.ID], op.Slice)
				if err := repo.UpdateSlice(ctx, op.ID, fields); err != nil {
					return err
				}

			case reconcile.OpInsert:
				_, err := repo.Create(ctx, &models.Sentence{
					DocumentID: documentID,
					Content:    op.Slice.Content,
					Start:      op.Slice.Start,
					End:        op.Slice.End,
					Flagged:    false,
					Confidence: 0,
				})
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error applying reconciliation: %w", err)
	}

	s.logger.Debug(ctx, "sentences reconciled", "document_id", documentID, "ops", len(plan))

	return s.repomanager.Sentences(s.db).ListByDocument(ctx, documentID)
}

// changedFields maps an update operation onto the columns that actually
// differ, so unchanged columns are not rewritten.
func changedFields(old *models.Sentence, slice textx.Slice) sentences.SliceFields {
	var fields sentences.SliceFields
	if old == nil {
		fields.Content = &slice.Content
		fields.Start = &slice.Start
		fields.End = &slice.End
		return fields
	}
	if old.Content != slice.Content {
		fields.Content = &slice.Content
	}
	if old.Start != slice.Start {
		fields.Start = &slice.Start
	}
	if old.End != slice.End {
		fields.End = &slice.End
	}
	return fields
}
