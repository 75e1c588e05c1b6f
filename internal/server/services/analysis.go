package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/truthlens/truthlens/internal/common"
	"github.com/truthlens/truthlens/internal/dbx"
	"github.com/truthlens/truthlens/internal/llm"
	"github.com/truthlens/truthlens/internal/logging"
	"github.com/truthlens/truthlens/internal/server/models"
	"github.com/truthlens/truthlens/internal/server/repositories/repomanager"
)

// Archiver persists the raw verdict payload of one analysis run. Failures are
// logged and never fail the run.
type Archiver interface {
	Store(ctx context.Context, payload []byte) (string, error)
}

// AnalysisService runs the external fact-check over a document and merges the
// verdicts onto its stored sentences.
type AnalysisService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sentences   *SentenceService
	client      llm.Client
	cache       *gocache.Cache
	archiver    Archiver
	logger      logging.Logger
}

// NewAnalysisService builds the service. client may be nil (analysis
// disabled), archiver may be nil (archiving disabled), cache may be nil
// (every run hits the provider).
func NewAnalysisService(db *sql.DB, m repomanager.RepositoryManager, sentences *SentenceService, client llm.Client, cache *gocache.Cache, archiver Archiver, logger logging.Logger) *AnalysisService {
	return &AnalysisService{
		db:          db,
		repomanager: m,
		sentences:   sentences,
		client:      client,
		cache:       cache,
		archiver:    archiver,
		logger:      logger.With("module", "analysis"),
	}
}

// Analyze reconciles the document's sentences, fact-checks the content and
// merges the verdicts. The whole run holds the document lock so a concurrent
// content update cannot slip between sync and merge. Returns the final
// sentence list.
func (s *AnalysisService) Analyze(ctx context.Context, documentID int64) ([]*models.Sentence, error) {
	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	unlock := s.sentences.lockDocument(doc.ID)
	defer unlock()

	if _, err := s.sentences.syncLocked(ctx, doc.ID, doc.Content); err != nil {
		return nil, err
	}

	verdicts := s.runAnalysis(ctx, doc)

	if err := s.merge(ctx, doc.ID, verdicts); err != nil {
		return nil, err
	}

	return s.repomanager.Sentences(s.db).ListByDocument(ctx, doc.ID)
}

// runAnalysis obtains verdicts for the document, consulting the cache first.
// Provider and parse failures degrade to an empty verdict list: the merge
// then clears stale analysis state instead of leaving it half-old.
func (s *AnalysisService) runAnalysis(ctx context.Context, doc *models.Document) []llm.Verdict {
	if s.client == nil {
		s.logger.Info(ctx, "analysis disabled, no provider configured", "document_id", doc.ID)
		return nil
	}

	key := contentHash(doc.Content)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debug(ctx, "analysis cache hit", "document_id", doc.ID)
			return cached.([]llm.Verdict)
		}
	}

	result, err := s.client.Analyze(ctx, doc.Content)
	if err != nil {
		if errors.Is(err, llm.ErrParseFailed) {
			s.logger.Error(ctx, "analysis output unparseable", "document_id", doc.ID, "error", err)
		} else {
			s.logger.Error(ctx, "analysis failed", "document_id", doc.ID,
				"error", fmt.Errorf("%w: %w", common.ErrExternalProcess, err))
		}
		return nil
	}

	s.archive(ctx, doc.ID, result)

	if s.cache != nil {
		s.cache.Set(key, result.Sentences, gocache.DefaultExpiration)
	}

	return result.Sentences
}

func (s *AnalysisService) archive(ctx context.Context, documentID int64, result *llm.VerdictList) {
	if s.archiver == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn(ctx, "analysis archive marshal failed", "document_id", documentID, "error", err)
		return
	}
	key, err := s.archiver.Store(ctx, payload)
	if err != nil {
		s.logger.Warn(ctx, "analysis archive failed", "document_id", documentID, "error", err)
		return
	}
	s.logger.Debug(ctx, "analysis archived", "document_id", documentID, "key", key)
}

// merge applies verdicts onto the document's sentences in one transaction.
// All analysis state is reset first, so sentences without a matching verdict
// end the run unflagged with zero confidence.
func (s *AnalysisService) merge(ctx context.Context, documentID int64, verdicts []llm.Verdict) error {
	existing, err := s.repomanager.Sentences(s.db).ListByDocument(ctx, documentID)
	if err != nil {
		return err
	}

	// Verdicts match sentences by trimmed content. Duplicate contents map to
	// the first occurrence in document order.
	byContent := make(map[string]*models.Sentence, len(existing))
	for _, sent := range existing {
		key := strings.TrimSpace(sent.Content)
		if _, ok := byContent[key]; !ok {
			byContent[key] = sent
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		sentRepo := s.repomanager.Sentences(tx)
		corrRepo := s.repomanager.Corrections(tx)

		if err := sentRepo.ResetAnalysisByDocument(ctx, documentID); err != nil {
			return err
		}
		if _, err := corrRepo.DeleteByDocument(ctx, documentID); err != nil {
			return err
		}

		for _, v := range verdicts {
			sent, ok := byContent[strings.TrimSpace(v.Sentence)]
			if !ok {
				s.logger.Warn(ctx, "verdict matched no sentence, skipping",
					"document_id", documentID, "sentence", v.Sentence)
				continue
			}

			flagged := v.Label != "true"
			if err := sentRepo.SetAnalysis(ctx, sent.ID, flagged, scaleConfidence(v.Confidence)); err != nil {
				return err
			}

			if v.SuggestedCorrection != "" || v.Reasoning != "" {
				_, err := corrRepo.Create(ctx, &models.Correction{
					SentenceID: sent.ID,
					Suggested:  v.SuggestedCorrection,
					Reasoning:  v.Reasoning,
					Sources:    strings.Join(v.Sources, "\n"),
				})
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("error merging analysis: %w", err)
	}

	s.logger.Info(ctx, "analysis merged", "document_id", documentID, "verdicts", len(verdicts))
	return nil
}

// scaleConfidence maps a model confidence in [0,1] onto the stored [0,100]
// integer scale, clamping out-of-range input.
func scaleConfidence(c float64) int {
	if math.IsNaN(c) || c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return int(math.Round(c * 100))
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
