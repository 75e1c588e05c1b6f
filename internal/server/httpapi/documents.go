package httpapi

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/truthlens/truthlens/internal/common"
	"github.com/truthlens/truthlens/internal/server/models"
)

// DocumentProvider is the slice of DocumentService the handlers need.
type DocumentProvider interface {
	Create(ctx context.Context, userID int64, title, content string) (*models.Document, error)
	Get(ctx context.Context, id int64) (*models.Document, error)
	List(ctx context.Context, userID *int64) ([]*models.Document, error)
	Update(ctx context.Context, id int64, title, content *string) (*models.Document, error)
	Delete(ctx context.Context, id int64) error
}

// SentenceProvider syncs and returns a document's sentences.
type SentenceProvider interface {
	SyncDocument(ctx context.Context, documentID int64) ([]*models.Sentence, error)
}

// AnalysisProvider runs the full analyze pipeline for a document.
type AnalysisProvider interface {
	Analyze(ctx context.Context, documentID int64) ([]*models.Sentence, error)
}

type DocumentHandler struct {
	documents DocumentProvider
	sentences SentenceProvider
	analysis  AnalysisProvider
}

func NewDocumentHandler(documents DocumentProvider, sentences SentenceProvider, analysis AnalysisProvider) *DocumentHandler {
	return &DocumentHandler{documents: documents, sentences: sentences, analysis: analysis}
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", common.ErrInvalidInput, name)
	}
	return id, nil
}

type createDocumentRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (h *DocumentHandler) Create(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidJSON(err))
		return
	}

	doc, err := h.documents.Create(c.Request.Context(), currentUserID(c), req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, toDocumentView(doc))
}

func (h *DocumentHandler) List(c *gin.Context) {
	var userID *int64
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid user_id", common.ErrInvalidInput))
			return
		}
		userID = &id
	}

	docs, err := h.documents.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toDocumentViews(docs))
}

func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toDocumentView(doc))
}

type updateDocumentRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *DocumentHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidJSON(err))
		return
	}

	doc, err := h.documents.Update(c.Request.Context(), id, req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toDocumentView(doc))
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.documents.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"status": "deleted"})
}

// Sentences reconciles and returns the document's sentences, so a read after
// an out-of-band content change never shows stale spans.
func (h *DocumentHandler) Sentences(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.sentences.SyncDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toSentenceViews(list))
}

// Analyze runs sync, external analysis and merge, then returns the annotated
// sentence list.
func (h *DocumentHandler) Analyze(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.analysis.Analyze(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toSentenceViews(list))
}
