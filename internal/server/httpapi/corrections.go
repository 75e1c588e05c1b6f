package httpapi

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/truthlens/truthlens/internal/server/models"
	"github.com/truthlens/truthlens/internal/server/services"
)

// CorrectionProvider is the slice of CorrectionService the handlers need.
type CorrectionProvider interface {
	Create(ctx context.Context, sentenceID int64, suggested, reasoning, sources string) (*models.Correction, error)
	ListForSentence(ctx context.Context, sentenceID int64) ([]*models.Correction, error)
	Apply(ctx context.Context, sentenceID, correctionID int64) (*services.ApplyResult, error)
}

type CorrectionHandler struct {
	corrections CorrectionProvider
}

func NewCorrectionHandler(corrections CorrectionProvider) *CorrectionHandler {
	return &CorrectionHandler{corrections: corrections}
}

func (h *CorrectionHandler) List(c *gin.Context) {
	sentenceID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.corrections.ListForSentence(c.Request.Context(), sentenceID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toCorrectionViews(list))
}

type createCorrectionRequest struct {
	Suggested string   `json:"suggested_correction" binding:"required"`
	Reasoning string   `json:"reasoning"`
	Sources   []string `json:"sources"`
}

func (h *CorrectionHandler) Create(c *gin.Context) {
	sentenceID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req createCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidJSON(err))
		return
	}

	corr, err := h.corrections.Create(c.Request.Context(), sentenceID,
		req.Suggested, req.Reasoning, strings.Join(req.Sources, "\n"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, toCorrectionView(corr))
}

func (h *CorrectionHandler) Apply(c *gin.Context) {
	sentenceID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	correctionID, err := pathID(c, "cid")
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.corrections.Apply(c.Request.Context(), sentenceID, correctionID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toApplyResultView(result))
}
