package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/truthlens/truthlens/internal/llm"
)

type HealthHandler struct {
	db     *sql.DB
	client llm.Client
}

func NewHealthHandler(db *sql.DB, client llm.Client) *HealthHandler {
	return &HealthHandler{db: db, client: client}
}

// Check reports database reachability and whether the analysis provider
// responds. A dead database makes the endpoint fail; a dead provider only
// flips its field, analysis degrades gracefully anyway.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "database": "unreachable"})
		return
	}

	analysis := "disabled"
	if h.client != nil {
		analysis = "unavailable"
		if h.client.IsAvailable(c.Request.Context()) {
			analysis = "ok"
		}
	}

	respondOK(c, gin.H{"status": "ok", "database": "ok", "analysis": analysis})
}
