// Package httpapi exposes the service layer over HTTP. Handlers stay thin:
// bind and validate JSON, call a service, map sentinel errors to status
// codes.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/truthlens/truthlens/internal/common"
)

type apiError struct {
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

// respondError maps a service error onto an HTTP status and a JSON envelope.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrExternalProcess):
		status = http.StatusBadGateway
	}

	c.AbortWithStatusJSON(status, errorEnvelope{Error: apiError{Message: err.Error()}})
}

// invalidJSON wraps a binding error so it maps to 400.
func invalidJSON(err error) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidInput, err.Error())
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func respondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
