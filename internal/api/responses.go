package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courtyard/internal/apperr"
)

type ErrorResponse struct {
	Error     string                   `json:"error" example:"capacity exceeded"`
	Kind      string                   `json:"kind" example:"conflict"`
	Conflicts []apperr.ConflictDetail  `json:"conflicts,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Fail writes a structured failure for err, mapping the error taxonomy to
// HTTP statuses. Contention gets 503 so clients know the request is safe to
// retry as-is.
func Fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Validation:
		status = http.StatusBadRequest
	case apperr.Conflict:
		status = http.StatusConflict
	case apperr.StateError:
		status = http.StatusUnprocessableEntity
	case apperr.Contention:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, ErrorResponse{
		Error:     err.Error(),
		Kind:      kind.String(),
		Conflicts: apperr.Details(err),
	})
}
