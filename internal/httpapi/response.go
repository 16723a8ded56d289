// ABOUTME: JSON response helpers and error-to-status mapping for the HTTP API
// ABOUTME: Clients always see {"error": message}; internal detail stays in the logs
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harper/muzakir/internal/core"
	"github.com/harper/muzakir/internal/llm"
	"github.com/harper/muzakir/internal/storage"
)

// ErrorBody is the error payload of every failed request
type ErrorBody struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// statusFor maps a core error onto an HTTP status and the message shown to
// the client
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrEmptyQuestion):
		return http.StatusBadRequest, "Question is required and must be a non-empty string"
	case errors.Is(err, core.ErrEmptyEmbeddingText):
		return http.StatusBadRequest, "Query is required and must be a non-empty string"
	case errors.Is(err, core.ErrInvalidSearchParams):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, llm.ErrMissingAPIKey):
		return http.StatusInternalServerError, "AI service is not configured"
	case errors.Is(err, core.ErrEmbeddingFailed):
		return http.StatusInternalServerError, "Failed to process your question. Please try again."
	case errors.Is(err, core.ErrSearchFailed):
		return http.StatusInternalServerError, "Failed to search the knowledge base. Please try again."
	case errors.Is(err, core.ErrGenerationFailed):
		return http.StatusInternalServerError, "Failed to generate a response. Please try again."
	default:
		return http.StatusInternalServerError, "An unexpected error occurred. Please try again later."
	}
}
