package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/emberdao/soulforge/internal/api/shared/errors"
	"github.com/emberdao/soulforge/internal/logger"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error *apierrors.APIError `json:"error"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, apiErr *apierrors.APIError) {
	c.JSON(statusCode, errorResponse{Error: apiErr})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewValidationError(details))
}

// respondAPIError maps a structured executor error to its HTTP status. Server
// errors are logged; client errors are the caller's fault and are not.
func respondAPIError(c *gin.Context, err error, fields ...zap.Field) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		logger.Error(err, fields...)
		respondWithError(c, http.StatusInternalServerError,
			apierrors.NewInternalError("Internal server error"))
		return
	}

	switch apiErr.Code {
	case apierrors.ErrCodeBadRequest, apierrors.ErrCodeValidationFailed, apierrors.ErrCodeInvalidState:
		respondWithError(c, http.StatusBadRequest, apiErr)
	case apierrors.ErrCodeNotFound:
		respondWithError(c, http.StatusNotFound, apiErr)
	case apierrors.ErrCodeUnauthorized:
		respondWithError(c, http.StatusUnauthorized, apiErr)
	case apierrors.ErrCodeForbidden:
		respondWithError(c, http.StatusForbidden, apiErr)
	case apierrors.ErrCodeConflict:
		respondWithError(c, http.StatusConflict, apiErr)
	default:
		// Server-side errors carry driver detail; log it, never return it
		logger.Error(err, fields...)
		respondWithError(c, http.StatusInternalServerError,
			apierrors.NewInternalError("Internal server error"))
	}
}
