package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	enginerrors "github.com/gcbaptista/go-recommendation-engine/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidJSON       ErrorCode = "INVALID_JSON"
	ErrorCodeDocumentNotFound  ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrorCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"
	ErrorCodeDuplicateID       ErrorCode = "DUPLICATE_ID"
	ErrorCodeCorpusSealed      ErrorCode = "CORPUS_ALREADY_SEALED"
	ErrorCodeCorpusNotSealed   ErrorCode = "CORPUS_NOT_SEALED"

	// Server Error Codes (5xx)
	ErrorCodeInternalError        ErrorCode = "INTERNAL_ERROR"
	ErrorCodeRecommendationFailed ErrorCode = "RECOMMENDATION_FAILED"
)

// APIError represents a standardized API error response
type APIError struct {
	Error     string    `json:"error"`
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string) {
	c.JSON(statusCode, &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// SendEngineError maps an engine error to the matching HTTP status and code.
func SendEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, enginerrors.ErrDocumentNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeDocumentNotFound, err.Error())
	case errors.Is(err, enginerrors.ErrDimensionMismatch):
		SendError(c, http.StatusBadRequest, ErrorCodeDimensionMismatch, err.Error())
	case errors.Is(err, enginerrors.ErrDuplicateID):
		SendError(c, http.StatusConflict, ErrorCodeDuplicateID, err.Error())
	case errors.Is(err, enginerrors.ErrAlreadySealed):
		SendError(c, http.StatusConflict, ErrorCodeCorpusSealed, err.Error())
	case errors.Is(err, enginerrors.ErrNotSealed):
		SendError(c, http.StatusConflict, ErrorCodeCorpusNotSealed, err.Error())
	case errors.Is(err, enginerrors.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
	}
}
