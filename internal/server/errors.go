package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-analyzer/internal/classifier"
	"github.com/jonathan/cv-analyzer/internal/embedding"
	"github.com/jonathan/cv-analyzer/internal/matching"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Missing-model conditions map to 503 so clients can retry after the
// models are initialized or trained.
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, classifier.ErrModelNotTrained),
		errors.Is(err, matching.ErrModelNotInitialized),
		errors.Is(err, embedding.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
