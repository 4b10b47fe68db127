package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/service/auth"
	"github.com/phrazzld/leitner/internal/service/review"
	"github.com/phrazzld/leitner/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the error itself.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, review.ErrCardNotFound):
		return http.StatusNotFound

	case errors.Is(err, review.ErrCardExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, review.ErrNoHint):
		return http.StatusUnprocessableEntity

	case errors.Is(err, review.ErrInvalidDay),
		errors.Is(err, review.ErrInvalidDifficulty),
		errors.Is(err, review.ErrInvalidCard),
		errors.Is(err, store.ErrInvalidDeckName),
		errors.Is(err, domain.ErrInvalidFingerprint),
		errors.Is(err, domain.ErrInvalidDifficulty):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, review.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, review.ErrCardExists):
		return "Card already exists in this deck"
	case errors.Is(err, store.ErrDuplicate):
		return "Duplicate entry"
	case errors.Is(err, review.ErrNoHint):
		return "Card has no hint"
	case errors.Is(err, review.ErrInvalidDay):
		return "Day must be a non-negative integer"
	case errors.Is(err, review.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrInvalidDifficulty):
		return "Difficulty must be one of wrong, hard, easy"
	case errors.Is(err, review.ErrInvalidCard):
		return "Card front and back are required"
	case errors.Is(err, store.ErrInvalidDeckName):
		return "Invalid deck name"
	case errors.Is(err, domain.ErrInvalidFingerprint):
		return "Invalid card fingerprint"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator output into a message naming the
// first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "oneof":
		return "invalid value"
	case "gte":
		return "must not be negative"
	case "len", "hexadecimal":
		return "invalid format"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
