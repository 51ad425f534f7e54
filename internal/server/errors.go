package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/devapply/devapply/internal/ai"
	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/fetch"
	"github.com/devapply/devapply/internal/llm"
	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound names a missing resource in API terms.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return e.Resource + " not found"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists *ErrEmailAlreadyExists
		badCreds    *ErrInvalidCredentials
		mismatch    *ErrPasswordMismatch
		noUser      *ErrUserNotFound
		invalid     *ErrValidation
		missing     *ErrNotFound
		fetchErr    *fetch.Error
		providerErr *llm.ProviderError
	)
	switch {
	case errors.As(err, &emailExists), errors.Is(err, db.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &noUser), errors.As(err, &missing),
		errors.Is(err, db.ErrNotFound),
		errors.Is(err, ai.ErrApplicationNotFound), errors.Is(err, ai.ErrResumeNotFound),
		errors.Is(err, mockinterview.ErrSessionNotFound), errors.Is(err, mockinterview.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalid), errors.Is(err, ai.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, mockinterview.ErrCategoryFinished), errors.Is(err, mockinterview.ErrActionNotAllowed):
		return http.StatusConflict
	case errors.Is(err, mockinterview.ErrUnknownCategory), errors.Is(err, mockinterview.ErrUnsupportedLanguage),
		errors.Is(err, mockinterview.ErrNothingSelected), errors.Is(err, mockinterview.ErrMissingContext):
		return http.StatusUnprocessableEntity
	case errors.Is(err, mockinterview.ErrSimilarFailed), errors.As(err, &fetchErr),
		errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
