// Package ai builds interview and resume prompts, calls the configured
// model, and shapes the results for the API and mock-interview sessions.
package ai

import (
	"context"
	"errors"

	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/llm"
	"github.com/devapply/devapply/internal/logger"
	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/google/uuid"
)

var (
	// ErrApplicationNotFound is returned when a question is requested for a missing application.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrResumeNotFound is returned when the resume tag does not exist for the user.
	ErrResumeNotFound = errors.New("resume not found")
	// ErrInvalidInput is returned when a required field is empty.
	ErrInvalidInput = errors.New("invalid input")
)

// Store is the persistence the service reads question context from and
// writes attempts to.
type Store interface {
	GetApplication(ctx context.Context, userID, id uuid.UUID) (*db.Application, error)
	GetResumeByTag(ctx context.Context, userID uuid.UUID, tag string) (*db.Resume, error)
	SaveHistory(ctx context.Context, h *db.InterviewHistory) (uuid.UUID, error)
}

// Service runs the AI operations.
type Service struct {
	llm   llm.Client
	store Store
	log   *logger.Logger
}

var _ mockinterview.Collaborator = (*Service)(nil)

// NewService creates a Service.
func NewService(client llm.Client, store Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{llm: client, store: store, log: log}
}

// promptKey maps a category to the suffix used in prompt keys.
func promptKey(c mockinterview.Category) string {
	switch c {
	case mockinterview.CategoryCoding:
		return "coding"
	case mockinterview.CategorySystemDesign:
		return "system_design"
	case mockinterview.CategoryExperience:
		return "experience"
	default:
		return "default"
	}
}
