package server

import (
	"context"

	"github.com/devapply/devapply/internal/db"
	"github.com/google/uuid"
)

// UserStore is the account persistence used by UserService.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// Store is everything the API reads and writes. *db.DB implements it.
type Store interface {
	UserStore

	CreateApplication(ctx context.Context, userID uuid.UUID, f db.ApplicationFields) (*db.Application, error)
	ListApplications(ctx context.Context, userID uuid.UUID) ([]db.Application, error)
	GetApplication(ctx context.Context, userID, id uuid.UUID) (*db.Application, error)
	UpdateApplication(ctx context.Context, userID, id uuid.UUID, f db.ApplicationFields) (*db.Application, error)
	SetJobDescription(ctx context.Context, userID, id uuid.UUID, description string) error
	DeleteApplication(ctx context.Context, userID, id uuid.UUID) error

	CreateInterviewEntry(ctx context.Context, e *db.InterviewEntry) (*db.InterviewEntry, error)
	GetInterviewEntry(ctx context.Context, userID, id uuid.UUID) (*db.InterviewEntry, error)
	ListInterviewEntries(ctx context.Context, userID uuid.UUID) ([]db.InterviewEntry, error)
	PatchInterviewEntry(ctx context.Context, userID, id uuid.UUID, p db.InterviewEntryPatch) error
	DeleteInterviewEntry(ctx context.Context, userID, id uuid.UUID) error

	CreateResume(ctx context.Context, userID uuid.UUID, tag string, content db.ResumeContent) (*db.Resume, error)
	GetResume(ctx context.Context, userID, id uuid.UUID) (*db.Resume, error)
	GetResumeByTag(ctx context.Context, userID uuid.UUID, tag string) (*db.Resume, error)
	GetLatestResume(ctx context.Context, userID uuid.UUID) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
	PatchResume(ctx context.Context, userID, id uuid.UUID, p db.ResumePatch) error
	PatchResumeByTag(ctx context.Context, userID uuid.UUID, tag string, p db.ResumePatch) error
	DeleteResume(ctx context.Context, userID, id uuid.UUID) error
	DeleteResumeByTag(ctx context.Context, userID uuid.UUID, tag string) error

	GetProfile(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, f db.ProfileFields) (*db.Profile, error)

	SaveHistory(ctx context.Context, h *db.InterviewHistory) (uuid.UUID, error)
	ListHistory(ctx context.Context, userID uuid.UUID, f db.HistoryFilter) ([]db.InterviewHistory, error)
	DeleteHistory(ctx context.Context, userID, id uuid.UUID) error

	Ping(ctx context.Context) error
}

var _ Store = (*db.DB)(nil)
