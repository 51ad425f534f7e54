package types

import (
	"github.com/devapply/devapply/internal/db"
	"github.com/google/uuid"
)

// ApplicationRequest creates or replaces a job application.
type ApplicationRequest struct {
	JobTitle        string   `json:"job_title" validate:"required"`
	Company         string   `json:"company" validate:"required"`
	Status          string   `json:"status" validate:"required"`
	DateApplied     *db.Date `json:"date_applied" validate:"required"`
	ApplicationLink string   `json:"application_link" validate:"omitempty,url"`
	JobDescription  string   `json:"job_description"`
	ResumeTag       string   `json:"resume_tag"`
	Notes           string   `json:"notes"`
}

// Fields converts the request to repository input.
func (r *ApplicationRequest) Fields() db.ApplicationFields {
	return db.ApplicationFields{
		JobTitle:        r.JobTitle,
		Company:         r.Company,
		Status:          r.Status,
		DateApplied:     r.DateApplied,
		ApplicationLink: r.ApplicationLink,
		JobDescription:  r.JobDescription,
		ResumeTag:       r.ResumeTag,
		Notes:           r.Notes,
	}
}

// JobDescriptionResponse is the stored description of one application.
type JobDescriptionResponse struct {
	ID             uuid.UUID `json:"id"`
	JobDescription string    `json:"job_description"`
}

// FetchJobDescriptionResponse reports an imported description.
type FetchJobDescriptionResponse struct {
	ID             uuid.UUID `json:"id"`
	JobDescription string    `json:"job_description"`
	Source         string    `json:"source"`
	Platform       string    `json:"platform"`
	Rendered       bool      `json:"rendered"`
}
