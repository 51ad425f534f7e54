package db

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses used by the dashboard; stored case-insensitively.
const (
	StatusApplied            = "Applied"
	StatusInterviewScheduled = "Interview Scheduled"
	StatusInterviewCompleted = "Interview Completed"
	StatusOffer              = "Offer"
	StatusRejected           = "Rejected"
)

// Application is a job the user has applied to.
type Application struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	JobTitle        string    `json:"job_title"`
	Company         string    `json:"company"`
	Status          string    `json:"status"`
	DateApplied     *Date     `json:"date_applied"`
	ApplicationLink string    `json:"application_link"`
	JobDescription  string    `json:"job_description"`
	ResumeTag       string    `json:"resume_tag"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ApplicationFields are the user-editable columns of an application.
type ApplicationFields struct {
	JobTitle        string
	Company         string
	Status          string
	DateApplied     *Date
	ApplicationLink string
	JobDescription  string
	ResumeTag       string
	Notes           string
}

// InterviewEntry is a journal record of one interview question and the user's response.
type InterviewEntry struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	ApplicationID *uuid.UUID `json:"application_id"`
	Company       string     `json:"company"`
	JobTitle      string     `json:"job_title"`
	QuestionType  string     `json:"question_type"`
	Question      string     `json:"question"`
	Response      string     `json:"response"`
	Notes         string     `json:"notes"`
	Link          string     `json:"link"`
	Type          string     `json:"type"`
	Date          *Date      `json:"date"`
	InterviewDate *Date      `json:"interview_date"`
	InterviewName string     `json:"interview_name"`
	CreatedAt     time.Time  `json:"created_at"`
}

// InterviewEntryPatch holds the fields to change; nil fields are left alone.
type InterviewEntryPatch struct {
	ApplicationID *uuid.UUID
	Company       *string
	JobTitle      *string
	QuestionType  *string
	Question      *string
	Response      *string
	Notes         *string
	Link          *string
	Type          *string
	Date          *Date
	InterviewDate *Date
	InterviewName *string
}

// Empty reports whether the patch changes nothing.
func (p InterviewEntryPatch) Empty() bool {
	return p.ApplicationID == nil && p.Company == nil && p.JobTitle == nil &&
		p.QuestionType == nil && p.Question == nil && p.Response == nil &&
		p.Notes == nil && p.Link == nil && p.Type == nil && p.Date == nil &&
		p.InterviewDate == nil && p.InterviewName == nil
}
