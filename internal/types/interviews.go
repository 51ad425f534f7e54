package types

import (
	"github.com/devapply/devapply/internal/db"
	"github.com/google/uuid"
)

// InterviewEntryRequest records a journal entry.
type InterviewEntryRequest struct {
	ApplicationID *uuid.UUID `json:"application_id"`
	Company       string     `json:"company"`
	JobTitle      string     `json:"job_title"`
	QuestionType  string     `json:"question_type"`
	Question      string     `json:"question" validate:"required"`
	Response      string     `json:"response" validate:"required"`
	Notes         string     `json:"notes"`
	Link          string     `json:"link" validate:"omitempty,url"`
	Type          string     `json:"type"`
	Date          *db.Date   `json:"date"`
	InterviewDate *db.Date   `json:"interview_date"`
	InterviewName string     `json:"interview_name"`
}

// Entry converts the request to a row owned by userID.
func (r *InterviewEntryRequest) Entry(userID uuid.UUID) *db.InterviewEntry {
	return &db.InterviewEntry{
		UserID:        userID,
		ApplicationID: r.ApplicationID,
		Company:       r.Company,
		JobTitle:      r.JobTitle,
		QuestionType:  r.QuestionType,
		Question:      r.Question,
		Response:      r.Response,
		Notes:         r.Notes,
		Link:          r.Link,
		Type:          r.Type,
		Date:          r.Date,
		InterviewDate: r.InterviewDate,
		InterviewName: r.InterviewName,
	}
}

// InterviewEntryPatchRequest changes the fields present in the body.
type InterviewEntryPatchRequest struct {
	ApplicationID *uuid.UUID `json:"application_id"`
	Company       *string    `json:"company"`
	JobTitle      *string    `json:"job_title"`
	QuestionType  *string    `json:"question_type"`
	Question      *string    `json:"question" validate:"omitnil,min=1"`
	Response      *string    `json:"response" validate:"omitnil,min=1"`
	Notes         *string    `json:"notes"`
	Link          *string    `json:"link" validate:"omitnil,omitempty,url"`
	Type          *string    `json:"type"`
	Date          *db.Date   `json:"date"`
	InterviewDate *db.Date   `json:"interview_date"`
	InterviewName *string    `json:"interview_name"`
}

// Patch converts the request to repository input.
func (r *InterviewEntryPatchRequest) Patch() db.InterviewEntryPatch {
	return db.InterviewEntryPatch{
		ApplicationID: r.ApplicationID,
		Company:       r.Company,
		JobTitle:      r.JobTitle,
		QuestionType:  r.QuestionType,
		Question:      r.Question,
		Response:      r.Response,
		Notes:         r.Notes,
		Link:          r.Link,
		Type:          r.Type,
		Date:          r.Date,
		InterviewDate: r.InterviewDate,
		InterviewName: r.InterviewName,
	}
}

// HistoryRequest saves a mock-interview attempt directly.
type HistoryRequest struct {
	ApplicationID   *uuid.UUID        `json:"application_id"`
	Question        string            `json:"question" validate:"required"`
	UserAnswer      string            `json:"user_answer" validate:"required"`
	Type            string            `json:"type" validate:"required"`
	Context         db.HistoryContext `json:"context"`
	Language        *string           `json:"language"`
	AIAnalysis      string            `json:"ai_analysis"`
	AISolution      string            `json:"ai_solution"`
	PositionDisplay *string           `json:"position_display"`
}

// History converts the request to a row owned by userID.
func (r *HistoryRequest) History(userID uuid.UUID) *db.InterviewHistory {
	return &db.InterviewHistory{
		UserID:          userID,
		ApplicationID:   r.ApplicationID,
		Question:        r.Question,
		UserAnswer:      r.UserAnswer,
		Type:            r.Type,
		Context:         r.Context,
		Language:        r.Language,
		AIAnalysis:      r.AIAnalysis,
		AISolution:      r.AISolution,
		PositionDisplay: r.PositionDisplay,
	}
}

// IDResponse returns the ID of a created row.
type IDResponse struct {
	ID uuid.UUID `json:"id"`
}
