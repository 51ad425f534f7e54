package db

import (
	"time"

	"github.com/google/uuid"
)

// HistoryContext is the slice of question context kept with an attempt.
type HistoryContext struct {
	Experience []ResumeExperience `json:"experience"`
	Projects   []ResumeProject    `json:"projects"`
	Skills     string             `json:"skills"`
}

// InterviewHistory is a persisted mock-interview attempt.
type InterviewHistory struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	ApplicationID   *uuid.UUID     `json:"application_id"`
	Question        string         `json:"question"`
	UserAnswer      string         `json:"user_answer"`
	Type            string         `json:"type"`
	Context         HistoryContext `json:"context"`
	Language        *string        `json:"language"`
	AIAnalysis      string         `json:"ai_analysis"`
	AISolution      string         `json:"ai_solution"`
	PositionDisplay *string        `json:"position_display"`
	CreatedAt       time.Time      `json:"created_at"`
}

// HistoryFilter narrows ListHistory. Zero values mean "any".
type HistoryFilter struct {
	PositionDisplay string
	Type            string
	Limit           int
}

// DefaultHistoryLimit applies when HistoryFilter.Limit is not positive.
const DefaultHistoryLimit = 10
