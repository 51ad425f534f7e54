package types

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ResumeRequest carries a resume document for polishing or feedback.
type ResumeRequest struct {
	Resume json.RawMessage `json:"resume" validate:"required"`
}

// PolishResponse is a polished resume.
type PolishResponse struct {
	Resume json.RawMessage `json:"resume"`
}

// FeedbackResponse is a resume critique.
type FeedbackResponse struct {
	Feedback string `json:"feedback"`
}

// QuestionRequest generates one interview question for an application.
type QuestionRequest struct {
	ApplicationID uuid.UUID `json:"application_id" validate:"required"`
	ResumeTag     string    `json:"resume_tag" validate:"required"`
	Type          string    `json:"type" validate:"required"`
}

// AnalyzeRequest critiques an answer.
type AnalyzeRequest struct {
	Question string          `json:"question" validate:"required"`
	Answer   string          `json:"answer" validate:"required"`
	Type     string          `json:"type" validate:"required"`
	Context  json.RawMessage `json:"context"`
}

// AnalyzeResponse is the critique of an answer.
type AnalyzeResponse struct {
	Analysis string `json:"analysis"`
}

// SolutionRequest asks for a model answer.
type SolutionRequest struct {
	Question string          `json:"question" validate:"required"`
	Type     string          `json:"type" validate:"required"`
	Context  json.RawMessage `json:"context"`
	Language string          `json:"language"`
}

// SolutionResponse is a model answer or the message explaining its absence.
type SolutionResponse struct {
	Solution string `json:"solution"`
}

// SimilarQuestionRequest asks for a follow-up question.
type SimilarQuestionRequest struct {
	Question string          `json:"question" validate:"required"`
	Type     string          `json:"type" validate:"required"`
	Context  json.RawMessage `json:"context"`
}

// CreateSessionRequest starts a mock interview.
type CreateSessionRequest struct {
	ApplicationID   uuid.UUID `json:"application_id" validate:"required"`
	ResumeTag       string    `json:"resume_tag" validate:"required"`
	PositionDisplay string    `json:"position_display"`
}

// SelectCategoryRequest shows or hides one category.
type SelectCategoryRequest struct {
	Selected *bool `json:"selected" validate:"required"`
}

// UpdateQuestionRequest edits a pending question's answer or language.
type UpdateQuestionRequest struct {
	Input    *string `json:"input"`
	Language *string `json:"language"`
}

// QuestionResponse is a generated interview question and the context it was
// written from. Context is passed back on analyze and solution calls.
type QuestionResponse struct {
	Question string          `json:"question"`
	Title    string          `json:"title"`
	Type     string          `json:"type"`
	Context  json.RawMessage `json:"context,omitempty"`
}
