// Package mockinterview runs mock-interview practice sessions: per-category
// question lineages, answer submission, solutions and category completion.
package mockinterview

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is a fixed partition of interview questions.
type Category string

const (
	CategoryCoding       Category = "Coding"
	CategorySystemDesign Category = "System Design"
	CategoryExperience   Category = "Experience"
)

// Categories lists every category in generation and display order.
var Categories = []Category{CategoryCoding, CategorySystemDesign, CategoryExperience}

// ParseCategory accepts a category name or its URL slug ("system-design").
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	for _, c := range Categories {
		if strings.ToLower(string(c)) == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Language is the answer language of a Coding question.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
	LanguageJava       Language = "java"
	LanguageC          Language = "c"
)

// DefaultLanguage is assigned to every new Coding question.
const DefaultLanguage = LanguageJavaScript

// ParseLanguage validates a Coding answer language.
func ParseLanguage(s string) (Language, error) {
	switch l := Language(strings.ToLower(strings.TrimSpace(s))); l {
	case LanguageJavaScript, LanguagePython, LanguageJava, LanguageC:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// SubmitState tracks a question's attempt lifecycle.
type SubmitState string

const (
	NotStarted SubmitState = "not_started"
	Pending    SubmitState = "pending"
	Processing SubmitState = "processing"
	Done       SubmitState = "done"
)

// SolutionState tracks the show-solution toggle.
type SolutionState string

const (
	SolutionHidden  SolutionState = "hidden"
	SolutionLoading SolutionState = "loading"
	SolutionShown   SolutionState = "shown"
)

// MaxGenerateCount is the lineage depth at which a category offers
// finish and regenerate instead of skip and more.
const MaxGenerateCount = 5

// Question is one practice question held in a session.
type Question struct {
	ID                  string          `json:"id"`
	Type                Category        `json:"type"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Context             json.RawMessage `json:"context,omitempty"`
	UserInput           string          `json:"user_input"`
	Language            Language        `json:"language,omitempty"`
	Submitted           SubmitState     `json:"submitted"`
	AIAnalysis          string          `json:"ai_analysis"`
	AISolution          string          `json:"ai_solution"`
	ShowSolution        SolutionState   `json:"show_solution"`
	GenerateCount       int             `json:"generate_count"`
	Skipped             bool            `json:"skipped"`
	MoreQuestionClicked bool            `json:"more_question_clicked"`
	Notice              string          `json:"notice,omitempty"`
}

// HasContext reports whether the question carries generation context.
func (q *Question) HasContext() bool {
	trimmed := strings.TrimSpace(string(q.Context))
	return trimmed != "" && trimmed != "null"
}

// SessionContext identifies what a session practices for.
type SessionContext struct {
	UserID          uuid.UUID `json:"user_id"`
	ApplicationID   uuid.UUID `json:"application_id"`
	ResumeTag       string    `json:"resume_tag"`
	PositionDisplay string    `json:"position_display"`
}

// Session is the full state of one mock interview.
type Session struct {
	ID        string            `json:"id"`
	Context   SessionContext    `json:"context"`
	Questions []Question        `json:"questions"`
	Selected  map[Category]bool `json:"selected"`
	Finished  map[Category]bool `json:"finished"`
	Generated bool              `json:"generated"`
	// EmptyAnswerQuestion is the ID of the question whose last submit was blank.
	EmptyAnswerQuestion string    `json:"empty_answer_question,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// GeneratedQuestion is what the collaborator returns for a new question.
type GeneratedQuestion struct {
	Type        Category        `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Context     json.RawMessage `json:"context,omitempty"`
}

// Attempt is the record persisted after an analyzed submission.
type Attempt struct {
	UserID          uuid.UUID
	ApplicationID   uuid.UUID
	PositionDisplay string
	Type            Category
	Question        string
	Answer          string
	Context         json.RawMessage
	Language        Language
	Analysis        string
	Solution        string
}
