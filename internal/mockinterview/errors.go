package mockinterview

import "errors"

var (
	// ErrSessionNotFound is returned for unknown, expired or foreign sessions.
	ErrSessionNotFound = errors.New("mock interview session not found")
	// ErrQuestionNotFound is returned when no visible question has the ID.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrCategoryFinished rejects transitions on a finished category.
	ErrCategoryFinished = errors.New("category is finished")
	// ErrActionNotAllowed rejects an action the question does not offer.
	ErrActionNotAllowed = errors.New("action not allowed in current state")
	// ErrUnknownCategory rejects category names outside the fixed set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnsupportedLanguage rejects languages outside the fixed set or on non-Coding questions.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrNothingSelected is returned by GenerateAll when no category is selected.
	ErrNothingSelected = errors.New("no category selected")
	// ErrMissingContext is returned when a session lacks the application or resume to seed questions.
	ErrMissingContext = errors.New("session has no application or resume tag")
	// ErrSimilarFailed is returned when a similar question could not be produced.
	ErrSimilarFailed = errors.New("failed to generate similar question")
)
