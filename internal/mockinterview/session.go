package mockinterview

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSession starts an empty session with every category selected.
func NewSession(sc SessionContext, now time.Time) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Context:   sc,
		Questions: []Question{},
		Selected:  map[Category]bool{},
		Finished:  map[Category]bool{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, c := range Categories {
		s.Selected[c] = true
		s.Finished[c] = false
	}
	return s
}

// newQuestion builds a fresh NotStarted question from collaborator output.
func newQuestion(category Category, g *GeneratedQuestion) Question {
	q := Question{
		ID:            uuid.NewString(),
		Type:          category,
		Title:         fmt.Sprintf("%s Question", category),
		Description:   QuestionFailedText,
		Submitted:     NotStarted,
		ShowSolution:  SolutionHidden,
		GenerateCount: 1,
	}
	if g != nil {
		if g.Title != "" {
			q.Title = g.Title
		}
		if strings.TrimSpace(g.Description) != "" {
			q.Description = g.Description
		}
		q.Context = g.Context
	}
	if category == CategoryCoding {
		q.Language = DefaultLanguage
	}
	return q
}

// SelectedCategories returns the selected categories in fixed order.
func (s *Session) SelectedCategories() []Category {
	var out []Category
	for _, c := range Categories {
		if s.Selected[c] {
			out = append(out, c)
		}
	}
	return out
}

func (s *Session) index(id string) int {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

// question finds a visible question and rejects it when its category is finished.
func (s *Session) question(id string) (*Question, error) {
	i := s.index(id)
	if i < 0 || !s.Selected[s.Questions[i].Type] {
		return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
	}
	q := &s.Questions[i]
	if s.Finished[q.Type] {
		return nil, fmt.Errorf("%w: %s", ErrCategoryFinished, q.Type)
	}
	return q, nil
}

// actionable returns the question when it currently offers a.
func (s *Session) actionable(id string, a Action) (*Question, error) {
	q, err := s.question(id)
	if err != nil {
		return nil, err
	}
	if !offers(q, false, a) {
		return nil, fmt.Errorf("%w: %s while %s", ErrActionNotAllowed, a, q.Submitted)
	}
	return q, nil
}

// replaceQuestions installs a GenerateAll result and reopens the categories it covered.
func (s *Session) replaceQuestions(qs []Question, run []Category) {
	s.Questions = qs
	for _, c := range run {
		s.Finished[c] = false
	}
	s.Generated = true
	s.EmptyAnswerQuestion = ""
}

// Try moves a NotStarted question to Pending.
func (s *Session) Try(id string) error {
	q, err := s.actionable(id, ActionTry)
	if err != nil {
		return err
	}
	q.Submitted = Pending
	return nil
}

// Skip marks an unattempted question skipped.
func (s *Session) Skip(id string) error {
	q, err := s.actionable(id, ActionSkip)
	if err != nil {
		return err
	}
	q.Skipped = true
	q.MoreQuestionClicked = false
	return nil
}

// Later abandons a Pending attempt without penalty.
func (s *Session) Later(id string) error {
	q, err := s.actionable(id, ActionLater)
	if err != nil {
		return err
	}
	q.Submitted = NotStarted
	if s.EmptyAnswerQuestion == id {
		s.EmptyAnswerQuestion = ""
	}
	return nil
}

// SetInput replaces the answer text of a Pending question.
func (s *Session) SetInput(id, input string) error {
	q, err := s.actionable(id, ActionInput)
	if err != nil {
		return err
	}
	q.UserInput = input
	return nil
}

// SetLanguage changes the answer language of a Pending Coding question.
func (s *Session) SetLanguage(id string, lang Language) error {
	q, err := s.question(id)
	if err != nil {
		return err
	}
	if q.Type != CategoryCoding {
		return fmt.Errorf("%w: %s questions have no language", ErrUnsupportedLanguage, q.Type)
	}
	if !offers(q, false, ActionLanguage) {
		return fmt.Errorf("%w: %s while %s", ErrActionNotAllowed, ActionLanguage, q.Submitted)
	}
	q.Language = lang
	return nil
}

// BeginSubmit moves a Pending question with a non-blank answer to Processing
// and reports true. A blank answer leaves the question Pending, records the
// empty-answer warning against it and reports false.
func (s *Session) BeginSubmit(id string) (bool, error) {
	q, err := s.actionable(id, ActionSubmit)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(q.UserInput) == "" {
		s.EmptyAnswerQuestion = id
		return false, nil
	}
	s.EmptyAnswerQuestion = ""
	q.Submitted = Processing
	q.Notice = ""
	return true, nil
}

// CompleteSubmit applies the submission outcome to a Processing question.
func (s *Session) CompleteSubmit(id, analysis, solution, notice string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
	}
	q := &s.Questions[i]
	if q.Submitted != Processing {
		return fmt.Errorf("%w: complete submit while %s", ErrActionNotAllowed, q.Submitted)
	}
	q.Submitted = Done
	q.AIAnalysis = analysis
	q.AISolution = solution
	q.Notice = notice
	return nil
}

// BeginSolution toggles the solution panel. It reports true when the panel
// moved to Loading and a solution must be fetched.
func (s *Session) BeginSolution(id string) (bool, error) {
	q, err := s.actionable(id, ActionSolution)
	if err != nil {
		return false, err
	}
	switch {
	case q.ShowSolution == SolutionHidden && q.AISolution == "":
		q.ShowSolution = SolutionLoading
		return true, nil
	case q.ShowSolution == SolutionShown:
		q.ShowSolution = SolutionHidden
	default:
		q.ShowSolution = SolutionShown
	}
	return false, nil
}

// CompleteSolution resolves a Loading panel with the fetched text.
func (s *Session) CompleteSolution(id, solution string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
	}
	q := &s.Questions[i]
	q.AISolution = solution
	q.ShowSolution = SolutionShown
	return nil
}

// Finish closes the question's category.
func (s *Session) Finish(id string) error {
	q, err := s.actionable(id, ActionFinish)
	if err != nil {
		return err
	}
	s.Finished[q.Type] = true
	return nil
}

// FinishCategory closes a category when any of its visible questions offers finish.
func (s *Session) FinishCategory(c Category) error {
	if s.Finished[c] {
		return fmt.Errorf("%w: %s", ErrCategoryFinished, c)
	}
	if s.Selected[c] {
		for i := range s.Questions {
			q := &s.Questions[i]
			if q.Type == c && offers(q, false, ActionFinish) {
				s.Finished[c] = true
				return nil
			}
		}
	}
	return fmt.Errorf("%w: no %s question offers finish", ErrActionNotAllowed, c)
}

// SetSelected includes or excludes a category from the session.
func (s *Session) SetSelected(c Category, selected bool) {
	s.Selected[c] = selected
}

// BeginMore validates a request for another lineage question. From the
// skipped state the source is marked so it cannot ask twice.
func (s *Session) BeginMore(id string) (Category, error) {
	q, err := s.actionable(id, ActionMore)
	if err != nil {
		return "", err
	}
	if q.Submitted == NotStarted {
		q.MoreQuestionClicked = true
	}
	return q.Type, nil
}

// AppendToLineage inserts q after the last question of its category with
// a generate count one past the category maximum.
func (s *Session) AppendToLineage(q Question) int {
	maxCount, last := 0, -1
	for i := range s.Questions {
		if s.Questions[i].Type != q.Type {
			continue
		}
		last = i
		if s.Questions[i].GenerateCount > maxCount {
			maxCount = s.Questions[i].GenerateCount
		}
	}
	q.GenerateCount = maxCount + 1
	return s.insertAt(last+1, q)
}

// InsertAfter splices q immediately after the question with sourceID.
func (s *Session) InsertAfter(sourceID string, q Question) (int, error) {
	i := s.index(sourceID)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrQuestionNotFound, sourceID)
	}
	return s.insertAt(i+1, q), nil
}

func (s *Session) insertAt(pos int, q Question) int {
	s.Questions = append(s.Questions, Question{})
	copy(s.Questions[pos+1:], s.Questions[pos:])
	s.Questions[pos] = q
	return pos
}

// ReplaceContent swaps a regenerated question into an existing slot. The
// slot keeps its ID; attempt state and generate count start over.
func (s *Session) ReplaceContent(id string, fresh Question) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
	}
	old := s.Questions[i]
	fresh.ID = old.ID
	fresh.Type = old.Type
	fresh.GenerateCount = 1
	s.Questions[i] = fresh
	if s.EmptyAnswerQuestion == id {
		s.EmptyAnswerQuestion = ""
	}
	return nil
}
