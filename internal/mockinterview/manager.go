package mockinterview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/devapply/devapply/internal/logger"
	"github.com/google/uuid"
)

// Collaborator produces question content and stores finished attempts.
type Collaborator interface {
	GenerateQuestion(ctx context.Context, sc SessionContext, category Category) (*GeneratedQuestion, error)
	AnalyzeAnswer(ctx context.Context, question, answer string, category Category, qctx json.RawMessage) (string, error)
	GenerateSolution(ctx context.Context, question string, category Category, qctx json.RawMessage, language Language) (string, error)
	GenerateSimilarQuestion(ctx context.Context, previous string, category Category, qctx json.RawMessage) (*GeneratedQuestion, error)
	PersistAttempt(ctx context.Context, a Attempt) error
}

// QuestionUpdate edits a Pending question. Nil fields are left alone.
type QuestionUpdate struct {
	Input    *string
	Language *string
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes work on each session and runs collaborator calls
// outside the session lock. Results are applied to the freshly loaded
// session by question ID.
type Manager struct {
	store Store
	ai    Collaborator
	log   *logger.Logger
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// NewManager creates a Manager.
func NewManager(store Store, ai Collaborator, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		store: store,
		ai:    ai,
		log:   log,
		now:   time.Now,
		locks: map[string]*sessionLock{},
	}
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) load(ctx context.Context, userID uuid.UUID, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Context.UserID != userID {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// update runs fn against the stored session under its lock and saves the result.
func (m *Manager) update(ctx context.Context, userID uuid.UUID, id string, fn func(s *Session) error) (*Session, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = m.now()
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// settle applies a collaborator result after the request context may have
// ended. A failed load or save is retried once so a Processing or Loading
// question does not outlive its request. Rejections from fn are returned as is.
func (m *Manager) settle(ctx context.Context, userID uuid.UUID, id string, fn func(s *Session) error) (*Session, error) {
	ctx = context.WithoutCancel(ctx)
	var rejected bool
	apply := func(s *Session) error {
		err := fn(s)
		rejected = err != nil
		return err
	}
	s, err := m.update(ctx, userID, id, apply)
	if err == nil || rejected || errors.Is(err, ErrSessionNotFound) {
		return s, err
	}
	m.log.Warn("session save failed, retrying", "session_id", id, "error", err)
	return m.update(ctx, userID, id, apply)
}

// Create starts a session for an application and resume version.
func (m *Manager) Create(ctx context.Context, sc SessionContext) (*Session, error) {
	if sc.ApplicationID == uuid.Nil || strings.TrimSpace(sc.ResumeTag) == "" {
		return nil, ErrMissingContext
	}
	s := NewSession(sc, m.now())
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	m.log.Info("mock session created", "session_id", s.ID, "user_id", sc.UserID)
	return s, nil
}

// Get returns the caller's session.
func (m *Manager) Get(ctx context.Context, userID uuid.UUID, id string) (*Session, error) {
	return m.load(ctx, userID, id)
}

// Delete discards the caller's session.
func (m *Manager) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	unlock := m.lock(id)
	defer unlock()

	if _, err := m.load(ctx, userID, id); err != nil {
		return err
	}
	return m.store.Delete(ctx, id)
}

// SelectCategory includes or excludes a category.
func (m *Manager) SelectCategory(ctx context.Context, userID uuid.UUID, id string, c Category, selected bool) (*Session, error) {
	return m.update(ctx, userID, id, func(s *Session) error {
		s.SetSelected(c, selected)
		return nil
	})
}

// FinishCategory closes a category.
func (m *Manager) FinishCategory(ctx context.Context, userID uuid.UUID, id string, c Category) (*Session, error) {
	return m.update(ctx, userID, id, func(s *Session) error {
		return s.FinishCategory(c)
	})
}

// GenerateProgress reports one finished category during GenerateAll.
type GenerateProgress struct {
	Category Category `json:"category"`
	Done     int      `json:"done"`
	Total    int      `json:"total"`
	Failed   bool     `json:"failed"`
}

// GenerateAll requests one question per selected category, in category
// order and one at a time, then replaces the question sequence. A failed
// category gets a placeholder question.
func (m *Manager) GenerateAll(ctx context.Context, userID uuid.UUID, id string) (*Session, error) {
	return m.GenerateAllWithProgress(ctx, userID, id, nil)
}

// GenerateAllWithProgress is GenerateAll with a callback after each category.
func (m *Manager) GenerateAllWithProgress(ctx context.Context, userID uuid.UUID, id string, onProgress func(GenerateProgress)) (*Session, error) {
	s, err := m.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	run := s.SelectedCategories()
	if len(run) == 0 {
		return nil, ErrNothingSelected
	}

	questions := make([]Question, 0, len(run))
	for i, c := range run {
		q := m.generate(ctx, s.Context, c)
		// An abandoned request leaves the current sequence in place.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		questions = append(questions, q)
		if onProgress != nil {
			onProgress(GenerateProgress{Category: c, Done: i + 1, Total: len(run), Failed: q.Description == QuestionFailedText})
		}
	}

	return m.settle(ctx, userID, id, func(s *Session) error {
		s.replaceQuestions(questions, run)
		return nil
	})
}

// generate asks for one question and falls back to the placeholder.
func (m *Manager) generate(ctx context.Context, sc SessionContext, c Category) Question {
	g, err := m.ai.GenerateQuestion(ctx, sc, c)
	if err != nil {
		m.log.Warn("question generation failed", "category", c, "error", err)
		g = nil
	}
	return newQuestion(c, g)
}

// UpdateQuestion edits the answer text or language of a Pending question.
func (m *Manager) UpdateQuestion(ctx context.Context, userID uuid.UUID, id, qid string, u QuestionUpdate) (*Session, error) {
	var lang Language
	if u.Language != nil {
		var err error
		if lang, err = ParseLanguage(*u.Language); err != nil {
			return nil, err
		}
	}
	return m.update(ctx, userID, id, func(s *Session) error {
		if u.Input != nil {
			if err := s.SetInput(qid, *u.Input); err != nil {
				return err
			}
		}
		if u.Language != nil {
			return s.SetLanguage(qid, lang)
		}
		return nil
	})
}

// Act applies a question action. Actions that need the collaborator release
// the session between validation and applying the result.
func (m *Manager) Act(ctx context.Context, userID uuid.UUID, id, qid string, a Action) (*Session, error) {
	switch a {
	case ActionTry:
		return m.update(ctx, userID, id, func(s *Session) error { return s.Try(qid) })
	case ActionSkip:
		return m.update(ctx, userID, id, func(s *Session) error { return s.Skip(qid) })
	case ActionLater:
		return m.update(ctx, userID, id, func(s *Session) error { return s.Later(qid) })
	case ActionFinish:
		return m.update(ctx, userID, id, func(s *Session) error { return s.Finish(qid) })
	case ActionSubmit:
		return m.submit(ctx, userID, id, qid)
	case ActionSolution:
		return m.toggleSolution(ctx, userID, id, qid)
	case ActionMore:
		return m.more(ctx, userID, id, qid)
	case ActionRegenerate:
		return m.regenerate(ctx, userID, id, qid)
	case ActionSimilar:
		return m.similar(ctx, userID, id, qid)
	}
	return nil, fmt.Errorf("%w: %s", ErrActionNotAllowed, a)
}

// snapshot copies the question so collaborator calls run on stable data.
func snapshot(s *Session, qid string) (Question, SessionContext) {
	return s.Questions[s.index(qid)], s.Context
}

func solutionLanguage(q Question) Language {
	if q.Type != CategoryCoding {
		return ""
	}
	if q.Language == "" {
		return DefaultLanguage
	}
	return q.Language
}

// submit analyzes the answer, fetches a model solution and persists the
// attempt, strictly in that order. An analysis failure skips persistence.
// A persistence failure leaves the question Done with a notice.
func (m *Manager) submit(ctx context.Context, userID uuid.UUID, id, qid string) (*Session, error) {
	var started bool
	s, err := m.update(ctx, userID, id, func(s *Session) error {
		var err error
		started, err = s.BeginSubmit(qid)
		return err
	})
	if err != nil || !started {
		return s, err
	}
	q, sc := snapshot(s, qid)
	answer := strings.TrimSpace(q.UserInput)

	var analysis, solution, notice string
	analysis, err = m.ai.AnalyzeAnswer(ctx, q.Description, answer, q.Type, q.Context)
	analyzed := err == nil
	if !analyzed {
		m.log.Warn("answer analysis failed", "session_id", id, "question_id", qid, "error", err)
		analysis = AnalysisFailedText
	}

	solution, err = m.ai.GenerateSolution(ctx, q.Description, q.Type, q.Context, solutionLanguage(q))
	switch {
	case err != nil:
		m.log.Warn("solution generation failed", "session_id", id, "question_id", qid, "error", err)
		solution = SolutionFailedText
	case strings.TrimSpace(solution) == "":
		solution = SolutionEmptyText
	}

	if analyzed {
		err = m.ai.PersistAttempt(ctx, Attempt{
			UserID:          sc.UserID,
			ApplicationID:   sc.ApplicationID,
			PositionDisplay: sc.PositionDisplay,
			Type:            q.Type,
			Question:        q.Description,
			Answer:          answer,
			Context:         q.Context,
			Language:        solutionLanguage(q),
			Analysis:        analysis,
			Solution:        solution,
		})
		if err != nil {
			m.log.Error("failed to persist attempt", "session_id", id, "question_id", qid, "error", err)
			notice = PersistFailedNotice
		}
	}

	return m.settle(ctx, userID, id, func(s *Session) error {
		return s.CompleteSubmit(qid, analysis, solution, notice)
	})
}

// toggleSolution flips the solution panel, fetching a solution the first
// time it opens with nothing cached.
func (m *Manager) toggleSolution(ctx context.Context, userID uuid.UUID, id, qid string) (*Session, error) {
	var fetch bool
	s, err := m.update(ctx, userID, id, func(s *Session) error {
		var err error
		fetch, err = s.BeginSolution(qid)
		return err
	})
	if err != nil || !fetch {
		return s, err
	}
	q, _ := snapshot(s, qid)

	solution, err := m.ai.GenerateSolution(ctx, q.Description, q.Type, q.Context, solutionLanguage(q))
	switch {
	case err != nil:
		m.log.Warn("solution generation failed", "session_id", id, "question_id", qid, "error", err)
		solution = ToggleSolutionFailedText
	case strings.TrimSpace(solution) == "":
		solution = ToggleSolutionEmptyText
	}

	return m.settle(ctx, userID, id, func(s *Session) error {
		return s.CompleteSolution(qid, solution)
	})
}

// more appends a new question to the category lineage. The source is
// marked only when the new question is applied.
func (m *Manager) more(ctx context.Context, userID uuid.UUID, id, qid string) (*Session, error) {
	s, err := m.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	src, err := s.actionable(qid, ActionMore)
	if err != nil {
		return nil, err
	}

	q := m.generate(ctx, s.Context, src.Type)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.settle(ctx, userID, id, func(s *Session) error {
		if _, err := s.BeginMore(qid); err != nil {
			return err
		}
		s.AppendToLineage(q)
		return nil
	})
}

// regenerate replaces a Done question at the lineage cap with fresh content.
func (m *Manager) regenerate(ctx context.Context, userID uuid.UUID, id, qid string) (*Session, error) {
	s, err := m.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	src, err := s.actionable(qid, ActionRegenerate)
	if err != nil {
		return nil, err
	}

	fresh := m.generate(ctx, s.Context, src.Type)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.settle(ctx, userID, id, func(s *Session) error {
		if _, err := s.actionable(qid, ActionRegenerate); err != nil {
			return err
		}
		return s.ReplaceContent(qid, fresh)
	})
}

// similar splices a related question right after the source. Failure
// leaves the session untouched.
func (m *Manager) similar(ctx context.Context, userID uuid.UUID, id, qid string) (*Session, error) {
	s, err := m.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	src, err := s.actionable(qid, ActionSimilar)
	if err != nil {
		return nil, err
	}

	g, err := m.ai.GenerateSimilarQuestion(ctx, src.Description, src.Type, src.Context)
	if err != nil {
		m.log.Warn("similar question failed", "session_id", id, "question_id", qid, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSimilarFailed, err)
	}
	if g == nil || strings.TrimSpace(g.Description) == "" {
		return nil, fmt.Errorf("%w: empty result", ErrSimilarFailed)
	}

	category := src.Type
	if g.Type != "" {
		if c, err := ParseCategory(string(g.Type)); err == nil {
			category = c
		}
	}
	nq := newQuestion(category, &GeneratedQuestion{
		Title:       g.Title,
		Description: g.Description,
		Context:     src.Context,
	})
	if g.Title == "" {
		nq.Title = fmt.Sprintf("%s Similar Question", category)
	}

	return m.settle(ctx, userID, id, func(s *Session) error {
		if _, err := s.actionable(qid, ActionSimilar); err != nil {
			return err
		}
		_, err := s.InsertAfter(qid, nq)
		return err
	})
}
