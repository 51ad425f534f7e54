package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/devapply/devapply/internal/ai"
	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/fetch"
	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/google/uuid"
)

// fakeStore is an in-memory Store. Getters return (nil, nil) when nothing
// matches, like the PostgreSQL implementation.
type fakeStore struct {
	mu sync.Mutex

	users    map[uuid.UUID]*db.User
	apps     []*db.Application
	entries  []*db.InterviewEntry
	resumes  []*db.Resume
	profiles map[uuid.UUID]*db.Profile
	history  []*db.InterviewHistory

	pingErr error
	listErr error
	clock   time.Time
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[uuid.UUID]*db.User{},
		profiles: map[uuid.UUID]*db.Profile{},
		clock:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so rows get distinct timestamps.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return uuid.Nil, fmt.Errorf("failed to create user: %w", db.ErrConflict)
		}
	}
	now := f.tick()
	u := &db.User{ID: uuid.New(), Name: name, Email: strings.ToLower(email), Phone: phone, CreatedAt: now, UpdatedAt: now}
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := f.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (f *fakeStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, db.ErrNotFound)
	}
	u.PasswordHash = hash
	u.PasswordSet = true
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func applyFields(a *db.Application, fl db.ApplicationFields) {
	a.JobTitle = fl.JobTitle
	a.Company = fl.Company
	a.Status = fl.Status
	a.DateApplied = fl.DateApplied
	a.ApplicationLink = fl.ApplicationLink
	a.JobDescription = fl.JobDescription
	a.ResumeTag = fl.ResumeTag
	a.Notes = fl.Notes
}

func (f *fakeStore) CreateApplication(_ context.Context, userID uuid.UUID, fl db.ApplicationFields) (*db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.tick()
	a := &db.Application{ID: uuid.New(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	applyFields(a, fl)
	f.apps = append(f.apps, a)
	cp := *a
	return &cp, nil
}

func (f *fakeStore) ListApplications(_ context.Context, userID uuid.UUID) ([]db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []db.Application
	for _, a := range f.apps {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) findApp(userID, id uuid.UUID) *db.Application {
	for _, a := range f.apps {
		if a.UserID == userID && a.ID == id {
			return a
		}
	}
	return nil
}

func (f *fakeStore) GetApplication(_ context.Context, userID, id uuid.UUID) (*db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a := f.findApp(userID, id); a != nil {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) UpdateApplication(_ context.Context, userID, id uuid.UUID, fl db.ApplicationFields) (*db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.findApp(userID, id)
	if a == nil {
		return nil, fmt.Errorf("application %s: %w", id, db.ErrNotFound)
	}
	applyFields(a, fl)
	a.UpdatedAt = f.tick()
	cp := *a
	return &cp, nil
}

func (f *fakeStore) SetJobDescription(_ context.Context, userID, id uuid.UUID, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.findApp(userID, id)
	if a == nil {
		return fmt.Errorf("application %s: %w", id, db.ErrNotFound)
	}
	a.JobDescription = description
	return nil
}

func (f *fakeStore) DeleteApplication(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.apps {
		if a.UserID == userID && a.ID == id {
			f.apps = append(f.apps[:i], f.apps[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("application %s: %w", id, db.ErrNotFound)
}

func (f *fakeStore) CreateInterviewEntry(_ context.Context, e *db.InterviewEntry) (*db.InterviewEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *e
	cp.ID = uuid.New()
	cp.CreatedAt = f.tick()
	f.entries = append(f.entries, &cp)
	out := cp
	return &out, nil
}

func (f *fakeStore) GetInterviewEntry(_ context.Context, userID, id uuid.UUID) (*db.InterviewEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UserID == userID && e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListInterviewEntries(_ context.Context, userID uuid.UUID) ([]db.InterviewEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []db.InterviewEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) PatchInterviewEntry(_ context.Context, userID, id uuid.UUID, p db.InterviewEntryPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UserID != userID || e.ID != id {
			continue
		}
		setIf := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		if p.ApplicationID != nil {
			e.ApplicationID = p.ApplicationID
		}
		setIf(&e.Company, p.Company)
		setIf(&e.JobTitle, p.JobTitle)
		setIf(&e.QuestionType, p.QuestionType)
		setIf(&e.Question, p.Question)
		setIf(&e.Response, p.Response)
		setIf(&e.Notes, p.Notes)
		setIf(&e.Link, p.Link)
		setIf(&e.Type, p.Type)
		setIf(&e.InterviewName, p.InterviewName)
		if p.Date != nil {
			e.Date = p.Date
		}
		if p.InterviewDate != nil {
			e.InterviewDate = p.InterviewDate
		}
		return nil
	}
	return fmt.Errorf("interview entry %s: %w", id, db.ErrNotFound)
}

func (f *fakeStore) DeleteInterviewEntry(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.UserID == userID && e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("interview entry %s: %w", id, db.ErrNotFound)
}

func (f *fakeStore) findResume(match func(*db.Resume) bool) (int, *db.Resume) {
	for i, r := range f.resumes {
		if match(r) {
			return i, r
		}
	}
	return -1, nil
}

func copyResume(r *db.Resume) *db.Resume {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func (f *fakeStore) CreateResume(_ context.Context, userID uuid.UUID, tag string, content db.ResumeContent) (*db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, r := f.findResume(func(r *db.Resume) bool { return r.UserID == userID && r.Tag == tag }); r != nil {
		return nil, fmt.Errorf("resume tag %q: %w", tag, db.ErrConflict)
	}
	now := f.tick()
	content.Normalize()
	r := &db.Resume{ID: uuid.New(), UserID: userID, Tag: tag, ResumeContent: content, CreatedAt: now, UpdatedAt: now}
	f.resumes = append(f.resumes, r)
	return copyResume(r), nil
}

func (f *fakeStore) GetResume(_ context.Context, userID, id uuid.UUID) (*db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, r := f.findResume(func(r *db.Resume) bool { return r.UserID == userID && r.ID == id })
	return copyResume(r), nil
}

func (f *fakeStore) GetResumeByTag(_ context.Context, userID uuid.UUID, tag string) (*db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, r := f.findResume(func(r *db.Resume) bool { return r.UserID == userID && r.Tag == tag })
	return copyResume(r), nil
}

func (f *fakeStore) GetLatestResume(_ context.Context, userID uuid.UUID) (*db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *db.Resume
	for _, r := range f.resumes {
		if r.UserID == userID && (latest == nil || r.UpdatedAt.After(latest.UpdatedAt)) {
			latest = r
		}
	}
	return copyResume(latest), nil
}

func (f *fakeStore) ListResumes(_ context.Context, userID uuid.UUID) ([]db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []db.Resume
	for _, r := range f.resumes {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeStore) patch(match func(*db.Resume) bool, userID uuid.UUID, p db.ResumePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, r := f.findResume(match)
	if r == nil {
		return fmt.Errorf("resume: %w", db.ErrNotFound)
	}
	if p.NewTag != nil && *p.NewTag != r.Tag {
		if _, other := f.findResume(func(o *db.Resume) bool { return o.UserID == userID && o.Tag == *p.NewTag }); other != nil {
			return fmt.Errorf("resume tag %q: %w", *p.NewTag, db.ErrConflict)
		}
		r.Tag = *p.NewTag
	}
	if len(p.Content) > 0 {
		current, err := json.Marshal(r.ResumeContent)
		if err != nil {
			return err
		}
		merged := map[string]json.RawMessage{}
		if err := json.Unmarshal(current, &merged); err != nil {
			return err
		}
		for k, v := range p.Content {
			merged[k] = v
		}
		raw, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		var content db.ResumeContent
		if err := json.Unmarshal(raw, &content); err != nil {
			return err
		}
		r.ResumeContent = content
	}
	r.UpdatedAt = f.tick()
	return nil
}

func (f *fakeStore) PatchResume(_ context.Context, userID, id uuid.UUID, p db.ResumePatch) error {
	return f.patch(func(r *db.Resume) bool { return r.UserID == userID && r.ID == id }, userID, p)
}

func (f *fakeStore) PatchResumeByTag(_ context.Context, userID uuid.UUID, tag string, p db.ResumePatch) error {
	return f.patch(func(r *db.Resume) bool { return r.UserID == userID && r.Tag == tag }, userID, p)
}

func (f *fakeStore) deleteResume(match func(*db.Resume) bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, r := f.findResume(match)
	if r == nil {
		return fmt.Errorf("resume: %w", db.ErrNotFound)
	}
	f.resumes = append(f.resumes[:i], f.resumes[i+1:]...)
	return nil
}

func (f *fakeStore) DeleteResume(_ context.Context, userID, id uuid.UUID) error {
	return f.deleteResume(func(r *db.Resume) bool { return r.UserID == userID && r.ID == id })
}

func (f *fakeStore) DeleteResumeByTag(_ context.Context, userID uuid.UUID, tag string) error {
	return f.deleteResume(func(r *db.Resume) bool { return r.UserID == userID && r.Tag == tag })
}

func (f *fakeStore) GetProfile(_ context.Context, userID uuid.UUID) (*db.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, userID uuid.UUID, fl db.ProfileFields) (*db.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		p = &db.Profile{ID: uuid.New(), UserID: userID, CreatedAt: f.tick()}
		f.profiles[userID] = p
	}
	for dst, src := range map[*string]*string{
		&p.Name: fl.Name, &p.Location: fl.Location, &p.Skills: fl.Skills,
		&p.Education: fl.Education, &p.Experience: fl.Experience, &p.Bio: fl.Bio,
		&p.LinkedInID: fl.LinkedInID, &p.LeetCodeID: fl.LeetCodeID,
		&p.GitHubID: fl.GitHubID, &p.PortfolioID: fl.PortfolioID,
	} {
		if src != nil {
			*dst = *src
		}
	}
	p.UpdatedAt = f.tick()
	cp := *p
	return &cp, nil
}

func (f *fakeStore) SaveHistory(_ context.Context, h *db.InterviewHistory) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *h
	cp.ID = uuid.New()
	cp.CreatedAt = f.tick()
	f.history = append(f.history, &cp)
	return cp.ID, nil
}

func (f *fakeStore) ListHistory(_ context.Context, userID uuid.UUID, fl db.HistoryFilter) ([]db.InterviewHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	limit := fl.Limit
	if limit <= 0 {
		limit = db.DefaultHistoryLimit
	}
	var out []db.InterviewHistory
	for i := len(f.history) - 1; i >= 0 && len(out) < limit; i-- {
		h := f.history[i]
		if h.UserID != userID || (fl.Type != "" && h.Type != fl.Type) {
			continue
		}
		if fl.PositionDisplay != "" && (h.PositionDisplay == nil || *h.PositionDisplay != fl.PositionDisplay) {
			continue
		}
		out = append(out, *h)
	}
	return out, nil
}

func (f *fakeStore) DeleteHistory(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, h := range f.history {
		if h.UserID == userID && h.ID == id {
			f.history = append(f.history[:i], f.history[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("history %s: %w", id, db.ErrNotFound)
}

// fakeAI serves both the API handlers and the session manager.
type fakeAI struct {
	mu sync.Mutex

	polish      *ai.PolishResult
	polishErr   error
	solutionErr error
	questionErr error
	languages   []mockinterview.Language
	attempts    []mockinterview.Attempt
}

var (
	_ AIService                  = (*fakeAI)(nil)
	_ mockinterview.Collaborator = (*fakeAI)(nil)
)

func (f *fakeAI) GenerateQuestion(_ context.Context, sc mockinterview.SessionContext, c mockinterview.Category) (*mockinterview.GeneratedQuestion, error) {
	if f.questionErr != nil {
		return nil, f.questionErr
	}
	return &mockinterview.GeneratedQuestion{
		Type:        c,
		Title:       fmt.Sprintf("%s Question", c),
		Description: fmt.Sprintf("A %s question for %s", c, sc.ResumeTag),
		Context:     json.RawMessage(`{"job_description":"Build Go services"}`),
	}, nil
}

func (f *fakeAI) AnalyzeAnswer(_ context.Context, question, answer string, _ mockinterview.Category, _ json.RawMessage) (string, error) {
	return "analysis of " + answer, nil
}

func (f *fakeAI) GenerateSolution(_ context.Context, question string, _ mockinterview.Category, _ json.RawMessage, lang mockinterview.Language) (string, error) {
	f.mu.Lock()
	f.languages = append(f.languages, lang)
	f.mu.Unlock()
	if f.solutionErr != nil {
		return "", f.solutionErr
	}
	return "solution for " + question, nil
}

func (f *fakeAI) GenerateSimilarQuestion(_ context.Context, previous string, c mockinterview.Category, qctx json.RawMessage) (*mockinterview.GeneratedQuestion, error) {
	return &mockinterview.GeneratedQuestion{Type: c, Title: "Similar", Description: "like " + previous, Context: qctx}, nil
}

func (f *fakeAI) PolishResume(_ context.Context, resume json.RawMessage) (*ai.PolishResult, error) {
	if f.polishErr != nil {
		return nil, f.polishErr
	}
	if f.polish != nil {
		return f.polish, nil
	}
	return &ai.PolishResult{Resume: resume}, nil
}

func (f *fakeAI) Feedback(_ context.Context, _ json.RawMessage) (string, error) {
	return "- tighten the summary", nil
}

func (f *fakeAI) PersistAttempt(_ context.Context, a mockinterview.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, a)
	return nil
}

// fakeFetcher returns a canned page or error for any URL.
type fakeFetcher struct {
	page *fetch.Page
	err  error
	urls []string
}

func (f *fakeFetcher) JobDescription(_ context.Context, rawURL string) (*fetch.Page, error) {
	f.urls = append(f.urls, rawURL)
	if f.err != nil {
		return nil, f.err
	}
	page := *f.page
	page.URL = rawURL
	return &page, nil
}
