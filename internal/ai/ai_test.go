package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/llm"
	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type llmCall struct {
	prompt llm.Prompt
	tier   llm.ModelTier
	json   bool
}

type fakeLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   []llmCall
}

func (f *fakeLLM) next(c llmCall) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

func (f *fakeLLM) GenerateContent(_ context.Context, p llm.Prompt, tier llm.ModelTier) (string, error) {
	return f.next(llmCall{prompt: p, tier: tier})
}

func (f *fakeLLM) GenerateJSON(_ context.Context, p llm.Prompt, tier llm.ModelTier) (string, error) {
	return f.next(llmCall{prompt: p, tier: tier, json: true})
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeLLM) Close() error                  { return nil }

type fakeStore struct {
	app     *db.Application
	resume  *db.Resume
	saved   []*db.InterviewHistory
	saveErr error
}

func (f *fakeStore) GetApplication(_ context.Context, userID, id uuid.UUID) (*db.Application, error) {
	if f.app == nil || f.app.ID != id || f.app.UserID != userID {
		return nil, nil
	}
	return f.app, nil
}

func (f *fakeStore) GetResumeByTag(_ context.Context, userID uuid.UUID, tag string) (*db.Resume, error) {
	if f.resume == nil || f.resume.Tag != tag {
		return nil, nil
	}
	return f.resume, nil
}

func (f *fakeStore) SaveHistory(_ context.Context, h *db.InterviewHistory) (uuid.UUID, error) {
	if f.saveErr != nil {
		return uuid.Nil, f.saveErr
	}
	f.saved = append(f.saved, h)
	return uuid.New(), nil
}

func fixture() (*fakeStore, mockinterview.SessionContext) {
	userID := uuid.New()
	app := &db.Application{ID: uuid.New(), UserID: userID, JobTitle: "Backend Engineer", Company: "Acme",
		JobDescription: "Go, Kafka and PostgreSQL at scale."}
	resume := &db.Resume{ID: uuid.New(), UserID: userID, Tag: "backend", ResumeContent: db.ResumeContent{
		FullName:   "Ada",
		Skills:     "Go, SQL",
		Experience: []db.ResumeExperience{{Company: "Initech", Title: "SWE", Description: "Payments"}},
	}}
	return &fakeStore{app: app, resume: resume}, mockinterview.SessionContext{
		UserID: userID, ApplicationID: app.ID, ResumeTag: "backend",
	}
}

func TestGenerateQuestion_Coding(t *testing.T) {
	store, sc := fixture()
	model := &fakeLLM{replies: []string{"  Implement an LRU cache.  "}}
	svc := NewService(model, store, nil)

	g, err := svc.GenerateQuestion(context.Background(), sc, mockinterview.CategoryCoding)
	require.NoError(t, err)
	assert.Equal(t, mockinterview.CategoryCoding, g.Type)
	assert.Equal(t, "Coding Question", g.Title)
	assert.Equal(t, "Implement an LRU cache.", g.Description)

	var qc QuestionContext
	require.NoError(t, json.Unmarshal(g.Context, &qc))
	assert.Equal(t, []string{"Go", "Kafka", "and", "PostgreSQL", "at", "scale"}, qc.RequiredSkills)
	assert.Empty(t, qc.Experience)

	require.Len(t, model.calls, 1)
	assert.Contains(t, model.calls[0].prompt.System, "coding interview question")
	assert.JSONEq(t, string(g.Context), model.calls[0].prompt.User)
}

func TestGenerateQuestion_ExperienceUsesResume(t *testing.T) {
	store, sc := fixture()
	model := &fakeLLM{replies: []string{"Tell me about a payments outage."}}
	svc := NewService(model, store, nil)

	g, err := svc.GenerateQuestion(context.Background(), sc, mockinterview.CategoryExperience)
	require.NoError(t, err)

	var qc QuestionContext
	require.NoError(t, json.Unmarshal(g.Context, &qc))
	assert.Equal(t, "Go, SQL", qc.Skills)
	require.Len(t, qc.Experience, 1)
	assert.Equal(t, "Initech", qc.Experience[0].Company)
	assert.Empty(t, qc.Projects)
	assert.Nil(t, qc.RequiredSkills)
}

func TestGenerateQuestion_MissingInputs(t *testing.T) {
	store, sc := fixture()
	svc := NewService(&fakeLLM{}, store, nil)

	missingApp := sc
	missingApp.ApplicationID = uuid.New()
	_, err := svc.GenerateQuestion(context.Background(), missingApp, mockinterview.CategoryCoding)
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	missingResume := sc
	missingResume.ResumeTag = "frontend"
	_, err = svc.GenerateQuestion(context.Background(), missingResume, mockinterview.CategoryCoding)
	assert.ErrorIs(t, err, ErrResumeNotFound)
}

func TestAnalyzeAnswer_ExperienceRubric(t *testing.T) {
	model := &fakeLLM{replies: []string{"### Analysis"}}
	svc := NewService(model, &fakeStore{}, nil)
	qctx := json.RawMessage(`{"job_description":"x","skills":"Go, SQL","experience":[{"company":"Initech"}]}`)

	out, err := svc.AnalyzeAnswer(context.Background(), "Why Go?", "Concurrency", mockinterview.CategoryExperience, qctx)
	require.NoError(t, err)
	assert.Equal(t, "### Analysis", out)

	call := model.calls[0]
	assert.Contains(t, call.prompt.System, "Skills: Go, SQL")
	assert.Contains(t, call.prompt.System, "Initech")
	assert.NotContains(t, call.prompt.System, "{{.")
	assert.Equal(t, "Question: Why Go?\nAnswer: Concurrency", call.prompt.User)
}

func TestAnalyzeAnswer_RequiresAnswer(t *testing.T) {
	svc := NewService(&fakeLLM{}, &fakeStore{}, nil)
	_, err := svc.AnalyzeAnswer(context.Background(), "Q", "  ", mockinterview.CategoryCoding, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateSolution_Coding(t *testing.T) {
	t.Run("adds heading without fenced block", func(t *testing.T) {
		model := &fakeLLM{replies: []string{"Use two pointers."}}
		svc := NewService(model, &fakeStore{}, nil)
		out, err := svc.GenerateSolution(context.Background(), "Reverse a list", mockinterview.CategoryCoding, nil, "python")
		require.NoError(t, err)
		assert.Equal(t, "### python Solution\nUse two pointers.", out)
		require.Len(t, model.calls, 1)
		assert.Equal(t, llm.TierAdvanced, model.calls[0].tier)
		assert.Contains(t, model.calls[0].prompt.User, "Solve it in python only.")
	})

	t.Run("keeps fenced answer", func(t *testing.T) {
		reply := "```python\nprint(1)\n```"
		model := &fakeLLM{replies: []string{reply}}
		svc := NewService(model, &fakeStore{}, nil)
		out, err := svc.GenerateSolution(context.Background(), "Print one", mockinterview.CategoryCoding, nil, "python")
		require.NoError(t, err)
		assert.Equal(t, reply, out)
	})

	t.Run("detects language when absent", func(t *testing.T) {
		model := &fakeLLM{replies: []string{" Go \n", "```Go\nfunc main() {}\n```"}}
		svc := NewService(model, &fakeStore{}, nil)
		_, err := svc.GenerateSolution(context.Background(), "Write a goroutine pool", mockinterview.CategoryCoding, nil, "")
		require.NoError(t, err)
		require.Len(t, model.calls, 2)
		assert.Equal(t, llm.TierLite, model.calls[0].tier)
		assert.Contains(t, model.calls[1].prompt.User, "Here is a Go coding question")
	})
}

func TestGenerateSolution_SystemDesignUsesSkills(t *testing.T) {
	model := &fakeLLM{replies: []string{"Architecture overview"}}
	svc := NewService(model, &fakeStore{}, nil)
	_, err := svc.GenerateSolution(context.Background(), "Design a feed", mockinterview.CategorySystemDesign,
		json.RawMessage(`{"skills":"Kafka, Redis"}`), "")
	require.NoError(t, err)
	assert.Contains(t, model.calls[0].prompt.System, "Relevant technologies: Kafka, Redis")
	assert.Equal(t, "Design a feed", model.calls[0].prompt.User)
}

func TestSolutionErrorMessage(t *testing.T) {
	apiErr := &llm.ProviderError{Provider: llm.ProviderOpenAI, Err: errors.New("429")}
	msg := SolutionErrorMessage("Reverse a list", apiErr)
	assert.Contains(t, msg, "API error")
	assert.True(t, strings.HasSuffix(msg, "Question: Reverse a list"))

	msg = SolutionErrorMessage("Reverse a list", errors.New("bad template"))
	assert.Contains(t, msg, "Error processing your request")
	assert.Contains(t, msg, "Reverse a list")
}

func TestGenerateSimilarQuestion(t *testing.T) {
	model := &fakeLLM{replies: []string{"Design a rate limiter.\n"}}
	svc := NewService(model, &fakeStore{}, nil)
	qctx := json.RawMessage(`{"job_description":"APIs"}`)

	g, err := svc.GenerateSimilarQuestion(context.Background(), "Design a URL shortener", mockinterview.CategorySystemDesign, qctx)
	require.NoError(t, err)
	assert.Equal(t, "System Design Similar Question", g.Title)
	assert.Equal(t, "Design a rate limiter.", g.Description)
	assert.JSONEq(t, string(qctx), string(g.Context))
	assert.Contains(t, model.calls[0].prompt.User, "Previous Question: Design a URL shortener")

	_, err = svc.GenerateSimilarQuestion(context.Background(), " ", mockinterview.CategoryCoding, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPolishResume(t *testing.T) {
	input := json.RawMessage(`{"full_name":"Ada","projects":[{"name":"x","desc":"did stuff"}]}`)

	t.Run("valid result", func(t *testing.T) {
		model := &fakeLLM{replies: []string{`{"full_name":"Ada","projects":[{"name":"x","desc":"Shipped x to 10k users"}]}`}}
		svc := NewService(model, &fakeStore{}, nil)
		res, err := svc.PolishResume(context.Background(), input)
		require.NoError(t, err)
		assert.Empty(t, res.Error)
		assert.Contains(t, string(res.Resume), "10k users")
		assert.True(t, model.calls[0].json)
		assert.Contains(t, model.calls[0].prompt.User, `"full_name": "Ada"`)
	})

	t.Run("prose around object", func(t *testing.T) {
		model := &fakeLLM{replies: []string{`Here you go: {"full_name":"Ada"} enjoy`}}
		svc := NewService(model, &fakeStore{}, nil)
		res, err := svc.PolishResume(context.Background(), input)
		require.NoError(t, err)
		assert.JSONEq(t, `{"full_name":"Ada"}`, string(res.Resume))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		model := &fakeLLM{replies: []string{"Sorry, I cannot"}}
		svc := NewService(model, &fakeStore{}, nil)
		res, err := svc.PolishResume(context.Background(), input)
		require.NoError(t, err)
		assert.Nil(t, res.Resume)
		assert.Equal(t, "Invalid JSON from model", res.Error)
		assert.Equal(t, "Sorry, I cannot", res.RawOutput)
	})

	t.Run("schema mismatch", func(t *testing.T) {
		model := &fakeLLM{replies: []string{`{"projects":"none"}`}}
		svc := NewService(model, &fakeStore{}, nil)
		res, err := svc.PolishResume(context.Background(), input)
		require.NoError(t, err)
		assert.NotEmpty(t, res.Error)
		assert.Equal(t, `{"projects":"none"}`, res.RawOutput)
	})

	t.Run("input must be an object", func(t *testing.T) {
		svc := NewService(&fakeLLM{}, &fakeStore{}, nil)
		_, err := svc.PolishResume(context.Background(), json.RawMessage(`[1,2]`))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestFeedback(t *testing.T) {
	model := &fakeLLM{replies: []string{"- Quantify impact"}}
	svc := NewService(model, &fakeStore{}, nil)
	out, err := svc.Feedback(context.Background(), json.RawMessage(`{"full_name":"Ada"}`))
	require.NoError(t, err)
	assert.Equal(t, "- Quantify impact", out)
	assert.Contains(t, model.calls[0].prompt.User, `{"full_name":"Ada"}`)

	model.err = errors.New("down")
	_, err = svc.Feedback(context.Background(), json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestPersistAttempt(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(&fakeLLM{}, store, nil)
	appID := uuid.New()

	err := svc.PersistAttempt(context.Background(), mockinterview.Attempt{
		UserID:          uuid.New(),
		ApplicationID:   appID,
		PositionDisplay: "Backend Engineer at Acme",
		Type:            mockinterview.CategoryCoding,
		Question:        "Reverse a list",
		Answer:          "xs[::-1]",
		Context:         json.RawMessage(`{"job_description":"Go","required_skills":["Go"],"skills":"Go"}`),
		Language:        mockinterview.LanguagePython,
		Analysis:        "good",
		Solution:        "fine",
	})
	require.NoError(t, err)
	require.Len(t, store.saved, 1)

	h := store.saved[0]
	assert.Equal(t, "Coding", h.Type)
	require.NotNil(t, h.ApplicationID)
	assert.Equal(t, appID, *h.ApplicationID)
	require.NotNil(t, h.Language)
	assert.Equal(t, "python", *h.Language)
	assert.Equal(t, "Go", h.Context.Skills)
	assert.Equal(t, "Backend Engineer at Acme", *h.PositionDisplay)

	err = svc.PersistAttempt(context.Background(), mockinterview.Attempt{Type: mockinterview.CategoryCoding, Question: "Q"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	store.saveErr = errors.New("db down")
	err = svc.PersistAttempt(context.Background(), mockinterview.Attempt{
		Type: mockinterview.CategoryExperience, Question: "Q", Answer: "A",
	})
	assert.Error(t, err)
}
