package mockinterview

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(qs ...Question) *Session {
	s := NewSession(SessionContext{UserID: uuid.New(), ApplicationID: uuid.New(), ResumeTag: "backend"}, time.Now())
	s.Questions = qs
	s.Generated = true
	return s
}

func q(c Category, count int, state SubmitState) Question {
	out := newQuestion(c, &GeneratedQuestion{Description: string(c) + " prompt", Context: json.RawMessage(`{"skills":"Go"}`)})
	out.GenerateCount = count
	out.Submitted = state
	return out
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Coding", CategoryCoding},
		{"system-design", CategorySystemDesign},
		{"System Design", CategorySystemDesign},
		{"EXPERIENCE", CategoryExperience},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseCategory("Behavioral")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestParseLanguage(t *testing.T) {
	l, err := ParseLanguage("Python")
	require.NoError(t, err)
	assert.Equal(t, LanguagePython, l)

	_, err = ParseLanguage("rust")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestActions(t *testing.T) {
	tests := []struct {
		name     string
		q        Question
		finished bool
		want     []Action
	}{
		{"fresh question", q(CategoryExperience, 1, NotStarted), false,
			[]Action{ActionSolution, ActionTry, ActionSkip}},
		{"fresh at lineage cap", q(CategoryExperience, 5, NotStarted), false,
			[]Action{ActionSolution, ActionTry, ActionFinish}},
		{"pending coding", q(CategoryCoding, 1, Pending), false,
			[]Action{ActionSolution, ActionInput, ActionLanguage, ActionSubmit, ActionLater}},
		{"pending experience", q(CategoryExperience, 1, Pending), false,
			[]Action{ActionSolution, ActionInput, ActionSubmit, ActionLater}},
		{"processing", q(CategoryCoding, 1, Processing), false,
			[]Action{ActionSolution}},
		{"done coding count 5", q(CategoryCoding, 5, Done), false,
			[]Action{ActionSolution, ActionFinish, ActionSimilar, ActionRegenerate}},
		{"done coding count 3", q(CategoryCoding, 3, Done), false,
			[]Action{ActionSolution, ActionFinish, ActionSimilar, ActionMore}},
		{"finished category", q(CategoryCoding, 3, Done), true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Actions(&tt.q, tt.finished)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("skipped offers one more", func(t *testing.T) {
		sq := q(CategoryCoding, 1, NotStarted)
		sq.Skipped = true
		assert.Equal(t, []Action{ActionSolution, ActionTry, ActionMore}, Actions(&sq, false))
		sq.MoreQuestionClicked = true
		assert.Equal(t, []Action{ActionSolution, ActionTry}, Actions(&sq, false))
	})

	t.Run("loading hides the toggle", func(t *testing.T) {
		lq := q(CategoryCoding, 1, NotStarted)
		lq.ShowSolution = SolutionLoading
		assert.NotContains(t, Actions(&lq, false), ActionSolution)
	})

	t.Run("no similar without context", func(t *testing.T) {
		nq := q(CategoryCoding, 1, Done)
		nq.Context = json.RawMessage("null")
		assert.NotContains(t, Actions(&nq, false), ActionSimilar)
	})
}

func TestAppendToLineage_MaxPlusOne(t *testing.T) {
	s := testSession(
		q(CategoryCoding, 1, Done),
		q(CategoryCoding, 1, Done),
		q(CategoryCoding, 2, NotStarted),
		q(CategoryExperience, 4, NotStarted),
	)

	pos := s.AppendToLineage(newQuestion(CategoryCoding, nil))
	assert.Equal(t, 3, pos, "inserted after the last Coding question")
	assert.Equal(t, 3, s.Questions[pos].GenerateCount)
	assert.Equal(t, CategoryExperience, s.Questions[4].Type)
}

func TestAppendToLineage_EmptyCategory(t *testing.T) {
	s := testSession(q(CategoryExperience, 1, Done))
	pos := s.AppendToLineage(newQuestion(CategoryCoding, nil))
	assert.Equal(t, 0, pos)
	assert.Equal(t, 1, s.Questions[0].GenerateCount)
}

func TestSkipThenMore(t *testing.T) {
	src := q(CategoryCoding, 1, NotStarted)
	s := testSession(src)

	require.NoError(t, s.Skip(src.ID))
	assert.True(t, s.Questions[0].Skipped)

	_, err := s.BeginMore(src.ID)
	require.NoError(t, err)
	assert.True(t, s.Questions[0].MoreQuestionClicked)

	_, err = s.BeginMore(src.ID)
	assert.ErrorIs(t, err, ErrActionNotAllowed)

	require.NoError(t, s.Try(src.ID), "skipped questions can still be attempted")
	assert.Equal(t, Pending, s.Questions[0].Submitted)
}

func TestSkipRejectedAtCap(t *testing.T) {
	src := q(CategoryCoding, 5, NotStarted)
	s := testSession(src)
	assert.ErrorIs(t, s.Skip(src.ID), ErrActionNotAllowed)
	require.NoError(t, s.Finish(src.ID))
	assert.True(t, s.Finished[CategoryCoding])
}

func TestBeginSubmit_BlankAnswer(t *testing.T) {
	a := q(CategoryCoding, 1, Pending)
	b := q(CategoryExperience, 1, Pending)
	b.UserInput = "an answer"
	s := testSession(a, b)

	require.NoError(t, s.SetInput(a.ID, "   \n\t"))
	started, err := s.BeginSubmit(a.ID)
	require.NoError(t, err)
	assert.False(t, started)
	assert.Equal(t, Pending, s.Questions[0].Submitted)
	assert.Equal(t, a.ID, s.EmptyAnswerQuestion)
	assert.Equal(t, Pending, s.Questions[1].Submitted)

	started, err = s.BeginSubmit(b.ID)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Empty(t, s.EmptyAnswerQuestion)
}

func TestFinishedCategoryRejectsEverything(t *testing.T) {
	done := q(CategoryCoding, 2, Done)
	fresh := q(CategoryCoding, 3, NotStarted)
	pending := q(CategoryCoding, 4, Pending)
	s := testSession(done, fresh, pending)
	require.NoError(t, s.Finish(done.ID))

	assert.ErrorIs(t, s.Try(fresh.ID), ErrCategoryFinished)
	assert.ErrorIs(t, s.Skip(fresh.ID), ErrCategoryFinished)
	assert.ErrorIs(t, s.SetInput(pending.ID, "x"), ErrCategoryFinished)
	assert.ErrorIs(t, s.SetLanguage(pending.ID, LanguagePython), ErrCategoryFinished)
	assert.ErrorIs(t, s.Later(pending.ID), ErrCategoryFinished)
	_, err := s.BeginSubmit(pending.ID)
	assert.ErrorIs(t, err, ErrCategoryFinished)
	_, err = s.BeginSolution(done.ID)
	assert.ErrorIs(t, err, ErrCategoryFinished)
	_, err = s.BeginMore(done.ID)
	assert.ErrorIs(t, err, ErrCategoryFinished)
	assert.ErrorIs(t, s.FinishCategory(CategoryCoding), ErrCategoryFinished)
}

func TestLanguageOnlyForCoding(t *testing.T) {
	s := testSession(q(CategorySystemDesign, 1, Pending), q(CategoryCoding, 1, Pending))
	assert.Empty(t, s.Questions[0].Language)
	assert.Equal(t, DefaultLanguage, s.Questions[1].Language)

	err := s.SetLanguage(s.Questions[0].ID, LanguagePython)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Empty(t, s.Questions[0].Language)

	out, err := json.Marshal(s.Questions[0])
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"language"`)
}

func TestBeginSolution_Toggle(t *testing.T) {
	src := q(CategoryCoding, 1, NotStarted)
	s := testSession(src)

	fetch, err := s.BeginSolution(src.ID)
	require.NoError(t, err)
	assert.True(t, fetch)
	assert.Equal(t, SolutionLoading, s.Questions[0].ShowSolution)

	_, err = s.BeginSolution(src.ID)
	assert.ErrorIs(t, err, ErrActionNotAllowed, "rejected while loading")

	require.NoError(t, s.CompleteSolution(src.ID, "use a heap"))
	assert.Equal(t, SolutionShown, s.Questions[0].ShowSolution)

	fetch, err = s.BeginSolution(src.ID)
	require.NoError(t, err)
	assert.False(t, fetch)
	assert.Equal(t, SolutionHidden, s.Questions[0].ShowSolution)

	fetch, err = s.BeginSolution(src.ID)
	require.NoError(t, err)
	assert.False(t, fetch, "cached solution is shown without a request")
	assert.Equal(t, SolutionShown, s.Questions[0].ShowSolution)
}

func TestReplaceContent_KeepsSlotResetsCount(t *testing.T) {
	src := q(CategoryCoding, 5, Done)
	src.Skipped = true
	src.MoreQuestionClicked = true
	src.AIAnalysis = "ok"
	s := testSession(src)

	fresh := newQuestion(CategoryCoding, &GeneratedQuestion{Description: "new prompt"})
	require.NoError(t, s.ReplaceContent(src.ID, fresh))

	got := s.Questions[0]
	assert.Equal(t, src.ID, got.ID)
	assert.Equal(t, 1, got.GenerateCount)
	assert.Equal(t, NotStarted, got.Submitted)
	assert.False(t, got.Skipped)
	assert.False(t, got.MoreQuestionClicked)
	assert.Empty(t, got.AIAnalysis)
	assert.Equal(t, "new prompt", got.Description)
}

func TestDeselectedQuestionsHidden(t *testing.T) {
	src := q(CategoryExperience, 1, NotStarted)
	s := testSession(src)
	s.SetSelected(CategoryExperience, false)
	assert.ErrorIs(t, s.Try(src.ID), ErrQuestionNotFound)
	assert.Empty(t, BuildView(s).Questions)
}

func TestBuildView(t *testing.T) {
	coding := q(CategoryCoding, 1, Pending)
	design := q(CategorySystemDesign, 1, Done)
	exp := q(CategoryExperience, 1, NotStarted)
	s := testSession(coding, design, exp)
	s.SetSelected(CategorySystemDesign, false)
	s.Finished[CategoryExperience] = true
	s.EmptyAnswerQuestion = coding.ID

	v := BuildView(s)
	require.Len(t, v.Questions, 2)

	assert.Equal(t, 0, v.Questions[0].Position)
	require.NotNil(t, v.Questions[0].Question)
	assert.Equal(t, coding.ID, v.Questions[0].Question.ID)

	assert.Equal(t, 1, v.Questions[1].Position)
	assert.True(t, v.Questions[1].Finished)
	assert.Nil(t, v.Questions[1].Question)
	assert.Equal(t, "Experience type finished.", v.Questions[1].Placeholder)
	assert.Empty(t, v.Questions[1].Actions)

	require.NotNil(t, v.Warning)
	assert.Equal(t, 0, v.Warning.Position)
	assert.Equal(t, EmptyAnswerText, v.Warning.Message)
}
