package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/llm"
	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/devapply/devapply/internal/prompts"
	"golang.org/x/sync/errgroup"
)

var wordPattern = regexp.MustCompile(`[A-Za-z]+`)

// QuestionContext is the job and resume material a question was generated
// from. It travels with the question and is handed back on later calls.
type QuestionContext struct {
	JobDescription string                `json:"job_description"`
	RequiredSkills []string              `json:"required_skills,omitempty"`
	Experience     []db.ResumeExperience `json:"experience,omitempty"`
	Projects       []db.ResumeProject    `json:"projects,omitempty"`
	Skills         string                `json:"skills,omitempty"`
}

// buildQuestionContext picks the material each category needs.
func buildQuestionContext(c mockinterview.Category, jobDescription string, resume *db.Resume) QuestionContext {
	qc := QuestionContext{JobDescription: jobDescription}
	switch c {
	case mockinterview.CategoryCoding:
		qc.RequiredSkills = wordPattern.FindAllString(jobDescription, -1)
		if qc.RequiredSkills == nil {
			qc.RequiredSkills = []string{}
		}
	case mockinterview.CategorySystemDesign, mockinterview.CategoryExperience:
		content := resume.ResumeContent
		content.Normalize()
		qc.Experience = content.Experience
		qc.Projects = content.Projects
		qc.Skills = content.Skills
	}
	return qc
}

// GenerateQuestion writes one interview question for the session's
// application and resume version.
func (s *Service) GenerateQuestion(ctx context.Context, sc mockinterview.SessionContext, c mockinterview.Category) (*mockinterview.GeneratedQuestion, error) {
	var (
		app    *db.Application
		resume *db.Resume
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		app, err = s.store.GetApplication(gctx, sc.UserID, sc.ApplicationID)
		return err
	})
	g.Go(func() error {
		var err error
		resume, err = s.store.GetResumeByTag(gctx, sc.UserID, sc.ResumeTag)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load question context: %w", err)
	}
	if app == nil {
		s.log.Warn("application not found", "application_id", sc.ApplicationID)
		return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, sc.ApplicationID)
	}
	if resume == nil {
		s.log.Warn("resume not found", "user_id", sc.UserID, "tag", sc.ResumeTag)
		return nil, fmt.Errorf("%w: %s", ErrResumeNotFound, sc.ResumeTag)
	}

	qc := buildQuestionContext(c, app.JobDescription, resume)
	encoded, err := json.Marshal(qc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode question context: %w", err)
	}

	system, err := prompts.Render(prompts.InterviewFile, "question_"+promptKey(c), map[string]string{"Type": string(c)})
	if err != nil {
		return nil, err
	}
	text, err := s.llm.GenerateContent(ctx, llm.Prompt{System: system, User: string(encoded)}, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("failed to generate question: %w", err)
	}

	return &mockinterview.GeneratedQuestion{
		Type:        c,
		Title:       fmt.Sprintf("%s Question", c),
		Description: strings.TrimSpace(text),
		Context:     encoded,
	}, nil
}

// GenerateSimilarQuestion writes a new question exercising the same skills
// as previous. The context is passed through unchanged.
func (s *Service) GenerateSimilarQuestion(ctx context.Context, previous string, c mockinterview.Category, qctx json.RawMessage) (*mockinterview.GeneratedQuestion, error) {
	if strings.TrimSpace(previous) == "" {
		return nil, fmt.Errorf("%w: previous question is required", ErrInvalidInput)
	}

	system, err := prompts.Get(prompts.InterviewFile, "similar_"+promptKey(c))
	if err != nil {
		return nil, err
	}
	user, err := prompts.Render(prompts.InterviewFile, "similar_user", map[string]string{
		"Question": previous,
		"Context":  contextString(qctx),
	})
	if err != nil {
		return nil, err
	}

	text, err := s.llm.GenerateContent(ctx, llm.Prompt{System: system, User: user}, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("failed to generate similar question: %w", err)
	}
	return &mockinterview.GeneratedQuestion{
		Type:        c,
		Title:       fmt.Sprintf("%s Similar Question", c),
		Description: strings.TrimSpace(text),
		Context:     qctx,
	}, nil
}

// contextString renders raw context for a prompt, or "null" when absent.
func contextString(qctx json.RawMessage) string {
	if len(strings.TrimSpace(string(qctx))) == 0 {
		return "null"
	}
	return string(qctx)
}

// decodeContext reads a question context, tolerating absent or foreign shapes.
func decodeContext(qctx json.RawMessage) QuestionContext {
	var qc QuestionContext
	if len(qctx) > 0 {
		_ = json.Unmarshal(qctx, &qc)
	}
	return qc
}
