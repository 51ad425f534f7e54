package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/devapply/devapply/internal/llm"
	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/devapply/devapply/internal/prompts"
)

// AnalyzeAnswer critiques an answer with the category's scoring rubric.
func (s *Service) AnalyzeAnswer(ctx context.Context, question, answer string, c mockinterview.Category, qctx json.RawMessage) (string, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: question and answer are required", ErrInvalidInput)
	}

	data := map[string]string{}
	if c == mockinterview.CategoryExperience {
		qc := decodeContext(qctx)
		data["Experience"] = mustJSON(qc.Experience)
		data["Projects"] = mustJSON(qc.Projects)
		data["Skills"] = qc.Skills
	}
	system, err := prompts.Render(prompts.InterviewFile, "analyze_"+promptKey(c), data)
	if err != nil {
		return "", err
	}
	user, err := prompts.Render(prompts.InterviewFile, "analyze_user", map[string]string{
		"Question": question,
		"Answer":   answer,
	})
	if err != nil {
		return "", err
	}

	text, err := s.llm.GenerateContent(ctx, llm.Prompt{System: system, User: user}, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("failed to analyze answer: %w", err)
	}
	return text, nil
}

// GenerateSolution writes a model answer. Coding questions are solved in
// language, which is detected from the question when empty.
func (s *Service) GenerateSolution(ctx context.Context, question string, c mockinterview.Category, qctx json.RawMessage, language mockinterview.Language) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if c == mockinterview.CategoryCoding {
		return s.codingSolution(ctx, question, string(language))
	}
	return s.contextualSolution(ctx, question, c, qctx)
}

func (s *Service) codingSolution(ctx context.Context, question, language string) (string, error) {
	if language == "" {
		detected, err := s.detectLanguage(ctx, question)
		if err != nil {
			return "", err
		}
		language = detected
	}

	data := map[string]string{"Language": language, "Question": question}
	system, err := prompts.Render(prompts.InterviewFile, "solution_coding", data)
	if err != nil {
		return "", err
	}
	user, err := prompts.Render(prompts.InterviewFile, "solution_coding_user", data)
	if err != nil {
		return "", err
	}

	text, err := s.llm.GenerateContent(ctx, llm.Prompt{System: system, User: user}, llm.TierAdvanced)
	if err != nil {
		return "", fmt.Errorf("failed to generate solution: %w", err)
	}
	return formatCodingSolution(text, language), nil
}

func (s *Service) detectLanguage(ctx context.Context, question string) (string, error) {
	system, err := prompts.Get(prompts.InterviewFile, "detect_language")
	if err != nil {
		return "", err
	}
	text, err := s.llm.GenerateContent(ctx, llm.Prompt{System: system, User: question}, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("failed to detect language: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// formatCodingSolution adds a heading when the model skipped the fenced block
// for the requested language.
func formatCodingSolution(solution, language string) string {
	if !strings.Contains(solution, "```"+language) {
		return fmt.Sprintf("### %s Solution\n%s", language, solution)
	}
	return solution
}

func (s *Service) contextualSolution(ctx context.Context, question string, c mockinterview.Category, qctx json.RawMessage) (string, error) {
	qc := decodeContext(qctx)
	data := map[string]string{}
	switch c {
	case mockinterview.CategoryExperience:
		data["Context"] = contextString(qctx)
		data["JobDescription"] = qc.JobDescription
	case mockinterview.CategorySystemDesign:
		data["Skills"] = qc.Skills
	}

	system, err := prompts.Render(prompts.InterviewFile, "solution_"+promptKey(c), data)
	if err != nil {
		return "", err
	}
	text, err := s.llm.GenerateContent(ctx, llm.Prompt{System: system, User: question}, llm.TierAdvanced)
	if err != nil {
		return "", fmt.Errorf("failed to generate solution: %w", err)
	}
	return text, nil
}

// SolutionErrorMessage is the text shown in place of a solution that could
// not be produced. Model API failures are reported separately from local ones.
func SolutionErrorMessage(question string, err error) string {
	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		return fmt.Sprintf("Failed to generate solution (API error). Please try again later.\nQuestion: %s", question)
	}
	return fmt.Sprintf("Error processing your request. Please try again.\nQuestion: %s", question)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
