package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/devapply/devapply/internal/llm"
	"github.com/devapply/devapply/internal/prompts"
	"github.com/devapply/devapply/internal/schemas"
)

// PolishResult is either a polished resume or the model output that could
// not be used as one.
type PolishResult struct {
	Resume    json.RawMessage `json:"-"`
	Error     string          `json:"error,omitempty"`
	RawOutput string          `json:"rawOutput,omitempty"`
}

// PolishResume asks the model to rewrite every section of the resume and
// checks the result against the resume schema.
func (s *Service) PolishResume(ctx context.Context, resume json.RawMessage) (*PolishResult, error) {
	pretty, err := indentJSON(resume)
	if err != nil {
		return nil, fmt.Errorf("%w: resume must be a JSON object", ErrInvalidInput)
	}
	prompt, err := prompts.Render(prompts.ResumeFile, "polish", map[string]string{"Resume": pretty})
	if err != nil {
		return nil, err
	}

	raw, err := s.llm.GenerateJSON(ctx, llm.Prompt{User: prompt}, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("failed to polish resume: %w", err)
	}

	doc := raw
	if !json.Valid([]byte(doc)) {
		doc = llm.ExtractJSONObject(raw)
	}
	if !json.Valid([]byte(doc)) {
		s.log.Warn("polish returned invalid JSON", "output_len", len(raw))
		return &PolishResult{Error: "Invalid JSON from model", RawOutput: raw}, nil
	}
	if err := schemas.ValidateResume(doc); err != nil {
		s.log.Warn("polished resume failed schema validation", "error", err)
		return &PolishResult{Error: "Polished resume does not match the resume format", RawOutput: raw}, nil
	}
	return &PolishResult{Resume: json.RawMessage(doc)}, nil
}

// Feedback returns a bullet-point critique of the resume.
func (s *Service) Feedback(ctx context.Context, resume json.RawMessage) (string, error) {
	if !json.Valid(resume) {
		return "", fmt.Errorf("%w: resume must be JSON", ErrInvalidInput)
	}
	prompt, err := prompts.Render(prompts.ResumeFile, "feedback", map[string]string{"Resume": string(resume)})
	if err != nil {
		return "", err
	}
	text, err := s.llm.GenerateContent(ctx, llm.Prompt{User: prompt}, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("failed to generate feedback: %w", err)
	}
	return text, nil
}

func indentJSON(data json.RawMessage) (string, error) {
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
