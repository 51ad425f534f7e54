package server

import (
	"net/http"
	"strings"

	"github.com/devapply/devapply/internal/ai"
	"github.com/devapply/devapply/internal/dashboard"
	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/devapply/devapply/internal/types"
)

// requireAI writes 503 when no model is configured.
func (s *Server) requireAI(w http.ResponseWriter) bool {
	if s.ai == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "AI features are not configured")
		return false
	}
	return true
}

// parseCategory writes 422 for an unknown question type.
func (s *Server) parseCategory(w http.ResponseWriter, r *http.Request, raw string) (mockinterview.Category, bool) {
	c, err := mockinterview.ParseCategory(raw)
	if err != nil {
		s.writeError(w, r, err)
		return "", false
	}
	return c, true
}

// handlePolish returns the polished resume, or {error, rawOutput} when the
// model produced something unusable.
func (s *Server) handlePolish(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}
	var req types.ResumeRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	result, err := s.ai.PolishResume(r.Context(), req.Resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if result.Resume == nil {
		s.jsonResponse(w, http.StatusOK, result)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.PolishResponse{Resume: result.Resume})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}
	var req types.ResumeRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	feedback, err := s.ai.Feedback(r.Context(), req.Resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.FeedbackResponse{Feedback: feedback})
}

func (s *Server) handleGenerateQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok || !s.requireAI(w) {
		return
	}
	var req types.QuestionRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	c, ok := s.parseCategory(w, r, req.Type)
	if !ok {
		return
	}

	q, err := s.ai.GenerateQuestion(r.Context(), mockinterview.SessionContext{
		UserID:        userID,
		ApplicationID: req.ApplicationID,
		ResumeTag:     req.ResumeTag,
	}, c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.QuestionResponse{
		Question: q.Description,
		Title:    q.Title,
		Type:     string(q.Type),
		Context:  q.Context,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}
	var req types.AnalyzeRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	c, ok := s.parseCategory(w, r, req.Type)
	if !ok {
		return
	}
	analysis, err := s.ai.AnalyzeAnswer(r.Context(), req.Question, req.Answer, c, req.Context)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.AnalyzeResponse{Analysis: analysis})
}

// handleSolution always answers 200 once the request is valid. Generation
// failures are reported in place of the solution text.
func (s *Server) handleSolution(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}
	var req types.SolutionRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	c, ok := s.parseCategory(w, r, req.Type)
	if !ok {
		return
	}
	var lang mockinterview.Language
	if strings.TrimSpace(req.Language) != "" {
		parsed, err := mockinterview.ParseLanguage(req.Language)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		lang = parsed
	}

	solution, err := s.ai.GenerateSolution(r.Context(), req.Question, c, req.Context, lang)
	if err != nil {
		s.log.Warn("solution generation failed", "type", c, "error", err)
		solution = ai.SolutionErrorMessage(req.Question, err)
	}
	s.jsonResponse(w, http.StatusOK, types.SolutionResponse{Solution: solution})
}

func (s *Server) handleSimilarQuestion(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}
	var req types.SimilarQuestionRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	c, ok := s.parseCategory(w, r, req.Type)
	if !ok {
		return
	}
	q, err := s.ai.GenerateSimilarQuestion(r.Context(), req.Question, c, req.Context)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, q)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	stats, err := dashboard.Load(r.Context(), s.store, userID, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}
