package server

import (
	"net/http"

	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/devapply/devapply/internal/types"
	"github.com/google/uuid"
)

// sessionRequest resolves the caller and the {id} of a session route.
func (s *Server) sessionRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	if s.sessions == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Mock interviews are not configured")
		return uuid.Nil, "", false
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return uuid.Nil, "", false
	}
	return userID, r.PathValue("id"), true
}

// respondSession writes the session view or the mapped error.
func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, status int, session *mockinterview.Session, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, status, mockinterview.BuildView(session))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := s.sessionRequest(w, r)
	if !ok {
		return
	}
	var req types.CreateSessionRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	session, err := s.sessions.Create(r.Context(), mockinterview.SessionContext{
		UserID:          userID,
		ApplicationID:   req.ApplicationID,
		ResumeTag:       req.ResumeTag,
		PositionDisplay: req.PositionDisplay,
	})
	s.respondSession(w, r, http.StatusCreated, session, err)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.sessionRequest(w, r)
	if !ok {
		return
	}
	session, err := s.sessions.Get(r.Context(), userID, id)
	s.respondSession(w, r, http.StatusOK, session, err)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.sessionRequest(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), userID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.sessionRequest(w, r)
	if !ok {
		return
	}
	c, ok := s.parseCategory(w, r, r.PathValue("category"))
	if !ok {
		return
	}
	var req types.SelectCategoryRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	session, err := s.sessions.SelectCategory(r.Context(), userID, id, c, *req.Selected)
	s.respondSession(w, r, http.StatusOK, session, err)
}

func (s *Server) handleFinishCategory(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.sessionRequest(w, r)
	if !ok {
		return
	}
	c, ok := s.parseCategory(w, r, r.PathValue("category"))
	if !ok {
		return
	}
	session, err := s.sessions.FinishCategory(r.Context(), userID, id, c)
	s.respondSession(w, r, http.StatusOK, session, err)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.sessionRequest(w, r)
	if !ok {
		return
	}
	session, err := s.sessions.GenerateAll(r.Context(), userID, id)
	s.respondSession(w, r, http.StatusOK, session, err)
}

// handleGenerateStream runs GenerateAll and reports each category as a
// "progress" event, then sends the view as "complete".
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.sessionRequest(w, r)
	if !ok {
		return
	}
	// Resolve the session first so unknown IDs get a plain 404.
	if _, err := s.sessions.Get(r.Context(), userID, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	session, err := s.sessions.GenerateAllWithProgress(r.Context(), userID, id, func(p mockinterview.GenerateProgress) {
		if err := sse.WriteEvent("progress", p); err != nil {
			s.log.Debug("progress event dropped", "session_id", id, "error", err)
		}
	})
	if err != nil {
		s.log.Warn("streamed generation failed", "session_id", id, "error", err)
		_ = sse.WriteError(err.Error())
		return
	}
	_ = sse.WriteComplete(mockinterview.BuildView(session))
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.sessionRequest(w, r)
	if !ok {
		return
	}
	var req types.UpdateQuestionRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	if req.Input == nil && req.Language == nil {
		s.writeError(w, r, &ErrValidation{Message: "input or language is required"})
		return
	}
	session, err := s.sessions.UpdateQuestion(r.Context(), userID, id, r.PathValue("qid"), mockinterview.QuestionUpdate{
		Input:    req.Input,
		Language: req.Language,
	})
	s.respondSession(w, r, http.StatusOK, session, err)
}

func (s *Server) handleQuestionAction(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.sessionRequest(w, r)
	if !ok {
		return
	}
	action, ok := mockinterview.ParseAction(r.PathValue("action"))
	if !ok {
		s.writeError(w, r, &ErrNotFound{Resource: "Action"})
		return
	}
	session, err := s.sessions.Act(r.Context(), userID, id, r.PathValue("qid"), action)
	s.respondSession(w, r, http.StatusOK, session, err)
}
