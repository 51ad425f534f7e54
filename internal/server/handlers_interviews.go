package server

import (
	"net/http"
	"strconv"

	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/journal"
	"github.com/devapply/devapply/internal/types"
)

func (s *Server) handleCreateInterviewEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req types.InterviewEntryRequest
	if !s.decode(w, r, &req, true) {
		return
	}

	entry, err := s.store.CreateInterviewEntry(r.Context(), req.Entry(userID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, entry)
}

func (s *Server) handleGetInterviewEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id", "interview entry")
	if !ok {
		return
	}
	entry, err := s.store.GetInterviewEntry(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entry == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "Interview entry"})
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

func (s *Server) handlePatchInterviewEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id", "interview entry")
	if !ok {
		return
	}
	var req types.InterviewEntryPatchRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	patch := req.Patch()
	if patch.Empty() {
		s.writeError(w, r, &ErrValidation{Message: "no fields to update"})
		return
	}

	if err := s.store.PatchInterviewEntry(r.Context(), userID, id, patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.store.GetInterviewEntry(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteInterviewEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id", "interview entry")
	if !ok {
		return
	}
	if err := s.store.DeleteInterviewEntry(r.Context(), userID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleJournal returns interview entries grouped under their applications.
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	groups, err := journal.Load(r.Context(), s.store, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, groups)
}

func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req types.HistoryRequest
	if !s.decode(w, r, &req, true) {
		return
	}

	id, err := s.store.SaveHistory(r.Context(), req.History(userID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, types.IDResponse{ID: id})
}

// handleListHistory filters by position_display and type, newest first.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := db.HistoryFilter{
		PositionDisplay: q.Get("position_display"),
		Type:            q.Get("type"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		filter.Limit = limit
	}

	history, err := s.store.ListHistory(r.Context(), userID, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if history == nil {
		history = []db.InterviewHistory{}
	}
	s.jsonResponse(w, http.StatusOK, history)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id", "history")
	if !ok {
		return
	}
	if err := s.store.DeleteHistory(r.Context(), userID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
