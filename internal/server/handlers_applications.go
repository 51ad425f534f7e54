package server

import (
	"net/http"
	"strings"

	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/types"
)

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req types.ApplicationRequest
	if !s.decode(w, r, &req, true) {
		return
	}

	app, err := s.store.CreateApplication(r.Context(), userID, req.Fields())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	apps, err := s.store.ListApplications(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if apps == nil {
		apps = []db.Application{}
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

// loadApplication resolves the {id} path value to one of the caller's applications.
func (s *Server) loadApplication(w http.ResponseWriter, r *http.Request) (*db.Application, bool) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return nil, false
	}
	id, ok := s.pathID(w, r, "id", "application")
	if !ok {
		return nil, false
	}
	app, err := s.store.GetApplication(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if app == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "Application"})
		return nil, false
	}
	return app, true
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := s.loadApplication(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id", "application")
	if !ok {
		return
	}
	var req types.ApplicationRequest
	if !s.decode(w, r, &req, true) {
		return
	}

	app, err := s.store.UpdateApplication(r.Context(), userID, id, req.Fields())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id", "application")
	if !ok {
		return
	}
	if err := s.store.DeleteApplication(r.Context(), userID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGetJobDescription(w http.ResponseWriter, r *http.Request) {
	app, ok := s.loadApplication(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, types.JobDescriptionResponse{
		ID:             app.ID,
		JobDescription: app.JobDescription,
	})
}

// handleFetchJobDescription imports the posting behind the application's
// link and stores its text as the job description.
func (s *Server) handleFetchJobDescription(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Job description import is not configured")
		return
	}
	app, ok := s.loadApplication(w, r)
	if !ok {
		return
	}
	link := strings.TrimSpace(app.ApplicationLink)
	if link == "" {
		s.writeError(w, r, &ErrValidation{Field: "application_link", Message: "application has no link to fetch"})
		return
	}

	page, err := s.fetcher.JobDescription(r.Context(), link)
	if err != nil {
		s.log.Warn("job description fetch failed", "application_id", app.ID, "url", link, "error", err)
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SetJobDescription(r.Context(), app.UserID, app.ID, page.Text); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.FetchJobDescriptionResponse{
		ID:             app.ID,
		JobDescription: page.Text,
		Source:         page.URL,
		Platform:       string(page.Platform),
		Rendered:       page.Rendered,
	})
}
