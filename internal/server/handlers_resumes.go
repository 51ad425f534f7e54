package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/types"
)

const duplicateTagMessage = "This tag already exists. Please use a unique tag."

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req types.CreateResumeRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	tag := strings.TrimSpace(req.Tag)
	if tag == "" {
		s.writeError(w, r, &ErrValidation{Field: "tag", Message: "required"})
		return
	}

	resume, err := s.store.CreateResume(r.Context(), userID, tag, req.ResumeContent)
	if errors.Is(err, db.ErrConflict) {
		s.errorResponse(w, http.StatusConflict, duplicateTagMessage)
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, resume)
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	resumes, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resumes == nil {
		resumes = []db.Resume{}
	}
	s.jsonResponse(w, http.StatusOK, resumes)
}

func (s *Server) handleLatestResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	resume, err := s.store.GetLatestResume(r.Context(), userID)
	s.respondResume(w, r, resume, err)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id", "resume")
	if !ok {
		return
	}
	resume, err := s.store.GetResume(r.Context(), userID, id)
	s.respondResume(w, r, resume, err)
}

func (s *Server) handleGetResumeByTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	resume, err := s.store.GetResumeByTag(r.Context(), userID, r.PathValue("tag"))
	s.respondResume(w, r, resume, err)
}

func (s *Server) respondResume(w http.ResponseWriter, r *http.Request, resume *db.Resume, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resume == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "Resume"})
		return
	}
	resume.Normalize()
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleResumeSection returns one section of a tagged resume, keyed by its name.
func (s *Server) handleResumeSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	section := r.PathValue("section")
	switch section {
	case db.SectionProjects, db.SectionExperience, db.SectionSkills:
	default:
		s.writeError(w, r, &ErrNotFound{Resource: "Resume section"})
		return
	}

	resume, err := s.store.GetResumeByTag(r.Context(), userID, r.PathValue("tag"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resume == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "Resume"})
		return
	}
	resume.Normalize()

	var value any
	switch section {
	case db.SectionProjects:
		value = resume.Projects
	case db.SectionExperience:
		value = resume.Experience
	case db.SectionSkills:
		value = resume.Skills
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{section: value})
}

// decodeResumePatch reads a partial resume body.
func (s *Server) decodeResumePatch(w http.ResponseWriter, r *http.Request) (db.ResumePatch, bool) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return db.ResumePatch{}, false
	}
	patch, err := types.ParseResumePatch(body)
	if err != nil {
		s.writeError(w, r, &ErrValidation{Message: err.Error()})
		return db.ResumePatch{}, false
	}
	return patch, true
}

func (s *Server) handlePatchResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id", "resume")
	if !ok {
		return
	}
	patch, ok := s.decodeResumePatch(w, r)
	if !ok {
		return
	}
	err := s.store.PatchResume(r.Context(), userID, id, patch)
	s.afterResumePatch(w, r, err, func() (*db.Resume, error) {
		return s.store.GetResume(r.Context(), userID, id)
	})
}

func (s *Server) handlePatchResumeByTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	tag := r.PathValue("tag")
	patch, ok := s.decodeResumePatch(w, r)
	if !ok {
		return
	}
	if patch.NewTag != nil {
		tag = *patch.NewTag
	}
	err := s.store.PatchResumeByTag(r.Context(), userID, r.PathValue("tag"), patch)
	s.afterResumePatch(w, r, err, func() (*db.Resume, error) {
		return s.store.GetResumeByTag(r.Context(), userID, tag)
	})
}

func (s *Server) afterResumePatch(w http.ResponseWriter, r *http.Request, err error, reload func() (*db.Resume, error)) {
	switch {
	case errors.Is(err, db.ErrConflict):
		s.errorResponse(w, http.StatusConflict, duplicateTagMessage)
		return
	case errors.Is(err, db.ErrNotFound):
		s.writeError(w, r, &ErrNotFound{Resource: "Resume"})
		return
	case err != nil:
		s.writeError(w, r, err)
		return
	}
	resume, err := reload()
	s.respondResume(w, r, resume, err)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id", "resume")
	if !ok {
		return
	}
	s.afterResumeDelete(w, r, s.store.DeleteResume(r.Context(), userID, id))
}

func (s *Server) handleDeleteResumeByTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	s.afterResumeDelete(w, r, s.store.DeleteResumeByTag(r.Context(), userID, r.PathValue("tag")))
}

func (s *Server) afterResumeDelete(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, db.ErrNotFound) {
		s.writeError(w, r, &ErrNotFound{Resource: "Resume"})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "No profile found for this user")
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req types.ProfileRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	profile, err := s.store.UpsertProfile(r.Context(), userID, req.Fields())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}
