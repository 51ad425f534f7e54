package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/google/uuid"
)

// PersistAttempt stores an analyzed mock-interview answer in the user's history.
func (s *Service) PersistAttempt(ctx context.Context, a mockinterview.Attempt) error {
	if strings.TrimSpace(a.Question) == "" || strings.TrimSpace(a.Answer) == "" || a.Type == "" {
		return fmt.Errorf("%w: question, answer and type are required", ErrInvalidInput)
	}

	qc := decodeContext(a.Context)
	h := &db.InterviewHistory{
		UserID:     a.UserID,
		Question:   a.Question,
		UserAnswer: a.Answer,
		Type:       string(a.Type),
		Context: db.HistoryContext{
			Experience: qc.Experience,
			Projects:   qc.Projects,
			Skills:     qc.Skills,
		},
		AIAnalysis: a.Analysis,
		AISolution: a.Solution,
	}
	if a.ApplicationID != uuid.Nil {
		appID := a.ApplicationID
		h.ApplicationID = &appID
	}
	if a.Language != "" {
		lang := string(a.Language)
		h.Language = &lang
	}
	if a.PositionDisplay != "" {
		pos := a.PositionDisplay
		h.PositionDisplay = &pos
	}

	id, err := s.store.SaveHistory(ctx, h)
	if err != nil {
		return err
	}
	s.log.Debug("interview attempt saved", "history_id", id, "user_id", a.UserID)
	return nil
}
