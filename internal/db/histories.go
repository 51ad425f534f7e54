package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const historyColumns = `id, user_id, application_id, question, user_answer, type, context, language,
	ai_analysis, ai_solution, position_display, created_at`

func scanHistory(row rowScanner) (*InterviewHistory, error) {
	var h InterviewHistory
	var context []byte
	if err := row.Scan(&h.ID, &h.UserID, &h.ApplicationID, &h.Question, &h.UserAnswer, &h.Type, &context,
		&h.Language, &h.AIAnalysis, &h.AISolution, &h.PositionDisplay, &h.CreatedAt); err != nil {
		return nil, err
	}
	if len(context) > 0 {
		if err := json.Unmarshal(context, &h.Context); err != nil {
			return nil, fmt.Errorf("failed to decode history context: %w", err)
		}
	}
	return &h, nil
}

// SaveHistory persists a mock-interview attempt and returns its ID.
func (db *DB) SaveHistory(ctx context.Context, h *InterviewHistory) (uuid.UUID, error) {
	if h.Context.Experience == nil {
		h.Context.Experience = []ResumeExperience{}
	}
	if h.Context.Projects == nil {
		h.Context.Projects = []ResumeProject{}
	}
	body, err := json.Marshal(h.Context)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal history context: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO interview_histories (user_id, application_id, question, user_answer, type, context,
			language, ai_analysis, ai_solution, position_display)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		h.UserID, h.ApplicationID, h.Question, h.UserAnswer, h.Type, body,
		h.Language, h.AIAnalysis, h.AISolution, h.PositionDisplay,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save interview history: %w", err)
	}
	return id, nil
}

// ListHistory returns the user's attempts, newest first, narrowed by f.
func (db *DB) ListHistory(ctx context.Context, userID uuid.UUID, f HistoryFilter) ([]InterviewHistory, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+historyColumns+` FROM interview_histories
		 WHERE user_id = $1
		   AND ($2 = '' OR position_display = $2)
		   AND ($3 = '' OR type = $3)
		 ORDER BY created_at DESC
		 LIMIT $4`,
		userID, f.PositionDisplay, f.Type, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview history: %w", err)
	}
	defer rows.Close()

	history := []InterviewHistory{}
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview history: %w", err)
		}
		history = append(history, *h)
	}
	return history, rows.Err()
}

// DeleteHistory removes one attempt.
func (db *DB) DeleteHistory(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM interview_histories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete interview history: %w", err)
	}
	return expectOne(tag, "interview history "+id.String())
}
