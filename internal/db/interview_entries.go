package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const interviewEntryColumns = `id, user_id, application_id, company, job_title, question_type, question,
	response, notes, link, type, entry_date, interview_date, interview_name, created_at`

func scanInterviewEntry(row rowScanner) (*InterviewEntry, error) {
	var e InterviewEntry
	var date, interviewDate Date
	if err := row.Scan(&e.ID, &e.UserID, &e.ApplicationID, &e.Company, &e.JobTitle, &e.QuestionType,
		&e.Question, &e.Response, &e.Notes, &e.Link, &e.Type, &date, &interviewDate,
		&e.InterviewName, &e.CreatedAt); err != nil {
		return nil, err
	}
	if !date.IsZero() {
		e.Date = &date
	}
	if !interviewDate.IsZero() {
		e.InterviewDate = &interviewDate
	}
	return &e, nil
}

// CreateInterviewEntry inserts a journal entry and returns it.
func (db *DB) CreateInterviewEntry(ctx context.Context, e *InterviewEntry) (*InterviewEntry, error) {
	created, err := scanInterviewEntry(db.pool.QueryRow(ctx,
		`INSERT INTO interview_entries (user_id, application_id, company, job_title, question_type, question,
			response, notes, link, type, entry_date, interview_date, interview_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+interviewEntryColumns,
		e.UserID, e.ApplicationID, e.Company, e.JobTitle, e.QuestionType, e.Question,
		e.Response, e.Notes, e.Link, e.Type, e.Date, e.InterviewDate, e.InterviewName,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create interview entry: %w", err)
	}
	return created, nil
}

// GetInterviewEntry returns the entry or nil when missing.
func (db *DB) GetInterviewEntry(ctx context.Context, userID, id uuid.UUID) (*InterviewEntry, error) {
	e, err := scanInterviewEntry(db.pool.QueryRow(ctx,
		`SELECT `+interviewEntryColumns+` FROM interview_entries WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview entry: %w", err)
	}
	return e, nil
}

// ListInterviewEntries returns all of the user's entries, newest first.
func (db *DB) ListInterviewEntries(ctx context.Context, userID uuid.UUID) ([]InterviewEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewEntryColumns+` FROM interview_entries WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview entries: %w", err)
	}
	defer rows.Close()

	entries := []InterviewEntry{}
	for rows.Next() {
		e, err := scanInterviewEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// PatchInterviewEntry updates the non-nil fields of p.
func (db *DB) PatchInterviewEntry(ctx context.Context, userID, id uuid.UUID, p InterviewEntryPatch) error {
	if p.Empty() {
		return fmt.Errorf("empty patch")
	}

	u := newUpdate(id, userID)
	u.setIf("application_id", p.ApplicationID != nil, p.ApplicationID)
	u.setIf("company", p.Company != nil, p.Company)
	u.setIf("job_title", p.JobTitle != nil, p.JobTitle)
	u.setIf("question_type", p.QuestionType != nil, p.QuestionType)
	u.setIf("question", p.Question != nil, p.Question)
	u.setIf("response", p.Response != nil, p.Response)
	u.setIf("notes", p.Notes != nil, p.Notes)
	u.setIf("link", p.Link != nil, p.Link)
	u.setIf("type", p.Type != nil, p.Type)
	u.setIf("entry_date", p.Date != nil, p.Date)
	u.setIf("interview_date", p.InterviewDate != nil, p.InterviewDate)
	u.setIf("interview_name", p.InterviewName != nil, p.InterviewName)

	tag, err := db.pool.Exec(ctx, u.sql("interview_entries"), u.args...)
	if err != nil {
		return fmt.Errorf("failed to patch interview entry: %w", err)
	}
	return expectOne(tag, "interview entry "+id.String())
}

// DeleteInterviewEntry removes an entry.
func (db *DB) DeleteInterviewEntry(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM interview_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete interview entry: %w", err)
	}
	return expectOne(tag, "interview entry "+id.String())
}

// update builds "UPDATE t SET a = $3, b = $4 WHERE id = $1 AND user_id = $2".
type update struct {
	sets []string
	args []any
}

func newUpdate(id, userID uuid.UUID) *update {
	return &update{args: []any{id, userID}}
}

func (u *update) setIf(column string, ok bool, value any) {
	if !ok {
		return
	}
	u.args = append(u.args, value)
	u.sets = append(u.sets, fmt.Sprintf("%s = $%d", column, len(u.args)))
}

func (u *update) sql(table string) string {
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 AND user_id = $2", table, strings.Join(u.sets, ", "))
}
