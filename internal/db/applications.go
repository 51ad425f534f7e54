package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const applicationColumns = `id, user_id, job_title, company, status, date_applied, application_link,
	job_description, resume_tag, notes, created_at, updated_at`

func scanApplication(row rowScanner) (*Application, error) {
	var a Application
	var dateApplied Date
	if err := row.Scan(&a.ID, &a.UserID, &a.JobTitle, &a.Company, &a.Status, &dateApplied,
		&a.ApplicationLink, &a.JobDescription, &a.ResumeTag, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if !dateApplied.IsZero() {
		a.DateApplied = &dateApplied
	}
	return &a, nil
}

// CreateApplication inserts an application owned by userID.
func (db *DB) CreateApplication(ctx context.Context, userID uuid.UUID, f ApplicationFields) (*Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, job_title, company, status, date_applied, application_link,
			job_description, resume_tag, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+applicationColumns,
		userID, f.JobTitle, f.Company, f.Status, f.DateApplied, f.ApplicationLink,
		f.JobDescription, f.ResumeTag, f.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return a, nil
}

// ListApplications returns the user's applications, newest first.
func (db *DB) ListApplications(ctx context.Context, userID uuid.UUID) ([]Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// GetApplication returns the application or nil when the user has none with that ID.
func (db *DB) GetApplication(ctx context.Context, userID, id uuid.UUID) (*Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// FindApplication looks an application up by job title and company.
func (db *DB) FindApplication(ctx context.Context, userID uuid.UUID, jobTitle, company string) (*Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE user_id = $1 AND job_title = $2 AND company = $3 LIMIT 1`,
		userID, jobTitle, company,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return a, nil
}

// UpdateApplication replaces the editable fields of an application.
func (db *DB) UpdateApplication(ctx context.Context, userID, id uuid.UUID, f ApplicationFields) (*Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`UPDATE applications SET job_title = $3, company = $4, status = $5, date_applied = $6,
			application_link = $7, job_description = $8, resume_tag = $9, notes = $10, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+applicationColumns,
		id, userID, f.JobTitle, f.Company, f.Status, f.DateApplied, f.ApplicationLink,
		f.JobDescription, f.ResumeTag, f.Notes,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return a, nil
}

// SetJobDescription overwrites only the job description of an application.
func (db *DB) SetJobDescription(ctx context.Context, userID, id uuid.UUID, description string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE applications SET job_description = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`,
		id, userID, description,
	)
	if err != nil {
		return fmt.Errorf("failed to set job description: %w", err)
	}
	return expectOne(tag, "application "+id.String())
}

// DeleteApplication removes an application.
func (db *DB) DeleteApplication(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return expectOne(tag, "application "+id.String())
}
