package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const resumeColumns = `id, user_id, tag, content, created_at, updated_at`

func scanResume(row rowScanner) (*Resume, error) {
	var r Resume
	var content []byte
	if err := row.Scan(&r.ID, &r.UserID, &r.Tag, &content, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &r.ResumeContent); err != nil {
			return nil, fmt.Errorf("failed to decode resume content: %w", err)
		}
	}
	r.Normalize()
	return &r, nil
}

// CreateResume stores a new resume version. The tag must be unique per user.
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, tag string, content ResumeContent) (*Resume, error) {
	content.Normalize()
	body, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	r, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, tag, content) VALUES ($1, $2, $3) RETURNING `+resumeColumns,
		userID, tag, body,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("resume tag %q: %w", tag, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// GetResume returns a resume by ID or nil.
func (db *DB) GetResume(ctx context.Context, userID, id uuid.UUID) (*Resume, error) {
	return db.getResume(ctx, `id = $2`, userID, id)
}

// GetResumeByTag returns a resume by tag or nil.
func (db *DB) GetResumeByTag(ctx context.Context, userID uuid.UUID, tag string) (*Resume, error) {
	return db.getResume(ctx, `tag = $2`, userID, tag)
}

// GetLatestResume returns the most recently updated resume or nil.
func (db *DB) GetLatestResume(ctx context.Context, userID uuid.UUID) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC LIMIT 1`,
		userID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest resume: %w", err)
	}
	return r, nil
}

func (db *DB) getResume(ctx context.Context, where string, userID uuid.UUID, key any) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 AND `+where,
		userID, key,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumes returns the user's resumes, most recently updated first.
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	return resumes, rows.Err()
}

// ResumePatch is a partial resume update. Content holds top-level content
// keys merged over the stored document; NewTag renames the version.
type ResumePatch struct {
	NewTag  *string
	Content map[string]json.RawMessage
}

// PatchResume applies p to the resume with the given ID.
func (db *DB) PatchResume(ctx context.Context, userID, id uuid.UUID, p ResumePatch) error {
	return db.patchResume(ctx, `id = $2`, userID, id, p)
}

// PatchResumeByTag applies p to the resume with the given tag.
func (db *DB) PatchResumeByTag(ctx context.Context, userID uuid.UUID, tag string, p ResumePatch) error {
	return db.patchResume(ctx, `tag = $2`, userID, tag, p)
}

func (db *DB) patchResume(ctx context.Context, where string, userID uuid.UUID, key any, p ResumePatch) error {
	merge := []byte("{}")
	if len(p.Content) > 0 {
		var err error
		if merge, err = json.Marshal(p.Content); err != nil {
			return fmt.Errorf("failed to marshal resume patch: %w", err)
		}
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes SET content = content || $3::jsonb, tag = COALESCE($4, tag), updated_at = NOW()
		 WHERE user_id = $1 AND `+where,
		userID, key, merge, p.NewTag,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("resume tag: %w", ErrConflict)
		}
		return fmt.Errorf("failed to patch resume: %w", err)
	}
	return expectOne(tag, fmt.Sprintf("resume %v", key))
}

// DeleteResume removes a resume by ID.
func (db *DB) DeleteResume(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return expectOne(tag, "resume "+id.String())
}

// DeleteResumeByTag removes a resume by tag.
func (db *DB) DeleteResumeByTag(ctx context.Context, userID uuid.UUID, tagName string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE tag = $1 AND user_id = $2`, tagName, userID)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return expectOne(tag, "resume "+tagName)
}
