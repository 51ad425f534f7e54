package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const profileColumns = `id, user_id, name, location, skills, education, experience, bio,
	linkedin_id, leetcode_id, github_id, portfolio_id, created_at, updated_at`

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Location, &p.Skills, &p.Education, &p.Experience,
		&p.Bio, &p.LinkedInID, &p.LeetCodeID, &p.GitHubID, &p.PortfolioID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfile returns the user's profile or nil.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// UpsertProfile creates the profile on first write and merges later writes,
// keeping stored values for nil fields.
func (db *DB) UpsertProfile(ctx context.Context, userID uuid.UUID, f ProfileFields) (*Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`INSERT INTO profiles AS p (user_id, name, location, skills, education, experience, bio,
			linkedin_id, leetcode_id, github_id, portfolio_id)
		 VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, ''),
			COALESCE($7, ''), COALESCE($8, ''), COALESCE($9, ''), COALESCE($10, ''), COALESCE($11, ''))
		 ON CONFLICT (user_id) DO UPDATE SET
			name = COALESCE($2, p.name),
			location = COALESCE($3, p.location),
			skills = COALESCE($4, p.skills),
			education = COALESCE($5, p.education),
			experience = COALESCE($6, p.experience),
			bio = COALESCE($7, p.bio),
			linkedin_id = COALESCE($8, p.linkedin_id),
			leetcode_id = COALESCE($9, p.leetcode_id),
			github_id = COALESCE($10, p.github_id),
			portfolio_id = COALESCE($11, p.portfolio_id),
			updated_at = NOW()
		 RETURNING `+profileColumns,
		userID, f.Name, f.Location, f.Skills, f.Education, f.Experience, f.Bio,
		f.LinkedInID, f.LeetCodeID, f.GitHubID, f.PortfolioID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return p, nil
}

// ClearProfiles deletes every profile and returns how many were removed.
func (db *DB) ClearProfiles(ctx context.Context) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM profiles`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear profiles: %w", err)
	}
	return tag.RowsAffected(), nil
}
