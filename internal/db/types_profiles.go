package db

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the user's public profile card; one per user.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Skills      string    `json:"skills"`
	Education   string    `json:"education"`
	Experience  string    `json:"experience"`
	Bio         string    `json:"bio"`
	LinkedInID  string    `json:"linkedin_id"`
	LeetCodeID  string    `json:"leetcode_id"`
	GitHubID    string    `json:"github_id"`
	PortfolioID string    `json:"portfolio_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileFields carries an upsert; nil fields keep their stored value.
type ProfileFields struct {
	Name        *string
	Location    *string
	Skills      *string
	Education   *string
	Experience  *string
	Bio         *string
	LinkedInID  *string
	LeetCodeID  *string
	GitHubID    *string
	PortfolioID *string
}
