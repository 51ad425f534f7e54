package types

import (
	"encoding/json"
	"fmt"

	"github.com/devapply/devapply/internal/db"
)

// CreateResumeRequest stores a new tagged resume version. Content fields sit
// beside the tag at the top level.
type CreateResumeRequest struct {
	Tag string `json:"tag" validate:"required"`
	db.ResumeContent
}

// resumeContentKeys are the top-level content fields a patch may replace.
var resumeContentKeys = map[string]bool{
	"full_name": true, "email": true, "phone": true, "linkedin": true,
	"github": true, "website": true, "education": true, "experience": true,
	"projects": true, "skills": true, "awards": true,
}

// ParseResumePatch splits a patch body into a rename and content keys.
// Unknown keys and values that do not fit the resume shape are rejected.
func ParseResumePatch(body map[string]json.RawMessage) (db.ResumePatch, error) {
	var p db.ResumePatch
	content := map[string]json.RawMessage{}
	for k, v := range body {
		switch {
		case k == "tag":
			var tag string
			if err := json.Unmarshal(v, &tag); err != nil || tag == "" {
				return p, fmt.Errorf("tag must be a non-empty string")
			}
			p.NewTag = &tag
		case resumeContentKeys[k]:
			content[k] = v
		default:
			return p, fmt.Errorf("unknown resume field %q", k)
		}
	}
	if len(content) > 0 {
		merged, err := json.Marshal(content)
		if err != nil {
			return p, err
		}
		var probe db.ResumeContent
		if err := json.Unmarshal(merged, &probe); err != nil {
			return p, fmt.Errorf("invalid resume content: %w", err)
		}
		p.Content = content
	}
	if p.NewTag == nil && p.Content == nil {
		return p, fmt.Errorf("no fields to update")
	}
	return p, nil
}

// ProfileRequest upserts the caller's profile. Absent fields keep their value.
type ProfileRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Skills      *string `json:"skills"`
	Education   *string `json:"education"`
	Experience  *string `json:"experience"`
	Bio         *string `json:"bio"`
	LinkedInID  *string `json:"linkedin_id"`
	LeetCodeID  *string `json:"leetcode_id"`
	GitHubID    *string `json:"github_id"`
	PortfolioID *string `json:"portfolio_id"`
}

// Fields converts the request to repository input.
func (r *ProfileRequest) Fields() db.ProfileFields {
	return db.ProfileFields{
		Name:        r.Name,
		Location:    r.Location,
		Skills:      r.Skills,
		Education:   r.Education,
		Experience:  r.Experience,
		Bio:         r.Bio,
		LinkedInID:  r.LinkedInID,
		LeetCodeID:  r.LeetCodeID,
		GitHubID:    r.GitHubID,
		PortfolioID: r.PortfolioID,
	}
}
