package db

import (
	"time"

	"github.com/google/uuid"
)

// ResumeContent is the structured body of a resume version, stored as JSONB.
type ResumeContent struct {
	FullName   string             `json:"full_name"`
	Email      string             `json:"email"`
	Phone      string             `json:"phone"`
	LinkedIn   string             `json:"linkedin"`
	GitHub     string             `json:"github"`
	Website    string             `json:"website"`
	Education  []ResumeEducation  `json:"education"`
	Experience []ResumeExperience `json:"experience"`
	Projects   []ResumeProject    `json:"projects"`
	Skills     string             `json:"skills"`
	Awards     []ResumeAward      `json:"awards"`
}

type ResumeEducation struct {
	School   string `json:"school"`
	Degree   string `json:"degree"`
	Year     string `json:"year"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

type ResumeExperience struct {
	Company      string `json:"company"`
	Title        string `json:"title"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Location     string `json:"location"`
	Description  string `json:"desc"`
	Achievements string `json:"achievements"`
}

type ResumeProject struct {
	Name        string `json:"name"`
	Tech        string `json:"tech"`
	Description string `json:"desc"`
	GitHub      string `json:"github"`
	Demo        string `json:"demo"`
}

type ResumeAward struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	Notes  string `json:"notes"`
}

// Normalize replaces nil sections with empty ones so they serialize as [].
func (c *ResumeContent) Normalize() {
	if c.Education == nil {
		c.Education = []ResumeEducation{}
	}
	if c.Experience == nil {
		c.Experience = []ResumeExperience{}
	}
	if c.Projects == nil {
		c.Projects = []ResumeProject{}
	}
	if c.Awards == nil {
		c.Awards = []ResumeAward{}
	}
}

// Resume is one tagged resume version. Content fields are flattened into the JSON object.
type Resume struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Tag    string    `json:"tag"`
	ResumeContent
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Resume sections that can be fetched individually.
const (
	SectionProjects   = "projects"
	SectionExperience = "experience"
	SectionSkills     = "skills"
)
