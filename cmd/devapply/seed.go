package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/devapply/devapply/internal/db"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var seedUser string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample applications, interview entries and a resume for a user",
	Long: `Insert sample data for one user. Applications that already exist
(same job title and company) and entries with the same question are skipped,
so the command can be run repeatedly.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedUser, "user", "", "User ID to seed data for")
	_ = seedCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(seedUser)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}

	ctx := cmd.Context()
	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	return seed(ctx, database, userID, cmd.OutOrStdout())
}

// seedStore is the persistence seed writes through.
type seedStore interface {
	FindApplication(ctx context.Context, userID uuid.UUID, jobTitle, company string) (*db.Application, error)
	CreateApplication(ctx context.Context, userID uuid.UUID, f db.ApplicationFields) (*db.Application, error)
	ListInterviewEntries(ctx context.Context, userID uuid.UUID) ([]db.InterviewEntry, error)
	CreateInterviewEntry(ctx context.Context, e *db.InterviewEntry) (*db.InterviewEntry, error)
	GetResumeByTag(ctx context.Context, userID uuid.UUID, tag string) (*db.Resume, error)
	CreateResume(ctx context.Context, userID uuid.UUID, tag string, content db.ResumeContent) (*db.Resume, error)
}

type sampleApplication struct {
	jobTitle, company, status, dateApplied, notes, description, link string
}

type sampleEntry struct {
	// jobTitle links the entry to a sample application; empty means unlinked.
	jobTitle      string
	interviewName string
	questionType  string
	question      string
	response      string
	date          string
	notes         string
}

var sampleApplications = []sampleApplication{
	{"Frontend Developer", "Meta", "Applied", "2025-06-12", "Applied through the career portal", "Develop and maintain frontend React applications.", "https://careers.meta.com/job/1234"},
	{"Software Engineer", "Google", "Interview Completed", "2025-06-10", "Referred by a friend", "Work on scalable backend services and APIs.", "https://careers.google.com/jobs/5678"},
	{"Full Stack Developer", "Amazon", "Applied", "2025-06-11", "Job found on LinkedIn", "Build and maintain full stack applications.", "https://amazon.jobs/en/jobs/91011"},
	{"Backend Developer", "Netflix", "Interview Scheduled", "2025-06-13", "Recruiter reached out via email", "Develop and optimize backend microservices.", "https://jobs.netflix.com/jobs/2222"},
	{"DevOps Engineer", "Spotify", "Interview Completed", "2025-06-14", "Interviewed with team lead", "Manage CI/CD pipelines and cloud infrastructure.", "https://spotifyjobs.com/jobs/3333"},
}

var sampleEntries = []sampleEntry{
	{jobTitle: "Frontend Developer", questionType: "Coding", question: "Build a React component for infinite scroll.",
		response: "```jsx\nconst InfiniteScroll = () => {\n  const [items, setItems] = useState([]);\n};\n```", date: "2025-06-15",
		notes: "Focus on performance and user experience."},
	{jobTitle: "Frontend Developer", questionType: "Behavioral", question: "Tell me about a time you solved a frontend performance issue.",
		response: "**Used code splitting**, lazy loading, and avoided re-renders with `React.memo`.", date: "2025-06-17"},
	{jobTitle: "Software Engineer", questionType: "System Design", question: "Design a URL shortener service.",
		response: "- Generate unique IDs using Base62\n- Store mapping in DB\n- Use Redis cache for quick lookup", date: "2025-06-16"},
	{jobTitle: "Software Engineer", questionType: "Coding", question: "Reverse a linked list.",
		response: "```js\nfunction reverse(head) {\n  let prev = null;\n  while (head) {\n    const next = head.next;\n    head.next = prev;\n    prev = head;\n    head = next;\n  }\n  return prev;\n}\n```", date: "2025-06-18"},
	{jobTitle: "Full Stack Developer", questionType: "Behavioral", question: "Tell me about a time you worked on a team project.",
		response: "I **collaborated** with 4 teammates to build a web app. We tracked tasks on a shared board and held weekly standups.", date: "2025-06-17"},
	{interviewName: "Amazon Behavioral Phone Interview", questionType: "Behavioral", question: "Describe a challenge you faced when working remotely.",
		response: "I set up async communication like daily standups in chat and weekly retros.", date: "2025-06-20",
		notes: "Good practice for distributed team settings."},
}

const sampleResumeTag = "fullstack"

var sampleResume = db.ResumeContent{
	FullName: "Sample Candidate",
	Email:    "candidate@example.com",
	Phone:    "123-456-7890",
	LinkedIn: "https://linkedin.com/in/sample-candidate",
	GitHub:   "https://github.com/sample-candidate",
	Education: []db.ResumeEducation{
		{School: "State University", Degree: "B.S. Computer Science", Year: "2022"},
	},
	Experience: []db.ResumeExperience{
		{Company: "Acme", Title: "Software Engineer", Start: "2022-07", End: "Present",
			Description: "Built REST services and React dashboards."},
	},
	Projects: []db.ResumeProject{
		{Name: "DevApply", Tech: "Go, PostgreSQL, React", Description: "Job application tracker with mock interviews."},
	},
	Skills: "Go, TypeScript, React, PostgreSQL, Redis",
}

// seed inserts the sample data for userID and reports each step to out.
func seed(ctx context.Context, store seedStore, userID uuid.UUID, out io.Writer) error {
	apps := map[string]*db.Application{}
	created := 0
	for _, s := range sampleApplications {
		existing, err := store.FindApplication(ctx, userID, s.jobTitle, s.company)
		if err != nil {
			return err
		}
		if existing != nil {
			fmt.Fprintf(out, "Application %q at %q already exists. Skipping.\n", s.jobTitle, s.company)
			apps[s.jobTitle] = existing
			continue
		}
		date, err := db.ParseDate(s.dateApplied)
		if err != nil {
			return fmt.Errorf("sample application %q: %w", s.jobTitle, err)
		}
		app, err := store.CreateApplication(ctx, userID, db.ApplicationFields{
			JobTitle:        s.jobTitle,
			Company:         s.company,
			Status:          s.status,
			DateApplied:     date,
			ApplicationLink: s.link,
			JobDescription:  s.description,
			Notes:           s.notes,
		})
		if err != nil {
			return err
		}
		apps[s.jobTitle] = app
		created++
	}
	fmt.Fprintf(out, "Seeded %d applications.\n", created)

	entries, err := store.ListInterviewEntries(ctx, userID)
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, e := range entries {
		seen[entryKey(e.ApplicationID, e.InterviewName, e.Question)] = true
	}

	created = 0
	for _, s := range sampleEntries {
		entry := &db.InterviewEntry{
			UserID:        userID,
			QuestionType:  s.questionType,
			Question:      s.question,
			Response:      s.response,
			Type:          s.questionType,
			Notes:         s.notes,
			InterviewName: s.interviewName,
		}
		if s.jobTitle != "" {
			app := apps[s.jobTitle]
			if app == nil {
				fmt.Fprintf(out, "No application %q found. Skipping entry.\n", s.jobTitle)
				continue
			}
			entry.ApplicationID = &app.ID
			entry.Company = app.Company
			entry.JobTitle = app.JobTitle
		}
		if entry.InterviewName == "" && entry.ApplicationID == nil {
			entry.InterviewName = "Untitled"
		}
		if seen[entryKey(entry.ApplicationID, entry.InterviewName, entry.Question)] {
			fmt.Fprintf(out, "Entry %q already exists. Skipping.\n", s.question)
			continue
		}
		if entry.InterviewDate, err = db.ParseDate(s.date); err != nil {
			return fmt.Errorf("sample entry %q: %w", s.question, err)
		}
		if _, err := store.CreateInterviewEntry(ctx, entry); err != nil {
			return err
		}
		created++
	}
	fmt.Fprintf(out, "Seeded %d interview entries.\n", created)

	existing, err := store.GetResumeByTag(ctx, userID, sampleResumeTag)
	if err != nil {
		return err
	}
	if existing != nil {
		fmt.Fprintf(out, "Resume %q already exists. Skipping.\n", sampleResumeTag)
		return nil
	}
	if _, err := store.CreateResume(ctx, userID, sampleResumeTag, sampleResume); err != nil {
		return err
	}
	fmt.Fprintf(out, "Seeded resume %q.\n", sampleResumeTag)
	return nil
}

func entryKey(appID *uuid.UUID, interviewName, question string) string {
	if appID != nil {
		return appID.String() + "|" + question
	}
	return strings.ToLower(interviewName) + "|" + question
}
