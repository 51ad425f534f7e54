// Package dashboard aggregates a user's applications, resumes and interview
// journal into the numbers shown on the dashboard.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/devapply/devapply/internal/db"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Chart colors.
const (
	colorApplied            = "#60A5FA"
	colorInterviewScheduled = "#A855F7"
	colorInterviewCompleted = "#818CF8"
	colorOffer              = "#34D399"
	colorRejection          = "#c86024ff"
	colorOther              = "#6B7280"
)

// Interview question types charted on the dashboard.
var interviewTypes = []string{"Coding", "System Design", "Behavioral"}

// ChartBucket is one slice of a dashboard chart.
type ChartBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Activity is a recent application event.
type Activity struct {
	Text string `json:"text"`
	Time string `json:"time"`
	Date string `json:"date"`
	Type string `json:"type"`
}

// Event is an upcoming scheduled interview.
type Event struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

// ResumePerformance summarizes resume usage.
type ResumePerformance struct {
	ResumeVersions     int      `json:"resume_versions"`
	ResumeTags         []string `json:"resume_tags"`
	InterviewRate      string   `json:"interview_rate"`
	LinkedApplications int      `json:"linked_applications"`
}

// Stats is the dashboard payload.
type Stats struct {
	TotalApplications   int               `json:"total_applications"`
	InterviewsCompleted int               `json:"interviews_completed"`
	SuccessRate         float64           `json:"success_rate"`
	ApplicationData     []ChartBucket     `json:"application_data"`
	InterviewData       []ChartBucket     `json:"interview_data"`
	RecentActivities    []Activity        `json:"recent_activities"`
	UpcomingEvents      []Event           `json:"upcoming_events"`
	ResumePerformance   ResumePerformance `json:"resume_performance"`
}

// Compute derives dashboard statistics. now anchors relative times.
func Compute(apps []db.Application, resumes []db.Resume, entries []db.InterviewEntry, now time.Time) Stats {
	total := len(apps)

	statusCounts := map[string]int{}
	interviews, linked := 0, 0
	for _, app := range apps {
		status := strings.ToLower(strings.TrimSpace(app.Status))
		if status == "" {
			status = "unknown"
		}
		statusCounts[status]++
		if isInterviewStatus(status) {
			interviews++
		}
		if strings.TrimSpace(app.ResumeTag) != "" {
			linked++
		}
	}

	offers := firstNonZero(statusCounts["offer"], statusCounts["accepted"])

	return Stats{
		TotalApplications:   total,
		InterviewsCompleted: interviews,
		SuccessRate:         round2(percent(offers, total)),
		ApplicationData: []ChartBucket{
			{Name: "Applied", Value: statusCounts["applied"], Color: colorApplied},
			{Name: "Interview Scheduled", Value: statusCounts["interview scheduled"], Color: colorInterviewScheduled},
			{Name: "Interview Completed", Value: statusCounts["interview completed"], Color: colorInterviewCompleted},
			{Name: "Offer", Value: offers, Color: colorOffer},
			{Name: "Rejection", Value: firstNonZero(statusCounts["rejected"], statusCounts["rejection"]), Color: colorRejection},
		},
		InterviewData:    interviewData(entries),
		RecentActivities: recentActivities(apps, now),
		UpcomingEvents:   upcomingEvents(apps),
		ResumePerformance: ResumePerformance{
			ResumeVersions:     len(uniqueTags(resumes)),
			ResumeTags:         uniqueTags(resumes),
			InterviewRate:      fmt.Sprintf("%g%%", round2(percent(interviews, total))),
			LinkedApplications: linked,
		},
	}
}

func isInterviewStatus(status string) bool {
	return status == "interview scheduled" || status == "interview completed"
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func interviewTypeColor(t string) string {
	switch t {
	case "Coding":
		return colorApplied
	case "System Design":
		return colorInterviewCompleted
	case "Behavioral":
		return colorOffer
	default:
		return colorOther
	}
}

// interviewData counts journal entries by question type, falling back to type.
func interviewData(entries []db.InterviewEntry) []ChartBucket {
	counts := map[string]int{}
	for _, e := range entries {
		t := e.QuestionType
		if t == "" {
			t = e.Type
		}
		if t == "" {
			t = "Other"
		}
		counts[t]++
	}
	out := make([]ChartBucket, 0, len(interviewTypes))
	for _, t := range interviewTypes {
		out = append(out, ChartBucket{Name: t, Value: counts[t], Color: interviewTypeColor(t)})
	}
	return out
}

func recentActivities(apps []db.Application, now time.Time) []Activity {
	sorted := make([]db.Application, len(apps))
	copy(sorted, apps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return activityTime(sorted[i]).After(activityTime(sorted[j]))
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}

	out := make([]Activity, 0, len(sorted))
	for _, app := range sorted {
		at := activityTime(app)
		a := Activity{Text: "Applied to " + app.Company, Type: "applied"}
		if at.IsZero() {
			a.Date = "Date not set"
		} else {
			a.Time = TimeAgo(at, now)
			a.Date = at.Format("2006-01-02 15:04")
		}
		out = append(out, a)
	}
	return out
}

func activityTime(app db.Application) time.Time {
	if !app.CreatedAt.IsZero() {
		return app.CreatedAt
	}
	if app.DateApplied != nil {
		return app.DateApplied.Time
	}
	return time.Time{}
}

// upcomingEvents lists applications with an interview scheduled. Only the
// calendar date is stored, so the time is never known.
func upcomingEvents(apps []db.Application) []Event {
	out := []Event{}
	for _, app := range apps {
		if strings.ToLower(strings.TrimSpace(app.Status)) != "interview scheduled" {
			continue
		}
		date := app.DateApplied.String()
		if date == "" {
			date = "Date not set"
		}
		out = append(out, Event{
			Title: "Interview with " + app.Company,
			Date:  date,
			Time:  "Time not set",
			Type:  app.Status,
			Color: "blue",
		})
	}
	return out
}

func uniqueTags(resumes []db.Resume) []string {
	seen := map[string]bool{}
	tags := []string{}
	for _, r := range resumes {
		tag := r.Tag
		if tag == "" {
			tag = "Untitled"
		}
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// TimeAgo renders the whole days between t and now as Today, Yesterday,
// days, weeks or months ago.
func TimeAgo(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return fmt.Sprintf("%d months ago", days/30)
	}
}

// Store lists the records the dashboard aggregates.
type Store interface {
	ListApplications(ctx context.Context, userID uuid.UUID) ([]db.Application, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
	ListInterviewEntries(ctx context.Context, userID uuid.UUID) ([]db.InterviewEntry, error)
}

// Load fetches the user's records concurrently and computes their stats.
func Load(ctx context.Context, store Store, userID uuid.UUID, now time.Time) (*Stats, error) {
	var (
		apps    []db.Application
		resumes []db.Resume
		entries []db.InterviewEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		apps, err = store.ListApplications(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		resumes, err = store.ListResumes(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		entries, err = store.ListInterviewEntries(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard data: %w", err)
	}

	stats := Compute(apps, resumes, entries, now)
	return &stats, nil
}
