// Package journal groups interview journal entries under the applications
// they belong to.
package journal

import (
	"context"
	"fmt"

	"github.com/devapply/devapply/internal/db"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Group is one application and its journal entries. The trailing group of
// unlinked entries has nil application fields.
type Group struct {
	ID       *uuid.UUID          `json:"id"`
	JobTitle *string             `json:"job_title"`
	Company  *string             `json:"company"`
	Status   *string             `json:"status"`
	Entries  []db.InterviewEntry `json:"entries"`
}

// Build assigns entries to applications in application order. Entries without
// an application form a final group; entries pointing at an unknown
// application are dropped. Stored interview names are never null, so
// entries always carry a name.
func Build(apps []db.Application, entries []db.InterviewEntry) []Group {
	byApp := make(map[uuid.UUID][]db.InterviewEntry, len(apps))
	var unlinked []db.InterviewEntry
	for _, e := range entries {
		if e.ApplicationID == nil {
			unlinked = append(unlinked, e)
			continue
		}
		byApp[*e.ApplicationID] = append(byApp[*e.ApplicationID], e)
	}

	groups := make([]Group, 0, len(apps)+1)
	for _, app := range apps {
		id, title, company, status := app.ID, app.JobTitle, app.Company, app.Status
		groups = append(groups, Group{
			ID:       &id,
			JobTitle: &title,
			Company:  &company,
			Status:   &status,
			Entries:  nonNil(byApp[app.ID]),
		})
	}
	if len(unlinked) > 0 {
		groups = append(groups, Group{Entries: unlinked})
	}
	return groups
}

func nonNil(entries []db.InterviewEntry) []db.InterviewEntry {
	if entries == nil {
		return []db.InterviewEntry{}
	}
	return entries
}

// Store lists the records a journal is built from.
type Store interface {
	ListApplications(ctx context.Context, userID uuid.UUID) ([]db.Application, error)
	ListInterviewEntries(ctx context.Context, userID uuid.UUID) ([]db.InterviewEntry, error)
}

// Load fetches the user's applications and entries concurrently and groups them.
func Load(ctx context.Context, store Store, userID uuid.UUID) ([]Group, error) {
	var (
		apps    []db.Application
		entries []db.InterviewEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		apps, err = store.ListApplications(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		entries, err = store.ListInterviewEntries(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load journal entries: %w", err)
	}
	return Build(apps, entries), nil
}
