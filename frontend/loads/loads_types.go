package loads

import (
	"context"

	"dispatchboard/infrastructure/sqlite"
	"dispatchboard/models"
)

// TableConfig parameterizes the loads table so the active board and the
// archive share one implementation instead of two near-identical copies.
type TableConfig struct {
	Tab      string
	Title    string
	Statuses []string
}

// RowExpandable reports whether a collapsed row in this table may expand.
// An already-expanded row may always be collapsed regardless of this.
func (c TableConfig) RowExpandable(load models.Load) bool {
	return c.Tab == TabActive && models.IsActiveStatus(load.Status)
}

const (
	TabActive  = "active"
	TabArchive = "archive"
)

var (
	// ActiveTable shows dispatchable loads with the document viewer.
	ActiveTable = TableConfig{
		Tab:      TabActive,
		Title:    "Active Loads",
		Statuses: models.ActiveStatuses,
	}

	// ArchiveTable shows terminal loads, read-only.
	ArchiveTable = TableConfig{
		Tab:      TabArchive,
		Title:    "Archived Loads",
		Statuses: []string{models.StatusCompleted, models.StatusCancelled, models.StatusRefused, models.StatusOtherArchived},
	}
)

// TableForTab resolves a tab query parameter to its configuration.
func TableForTab(tab string) TableConfig {
	if tab == TabArchive {
		return ArchiveTable
	}
	return ActiveTable
}

// PageData feeds the loads page view.
type PageData struct {
	Table    TableConfig
	Loads    []models.Load
	Expanded map[int64]bool
	Status   string
}

// CommentEntry is one dispatcher comment shown in the row panel.
type CommentEntry struct {
	Author    string `bun:"author"`
	Body      string `bun:"body"`
	CreatedAt string `bun:"created_at_fmt"`
}

// Source adapts the loads store to the document viewer's LoadSource.
type Source struct {
	DB *sqlite.DB
}

func (s Source) LoadByID(ctx context.Context, id int64) (models.Load, error) {
	return LoadByID(ctx, s.DB, id)
}
