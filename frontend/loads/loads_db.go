package loads

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"dispatchboard/infrastructure/audit"
	"dispatchboard/infrastructure/sqlite"
	"dispatchboard/models"
)

// LoadByID reads a single load with its driver assignments.
func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.Load, error) {
	var load models.Load
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&load).
			Relation("Assignments").
			Relation("Assignments.Driver").
			Where("l.id = ?", id).
			Limit(1).
			Scan(ctx)
	})
	return load, err
}

// ListByTable reads the loads shown in one table tab, newest first.
func ListByTable(ctx context.Context, db *sqlite.DB, table TableConfig) ([]models.Load, error) {
	list := make([]models.Load, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&list).
			Relation("Assignments").
			Relation("Assignments.Driver").
			Where("l.status IN (?)", bun.In(table.Statuses)).
			Order("l.created_at DESC", "l.id DESC").
			Scan(ctx)
	})
	return list, err
}

type statusSnapshot struct {
	Status string `json:"Status"`
}

// UpdateStatus moves a load to a new status and audits the transition.
func UpdateStatus(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, id int64, status string) error {
	valid := false
	for _, s := range []string{
		models.StatusNew, models.StatusAssigned, models.StatusAccepted, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled, models.StatusRefused, models.StatusOtherArchived,
	} {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid load status %q", status)
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.Load
		if err := tx.NewSelect().Model(&before).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.NewUpdate().Model((*models.Load)(nil)).
			Set("status = ?", status).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, actor, "load.status_update", "loads", strconv.FormatInt(id, 10),
			statusSnapshot{Status: before.Status}, statusSnapshot{Status: status})
	})
}

// AddComment records a dispatcher comment against a load.
func AddComment(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, id int64, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Errorf("comment body is required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		comment := &models.LoadComment{LoadID: id, Author: actor, Body: body}
		if _, err := tx.NewInsert().Model(comment).Exec(ctx); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, actor, "load.comment_create", "load_comments",
			strconv.FormatInt(comment.ID, 10), nil, comment)
	})
}

// ListComments reads comments for a load, newest first.
func ListComments(ctx context.Context, db *sqlite.DB, id int64) ([]CommentEntry, error) {
	entries := make([]CommentEntry, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT author, body, COALESCE(strftime('%m/%d/%Y %H:%M', created_at), '') AS created_at_fmt
FROM load_comments
WHERE load_id = ?
ORDER BY created_at DESC, id DESC`, id).Scan(ctx, &entries)
	})
	return entries, err
}

// PrimaryDriverName returns the primary assignment's driver name, or the
// first assignment when none is flagged primary.
func PrimaryDriverName(load models.Load) string {
	var first string
	for _, a := range load.Assignments {
		if first == "" {
			first = a.Driver.Name
		}
		if a.IsPrimary {
			return a.Driver.Name
		}
	}
	return first
}
