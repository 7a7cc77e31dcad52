// Copyright 2025 The ephios team
// Licensed under the MIT license

package repository

import (
	"context"
	"time"

	"github.com/olewun/ephios/internal/models"
)

// CreateWorkingHours inserts a working hours record and fills in its
// generated fields.
func (r *Repository) CreateWorkingHours(ctx context.Context, wh *models.WorkingHours) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO working_hours (user_id, date, reason, hours, origin, event_title)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		wh.UserID, wh.Date, wh.Reason, wh.Hours, wh.Origin, wh.EventTitle)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	wh.ID = id
	return r.db.GetContext(ctx, wh, `SELECT * FROM working_hours WHERE id = ?`, id)
}

// GetWorkingHoursByID retrieves a single record.
func (r *Repository) GetWorkingHoursByID(ctx context.Context, id int64) (*models.WorkingHours, error) {
	var wh models.WorkingHours
	if err := r.db.GetContext(ctx, &wh, `SELECT * FROM working_hours WHERE id = ?`, id); err != nil {
		return nil, wrapErr(err)
	}
	return &wh, nil
}

// UpdateWorkingHours updates date, reason and hours of a manual record.
func (r *Repository) UpdateWorkingHours(ctx context.Context, wh *models.WorkingHours) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE working_hours SET date = ?, reason = ?, hours = ? WHERE id = ?`,
		wh.Date, wh.Reason, wh.Hours, wh.ID)
	return err
}

// DeleteWorkingHours removes a record. Deleting an already-deleted record
// is a no-op, so retries of the same action stay idempotent.
func (r *Repository) DeleteWorkingHours(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM working_hours WHERE id = ?`, id)
	return err
}

// ListWorkingHoursByUser returns a user's records, newest date first.
func (r *Repository) ListWorkingHoursByUser(ctx context.Context, userID int64) ([]models.WorkingHours, error) {
	var items []models.WorkingHours
	err := r.db.SelectContext(ctx, &items,
		`SELECT * FROM working_hours WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SummarizeWorkingHours aggregates total hours per user within the date
// range, users with the most hours first. Users without any records in the
// range are not listed.
func (r *Repository) SummarizeWorkingHours(ctx context.Context, from, to time.Time) ([]models.UserHoursSummary, error) {
	var summaries []models.UserHoursSummary
	err := r.db.SelectContext(ctx, &summaries,
		`SELECT w.user_id, u.display_name, SUM(w.hours) AS total_hours
		 FROM working_hours w
		 JOIN users u ON u.id = w.user_id
		 WHERE w.date >= ? AND w.date <= ?
		 GROUP BY w.user_id, u.display_name
		 ORDER BY total_hours DESC, u.display_name`, from, to)
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
