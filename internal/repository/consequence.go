// Copyright 2025 The ephios team
// Licensed under the MIT license

package repository

import (
	"context"
	"time"

	"github.com/olewun/ephios/internal/models"
)

// CreateConsequence inserts a pending consequence and fills in its
// generated fields.
func (r *Repository) CreateConsequence(ctx context.Context, c *models.Consequence) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO consequences (slug, user_id, state, data) VALUES (?, ?, ?, ?)`,
		c.Slug, c.UserID, models.ConsequenceNeedsConfirmation, c.Data)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return r.db.GetContext(ctx, c, `SELECT * FROM consequences WHERE id = ?`, id)
}

// GetConsequenceByID retrieves a consequence.
func (r *Repository) GetConsequenceByID(ctx context.Context, id int64) (*models.Consequence, error) {
	var c models.Consequence
	if err := r.db.GetContext(ctx, &c, `SELECT * FROM consequences WHERE id = ?`, id); err != nil {
		return nil, wrapErr(err)
	}
	return &c, nil
}

// ListPendingConsequences returns all consequences awaiting a decision,
// oldest first.
func (r *Repository) ListPendingConsequences(ctx context.Context) ([]models.Consequence, error) {
	var cs []models.Consequence
	err := r.db.SelectContext(ctx, &cs,
		`SELECT * FROM consequences WHERE state = ? ORDER BY created_at, id`,
		models.ConsequenceNeedsConfirmation)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// ListConsequencesByUser returns all consequences filed by a user, newest
// first.
func (r *Repository) ListConsequencesByUser(ctx context.Context, userID int64) ([]models.Consequence, error) {
	var cs []models.Consequence
	err := r.db.SelectContext(ctx, &cs,
		`SELECT * FROM consequences WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// TransitionConsequence moves a consequence out of needs_confirmation. The
// WHERE clause guards against double decisions: the update only succeeds
// while the consequence is still pending.
func (r *Repository) TransitionConsequence(ctx context.Context, id int64, state, failReason string, decidedBy int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE consequences
		 SET state = ?, fail_reason = ?, decided_by = ?, decided_at = ?
		 WHERE id = ? AND state = ?`,
		state, failReason, decidedBy, time.Now(), id, models.ConsequenceNeedsConfirmation)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// MarkConsequenceFailed moves an already claimed consequence to failed and
// records why. Decider and decision time from the claim are kept.
func (r *Repository) MarkConsequenceFailed(ctx context.Context, id int64, failReason string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE consequences SET state = ?, fail_reason = ? WHERE id = ?`,
		models.ConsequenceFailed, failReason, id)
	return err
}
