// Copyright 2025 The ephios team
// Licensed under the MIT license

package repository

import (
	"context"

	"github.com/olewun/ephios/internal/models"
)

// CreateOAuthApplication inserts an application and fills in its generated
// fields.
func (r *Repository) CreateOAuthApplication(ctx context.Context, app *models.OAuthApplication) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO oauth_applications (client_id, client_secret_hash, name, redirect_uris, user_id)
		 VALUES (?, ?, ?, ?, ?)`,
		app.ClientID, app.ClientSecretHash, app.Name, app.RedirectURIs, app.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	app.ID = id
	return r.db.GetContext(ctx, app, `SELECT * FROM oauth_applications WHERE id = ?`, id)
}

// GetOAuthApplication retrieves an application owned by the given user.
// Applications of other users are reported as not found.
func (r *Repository) GetOAuthApplication(ctx context.Context, id, userID int64) (*models.OAuthApplication, error) {
	var app models.OAuthApplication
	err := r.db.GetContext(ctx, &app,
		`SELECT * FROM oauth_applications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &app, nil
}

// GetOAuthApplicationByClientID retrieves an application by its client_id.
func (r *Repository) GetOAuthApplicationByClientID(ctx context.Context, clientID string) (*models.OAuthApplication, error) {
	var app models.OAuthApplication
	err := r.db.GetContext(ctx, &app,
		`SELECT * FROM oauth_applications WHERE client_id = ?`, clientID)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &app, nil
}

// UpdateOAuthApplication updates name and redirect URIs.
func (r *Repository) UpdateOAuthApplication(ctx context.Context, app *models.OAuthApplication) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE oauth_applications SET name = ?, redirect_uris = ? WHERE id = ? AND user_id = ?`,
		app.Name, app.RedirectURIs, app.ID, app.UserID)
	return err
}

// DeleteOAuthApplication deletes an application owned by the given user.
func (r *Repository) DeleteOAuthApplication(ctx context.Context, id, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM oauth_applications WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

// ListOAuthApplicationsByUser returns a user's applications, newest first.
func (r *Repository) ListOAuthApplicationsByUser(ctx context.Context, userID int64) ([]models.OAuthApplication, error) {
	var apps []models.OAuthApplication
	err := r.db.SelectContext(ctx, &apps,
		`SELECT * FROM oauth_applications WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return apps, nil
}
