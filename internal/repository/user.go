// Copyright 2025 The ephios team
// Licensed under the MIT license

package repository

import (
	"context"
	"time"

	"github.com/olewun/ephios/internal/models"
)

// CreateUser inserts a new user profile and fills in its generated fields.
func (r *Repository) CreateUser(ctx context.Context, user *models.UserProfile) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, display_name, date_of_birth, phone, password_hash, is_active, is_staff)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Email, user.DisplayName, user.DateOfBirth, user.Phone,
		user.PasswordHash, user.IsActive, user.IsStaff)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return r.db.GetContext(ctx, user, `SELECT * FROM users WHERE id = ?`, id)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

// UpdateUser updates the editable profile fields.
func (r *Repository) UpdateUser(ctx context.Context, user *models.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET email = ?, display_name = ?, date_of_birth = ?, phone = ?,
		     is_active = ?, is_staff = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		user.Email, user.DisplayName, user.DateOfBirth, user.Phone,
		user.IsActive, user.IsStaff, user.ID)
	return err
}

// UpdateUserPassword sets a new password hash.
func (r *Repository) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, id)
	return err
}

// DeleteUser deletes a user by ID. Grants, applications, working hours and
// pending consequences go with it via ON DELETE CASCADE.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

// ListUsers returns all users ordered by display name.
func (r *Repository) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	var users []models.UserProfile
	if err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY display_name, id`); err != nil {
		return nil, err
	}
	return users, nil
}

// UserExists checks if a user with the given email exists.
func (r *Repository) UserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email)
	return exists, err
}

// CreatePasswordResetToken stores a new reset token for a user.
func (r *Repository) CreatePasswordResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
		userID, tokenHash, expiresAt)
	return err
}

// GetPasswordResetToken retrieves a reset token by hash.
func (r *Repository) GetPasswordResetToken(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := r.db.GetContext(ctx, &token, `SELECT * FROM password_reset_tokens WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &token, nil
}

// DeleteUserPasswordResetTokens deletes all reset tokens for a user.
func (r *Repository) DeleteUserPasswordResetTokens(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredPasswordResetTokens removes tokens past their expiry.
func (r *Repository) DeleteExpiredPasswordResetTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < ?`, time.Now())
	return err
}
