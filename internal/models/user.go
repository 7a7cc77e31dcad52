// Copyright 2025 The ephios team
// Licensed under the MIT license

package models

import "time"

// UserProfile is an account in the volunteer directory. New accounts start
// without a password; the owner sets one through the reset-token mail sent
// on creation.
type UserProfile struct { //nolint:govet // fieldalignment not critical for models
	ID           int64      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	DisplayName  string     `db:"display_name" json:"display_name"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Phone        string     `db:"phone" json:"phone"`
	PasswordHash string     `db:"password_hash" json:"-"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	IsStaff      bool       `db:"is_staff" json:"is_staff"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// HasUsablePassword reports whether the user has completed the initial
// password setup.
func (u *UserProfile) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// PasswordResetToken stores a hashed token for the set/reset password flow.
type PasswordResetToken struct { //nolint:govet // fieldalignment not critical for models
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	TokenHash string    `db:"token_hash" json:"-"` // SHA256 hash
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
