// Copyright 2025 The ephios team
// Licensed under the MIT license

package models

import "time"

// OAuthApplication is a third-party client registered by a user. Only the
// SHA256 hash of the client secret is stored; the plaintext is shown exactly
// once at registration time.
type OAuthApplication struct { //nolint:govet // fieldalignment not critical for models
	ID               int64     `db:"id" json:"id"`
	ClientID         string    `db:"client_id" json:"client_id"`
	ClientSecretHash string    `db:"client_secret_hash" json:"-"`
	Name             string    `db:"name" json:"name"`
	RedirectURIs     string    `db:"redirect_uris" json:"redirect_uris"`
	UserID           int64     `db:"user_id" json:"user_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
