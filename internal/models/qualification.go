// Copyright 2025 The ephios team
// Licensed under the MIT license

package models

import "time"

// QualificationCategory groups qualifications in the catalog, e.g.
// "Medical" or "Driver's licenses".
type QualificationCategory struct {
	ID    int64  `db:"id" json:"id"`
	UUID  string `db:"uuid" json:"uuid"`
	Title string `db:"title" json:"title"`
}

// Qualification is a credential a volunteer can hold. A qualification can
// include other qualifications: granting it implies the included ones are
// covered as well.
type Qualification struct { //nolint:govet // fieldalignment not critical for models
	ID           int64  `db:"id" json:"id"`
	UUID         string `db:"uuid" json:"uuid"`
	Title        string `db:"title" json:"title"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
	CategoryID   int64  `db:"category_id" json:"category_id"`

	// Included is not a column; it is loaded from qualification_inclusions.
	Included []Qualification `db:"-" json:"included,omitempty"`
}

// QualificationGrant connects a user profile to a qualification, optionally
// limited in time.
type QualificationGrant struct { //nolint:govet // fieldalignment not critical for models
	ID              int64      `db:"id" json:"id"`
	UserID          int64      `db:"user_id" json:"user_id"`
	QualificationID int64      `db:"qualification_id" json:"qualification_id"`
	Expires         *time.Time `db:"expires" json:"expires,omitempty"`
}

// IsActive reports whether the grant counts at the given time. A grant
// without expiry never runs out.
func (g *QualificationGrant) IsActive(at time.Time) bool {
	return g.Expires == nil || g.Expires.After(at)
}
