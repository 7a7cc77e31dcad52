// Copyright 2025 The ephios team
// Licensed under the MIT license

package models

import (
	"time"
)

// Consequence states.
const (
	ConsequenceNeedsConfirmation = "needs_confirmation"
	ConsequenceExecuted          = "executed"
	ConsequenceDenied            = "denied"
	ConsequenceFailed            = "failed"
)

// Consequence slugs identify the pending state change held in Data.
const (
	ConsequenceSlugWorkingHours = "working_hours"
)

// Consequence is a state change waiting for a manager's decision, e.g. a
// working hours request. Confirming executes the change; denying records
// who turned it down. When execution fails, the state moves to failed and
// FailReason explains why.
type Consequence struct { //nolint:govet // fieldalignment not critical for models
	ID   int64  `db:"id" json:"id"`
	Slug string `db:"slug" json:"slug"`
	// UserID identifies whom the change applies to, not who filed it.
	UserID int64  `db:"user_id" json:"user_id"`
	State  string `db:"state" json:"state"`
	// Data holds the slug-specific payload as a JSON document. It is kept
	// as a string so database/sql can scan the TEXT column directly.
	Data       string     `db:"data" json:"data"`
	FailReason string     `db:"fail_reason" json:"fail_reason,omitempty"`
	DecidedBy  *int64     `db:"decided_by" json:"decided_by,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	DecidedAt  *time.Time `db:"decided_at" json:"decided_at,omitempty"`
}

// Decided reports whether the consequence has already been acted on.
func (c *Consequence) Decided() bool {
	return c.State != ConsequenceNeedsConfirmation
}

// WorkingHoursData is the payload of a working_hours consequence.
type WorkingHoursData struct { //nolint:govet // fieldalignment not critical for models
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
	Hours  float64   `json:"hours"`
}
