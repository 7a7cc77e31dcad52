// Copyright 2025 The ephios team
// Licensed under the MIT license

package models

import "time"

// Origin values for working hours records.
const (
	// WorkingHoursOriginEvent marks hours derived from event participation.
	WorkingHoursOriginEvent = "event"
	// WorkingHoursOriginManual marks hours entered by hand or granted
	// through an approved request.
	WorkingHoursOriginManual = "manual"
)

// WorkingHours records time a volunteer contributed on a given date.
type WorkingHours struct { //nolint:govet // fieldalignment not critical for models
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Date       time.Time `db:"date" json:"date"`
	Reason     string    `db:"reason" json:"reason"`
	Hours      float64   `db:"hours" json:"hours"`
	Origin     string    `db:"origin" json:"origin"`
	EventTitle string    `db:"event_title" json:"event_title,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FromEvent reports whether this record was derived from event participation.
func (w *WorkingHours) FromEvent() bool {
	return w.Origin == WorkingHoursOriginEvent
}

// UserHoursSummary is a per-user aggregate used by the working hours
// overview.
type UserHoursSummary struct { //nolint:govet // fieldalignment not critical for models
	UserID      int64   `db:"user_id" json:"user_id"`
	DisplayName string  `db:"display_name" json:"display_name"`
	TotalHours  float64 `db:"total_hours" json:"total_hours"`
}
