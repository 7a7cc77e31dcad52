// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package consequences implements the pending-change workflow: requests
// are filed as consequences, managers confirm or deny them, and confirming
// executes the recorded change.
package consequences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olewun/ephios/internal/metrics"
	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
)

var (
	// ErrAlreadyDecided is returned when acting on a consequence that has
	// already been confirmed or denied.
	ErrAlreadyDecided = errors.New("consequence already decided")
	// ErrExecutionFailed is returned when confirming succeeded as a
	// decision but executing the change did not. The consequence is in
	// state failed with its fail_reason set.
	ErrExecutionFailed = errors.New("consequence execution failed")
	// ErrInvalidRequest is returned for requests that fail validation.
	ErrInvalidRequest = errors.New("invalid consequence request")
)

// Service drives the consequence lifecycle.
type Service struct {
	repo *repository.Repository
}

// NewService creates a consequence service.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// RequestWorkingHours files a working hours request for the user. The
// hours are not recorded until a manager confirms.
func (s *Service) RequestWorkingHours(ctx context.Context, userID int64, data models.WorkingHoursData) (*models.Consequence, error) {
	if data.Hours <= 0 {
		return nil, fmt.Errorf("%w: hours must be positive", ErrInvalidRequest)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	c := &models.Consequence{
		Slug:   models.ConsequenceSlugWorkingHours,
		UserID: userID,
		Data:   string(payload),
	}
	if err := s.repo.CreateConsequence(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create consequence: %w", err)
	}

	slog.Info("working_hours_requested", "user_id", userID, "consequence_id", c.ID)
	return c, nil
}

// Confirm executes the consequence. On execution failure the state moves
// to failed with the reason recorded, and ErrExecutionFailed is returned
// alongside the updated record.
func (s *Service) Confirm(ctx context.Context, id, decidedBy int64) (*models.Consequence, error) {
	c, err := s.repo.GetConsequenceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Claim the decision before executing. Concurrent confirms race on the
	// guarded transition, so only the winner ever runs execute.
	ok, err := s.repo.TransitionConsequence(ctx, id, models.ConsequenceExecuted, "", decidedBy)
	if err != nil {
		return nil, err
	}
	if !ok {
		return c, ErrAlreadyDecided
	}

	if execErr := s.execute(ctx, c); execErr != nil {
		if err := s.repo.MarkConsequenceFailed(ctx, id, execErr.Error()); err != nil {
			return nil, err
		}
		metrics.ConsequencesDecidedTotal.WithLabelValues(c.Slug, "failed").Inc()
		slog.Error("consequence_failed", "consequence_id", id, "reason", execErr)
		updated, err := s.repo.GetConsequenceByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return updated, ErrExecutionFailed
	}

	metrics.ConsequencesDecidedTotal.WithLabelValues(c.Slug, "executed").Inc()
	slog.Info("consequence_executed", "consequence_id", id, "decided_by", decidedBy)
	return s.repo.GetConsequenceByID(ctx, id)
}

// Deny turns the consequence down without executing it.
func (s *Service) Deny(ctx context.Context, id, decidedBy int64) (*models.Consequence, error) {
	c, err := s.repo.GetConsequenceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Decided() {
		return c, ErrAlreadyDecided
	}

	ok, err := s.repo.TransitionConsequence(ctx, id, models.ConsequenceDenied, "", decidedBy)
	if err != nil {
		return nil, err
	}
	if !ok {
		return c, ErrAlreadyDecided
	}
	metrics.ConsequencesDecidedTotal.WithLabelValues(c.Slug, "denied").Inc()
	slog.Info("consequence_denied", "consequence_id", id, "decided_by", decidedBy)
	return s.repo.GetConsequenceByID(ctx, id)
}

// execute applies the state change a consequence stands for.
func (s *Service) execute(ctx context.Context, c *models.Consequence) error {
	switch c.Slug {
	case models.ConsequenceSlugWorkingHours:
		var data models.WorkingHoursData
		if err := json.Unmarshal([]byte(c.Data), &data); err != nil {
			return fmt.Errorf("invalid working hours data: %w", err)
		}
		if data.Hours <= 0 {
			return fmt.Errorf("hours must be positive")
		}
		wh := &models.WorkingHours{
			UserID: c.UserID,
			Date:   data.Date,
			Reason: data.Reason,
			Hours:  data.Hours,
			Origin: models.WorkingHoursOriginManual,
		}
		if err := s.repo.CreateWorkingHours(ctx, wh); err != nil {
			return err
		}
		metrics.WorkingHoursRecordedTotal.WithLabelValues(wh.Origin).Add(wh.Hours)
		return nil
	default:
		return fmt.Errorf("unknown consequence slug %q", c.Slug)
	}
}
