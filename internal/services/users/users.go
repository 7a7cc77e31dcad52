// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package users implements profile administration: creating and editing
// user profiles together with their qualification grants.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/auth"
	"github.com/olewun/ephios/internal/services/email"
)

// ErrEmailTaken is returned when the email is already in use by another
// profile.
var ErrEmailTaken = errors.New("email already in use")

// GrantInput is one row of the qualification formset.
type GrantInput struct {
	QualificationID int64
	Expires         *time.Time
}

// Service implements user administration.
type Service struct {
	repo  *repository.Repository
	auth  *auth.Service
	email *email.Service
}

// NewService creates a users service.
func NewService(repo *repository.Repository, authSvc *auth.Service, emailSvc *email.Service) *Service {
	return &Service{repo: repo, auth: authSvc, email: emailSvc}
}

// Create inserts the profile with its grants and sends the set-password
// mail. The profile starts without a usable password. The mail is sent
// best-effort: a delivery failure does not roll back the creation, staff
// can trigger a new reset mail at any time.
func (s *Service) Create(ctx context.Context, user *models.UserProfile, grants []GrantInput) (*models.UserProfile, error) {
	exists, err := s.repo.UserExists(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.applyGrants(ctx, user.ID, grants); err != nil {
		return nil, err
	}

	token, err := s.auth.CreateResetToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create reset token: %w", err)
	}
	if err := s.email.SendPasswordReset(ctx, user.Email, token); err != nil {
		slog.Error("reset_mail_failed", "user_id", user.ID, "error", err)
	}

	slog.Info("user_created", "user_id", user.ID)
	return user, nil
}

// Update saves the profile and reconciles the grant formset: rows for new
// qualifications are created, changed expiry dates updated, and grants
// missing from the input deleted.
func (s *Service) Update(ctx context.Context, user *models.UserProfile, grants []GrantInput) error {
	other, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err == nil && other.ID != user.ID {
		return ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return s.applyGrants(ctx, user.ID, grants)
}

// applyGrants reconciles the stored grants of a user with the formset
// input. The last row wins when the input names a qualification twice.
func (s *Service) applyGrants(ctx context.Context, userID int64, grants []GrantInput) error {
	wanted := make(map[int64]GrantInput, len(grants))
	for _, g := range grants {
		wanted[g.QualificationID] = g
	}

	existing, err := s.repo.GetGrantsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load grants: %w", err)
	}

	for _, current := range existing {
		input, keep := wanted[current.QualificationID]
		if !keep {
			if err := s.repo.DeleteQualificationGrant(ctx, current.ID); err != nil {
				return fmt.Errorf("failed to delete grant: %w", err)
			}
			continue
		}
		if !equalExpiry(current.Expires, input.Expires) {
			current.Expires = input.Expires
			if err := s.repo.UpdateQualificationGrantExpiry(ctx, &current); err != nil {
				return fmt.Errorf("failed to update grant: %w", err)
			}
		}
		delete(wanted, current.QualificationID)
	}

	for qualificationID, input := range wanted {
		grant := &models.QualificationGrant{
			UserID:          userID,
			QualificationID: qualificationID,
			Expires:         input.Expires,
		}
		if err := s.repo.CreateQualificationGrant(ctx, grant); err != nil {
			return fmt.Errorf("failed to create grant: %w", err)
		}
	}

	return nil
}

func equalExpiry(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
