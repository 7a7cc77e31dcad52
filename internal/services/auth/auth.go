// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package auth implements password login and the set/reset password flow.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const (
	// resetTokenLength is the number of random bytes in a reset token.
	resetTokenLength = 32
	// resetTokenExpiry is how long reset tokens stay valid.
	resetTokenExpiry = 24 * time.Hour
)

// dummyHash is used for constant-time login to prevent timing attacks.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Service implements login and password management on top of the
// repository.
type Service struct {
	repo              *repository.Repository
	passwordValidator *PasswordValidator
}

// NewService creates a new auth service.
func NewService(repo *repository.Repository) *Service {
	return &Service{
		repo:              repo,
		passwordValidator: DefaultPasswordValidator(),
	}
}

// PasswordValidator returns the password validator for use in handlers.
func (s *Service) PasswordValidator() *PasswordValidator {
	return s.passwordValidator
}

// Login authenticates a user by email and password. Accounts without a
// usable password (reset mail not yet acted on) cannot log in.
func (s *Service) Login(ctx context.Context, email, password string) (*models.UserProfile, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform a bcrypt comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasUsablePassword() {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		slog.Warn("login_failed", "email", email, "reason", "no_usable_password")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		slog.Warn("login_failed", "email", email, "reason", "inactive")
		return nil, ErrInactiveUser
	}

	slog.Info("login_success", "user_id", user.ID)
	return user, nil
}

// CreateResetToken generates a password reset token for the user, stores
// its hash and returns the plaintext for the mail. Earlier tokens of the
// same user are invalidated.
func (s *Service) CreateResetToken(ctx context.Context, userID int64) (string, error) {
	raw := make([]byte, resetTokenLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	plaintext := hex.EncodeToString(raw)

	if err := s.repo.DeleteUserPasswordResetTokens(ctx, userID); err != nil {
		return "", fmt.Errorf("failed to clear old tokens: %w", err)
	}
	if err := s.repo.CreatePasswordResetToken(ctx, userID, HashToken(plaintext), time.Now().Add(resetTokenExpiry)); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return plaintext, nil
}

// ResetPassword validates the token, checks the new password and stores its
// hash. The token and its siblings are consumed on success.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (*models.UserProfile, error) {
	record, err := s.repo.GetPasswordResetToken(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, record.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	validation := s.passwordValidator.Validate(newPassword, user.Email, user.DisplayName)
	if !validation.Valid {
		return nil, &PasswordValidationError{Errors: validation.Errors}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdateUserPassword(ctx, user.ID, string(hash)); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.repo.DeleteUserPasswordResetTokens(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}

	slog.Info("password_reset", "user_id", user.ID)
	return user, nil
}

// HashToken computes the SHA256 hash of a token for storage and lookup.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
