// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package oauth manages registered OAuth2 client applications. The
// authorization flows themselves are served by an external provider; this
// package only owns the client registry.
package oauth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
)

// secretLength is the number of random bytes in a client secret.
const secretLength = 32

// Service manages OAuth2 application registrations.
type Service struct {
	repo *repository.Repository
}

// NewService creates an oauth service.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an application for the user and returns it together
// with the plaintext client secret. The secret is stored only as a SHA256
// hash and cannot be recovered later.
func (s *Service) Register(ctx context.Context, userID int64, name, redirectURIs string) (*models.OAuthApplication, string, error) {
	raw := make([]byte, secretLength)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("failed to generate client secret: %w", err)
	}
	secret := hex.EncodeToString(raw)

	app := &models.OAuthApplication{
		ClientID:         uuid.NewString(),
		ClientSecretHash: hashSecret(secret),
		Name:             name,
		RedirectURIs:     redirectURIs,
		UserID:           userID,
	}
	if err := s.repo.CreateOAuthApplication(ctx, app); err != nil {
		return nil, "", fmt.Errorf("failed to create application: %w", err)
	}

	slog.Info("oauth_application_registered", "application_id", app.ID, "user_id", userID)
	return app, secret, nil
}

// Update changes the name and redirect URIs of an application the user
// owns.
func (s *Service) Update(ctx context.Context, userID, appID int64, name, redirectURIs string) (*models.OAuthApplication, error) {
	app, err := s.repo.GetOAuthApplication(ctx, appID, userID)
	if err != nil {
		return nil, err
	}

	app.Name = name
	app.RedirectURIs = redirectURIs
	if err := s.repo.UpdateOAuthApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return app, nil
}

// Delete removes an application the user owns.
func (s *Service) Delete(ctx context.Context, userID, appID int64) error {
	if _, err := s.repo.GetOAuthApplication(ctx, appID, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteOAuthApplication(ctx, appID, userID); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	slog.Info("oauth_application_deleted", "application_id", appID, "user_id", userID)
	return nil
}

// VerifySecret checks a presented client secret against the stored hash in
// constant time.
func (s *Service) VerifySecret(app *models.OAuthApplication, secret string) bool {
	presented := hashSecret(secret)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(app.ClientSecretHash)) == 1
}

func hashSecret(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}
