// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package appcontext provides typed context keys shared between middleware,
// handlers and templates.
package appcontext

import (
	"context"

	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/services/session"
)

// Context keys for storing values in context.Context.
type (
	// CSRFToken is the context key for the CSRF token.
	CSRFToken struct{}
	// User is the context key for the authenticated user.
	User struct{}
	// Flashes is the context key for pending flash messages.
	Flashes struct{}
)

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user *models.UserProfile) context.Context {
	return context.WithValue(ctx, User{}, user)
}

// GetUser returns the authenticated user, or nil if not logged in.
func GetUser(ctx context.Context) *models.UserProfile {
	if user, ok := ctx.Value(User{}).(*models.UserProfile); ok {
		return user
	}
	return nil
}

// IsAuthenticated returns true if a user is logged in.
func IsAuthenticated(ctx context.Context) bool {
	return GetUser(ctx) != nil
}

// IsStaff returns true if the logged-in user has staff rights.
func IsStaff(ctx context.Context) bool {
	user := GetUser(ctx)
	return user != nil && user.IsStaff
}

// GetCSRFToken returns the CSRF token from the context.
func GetCSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(CSRFToken{}).(string); ok {
		return token
	}
	return ""
}

// WithFlashes stores pending flash messages in the context.
func WithFlashes(ctx context.Context, flashes []session.Flash) context.Context {
	return context.WithValue(ctx, Flashes{}, flashes)
}

// GetFlashes returns the pending flash messages from the context.
func GetFlashes(ctx context.Context) []session.Flash {
	if flashes, ok := ctx.Value(Flashes{}).([]session.Flash); ok {
		return flashes
	}
	return nil
}
