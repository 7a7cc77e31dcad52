// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package templates renders the HTML pages. Components are small templ
// components assembled in Go; handlers render them through
// handlers.Render.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/olewun/ephios/internal/appcontext"
	"github.com/olewun/ephios/internal/i18n"
	"github.com/olewun/ephios/internal/models"
)

// T translates a message by ID.
func T(ctx context.Context, messageID string) string {
	return i18n.T(ctx, messageID)
}

// Locale returns the current locale.
func Locale(ctx context.Context) string {
	return i18n.GetLocale(ctx)
}

// CSRFToken returns the CSRF token from the context.
func CSRFToken(ctx context.Context) string {
	return appcontext.GetCSRFToken(ctx)
}

// GetUser returns the authenticated user from context, or nil.
func GetUser(ctx context.Context) *models.UserProfile {
	return appcontext.GetUser(ctx)
}

// esc HTML-escapes a string for element content and attribute values.
func esc(s string) string {
	return templ.EscapeString(s)
}

// csrfField writes the hidden CSRF input every POST form carries.
func csrfField(ctx context.Context, w io.Writer) {
	fmt.Fprintf(w, `<input type="hidden" name="csrf_token" value="%s">`, esc(CSRFToken(ctx)))
}
