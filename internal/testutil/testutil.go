// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/olewun/ephios/internal/database"
	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates an active test user.
func NewTestUser(t *testing.T, repo *repository.Repository, email string) *models.UserProfile {
	t.Helper()
	user := &models.UserProfile{
		Email:       email,
		DisplayName: strings.SplitN(email, "@", 2)[0],
		IsActive:    true,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewTestCategory creates a qualification category.
func NewTestCategory(t *testing.T, repo *repository.Repository, title string) *models.QualificationCategory {
	t.Helper()
	cat := &models.QualificationCategory{UUID: uuid.NewString(), Title: title}
	require.NoError(t, repo.CreateQualificationCategory(context.Background(), cat))
	return cat
}

// NewTestQualification creates a qualification in the given category.
func NewTestQualification(t *testing.T, repo *repository.Repository, categoryID int64, title, abbreviation string) *models.Qualification {
	t.Helper()
	q := &models.Qualification{
		UUID:         uuid.NewString(),
		Title:        title,
		Abbreviation: abbreviation,
		CategoryID:   categoryID,
	}
	require.NoError(t, repo.CreateQualification(context.Background(), q))
	return q
}

// NewTestGrant grants a qualification to a user.
func NewTestGrant(t *testing.T, repo *repository.Repository, userID, qualificationID int64) *models.QualificationGrant {
	t.Helper()
	g := &models.QualificationGrant{UserID: userID, QualificationID: qualificationID}
	require.NoError(t, repo.CreateQualificationGrant(context.Background(), g))
	return g
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewEchoContextWithHeaders creates an Echo context with custom headers.
func NewEchoContextWithHeaders(e *echo.Echo, method, path string, body io.Reader, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
