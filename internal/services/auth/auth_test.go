// Copyright 2025 The ephios team
// Licensed under the MIT license

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/auth"
	"github.com/olewun/ephios/internal/testutil"
)

func setPassword(t *testing.T, repo *repository.Repository, userID int64, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateUserPassword(context.Background(), userID, string(hash)))
}

func TestLogin(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	setPassword(t, repo, user.ID, "correct horse battery staple")

	got, err := svc.Login(ctx, "anna@example.org", "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo)

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	setPassword(t, repo, user.ID, "correct horse battery staple")

	_, err := svc.Login(context.Background(), "anna@example.org", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo)

	_, err := svc.Login(context.Background(), "unknown@example.org", "whatever")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_NoUsablePassword(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo)

	// Freshly created users have no password until the reset mail is
	// acted on.
	testutil.NewTestUser(t, repo, "anna@example.org")

	_, err := svc.Login(context.Background(), "anna@example.org", "")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	setPassword(t, repo, user.ID, "correct horse battery staple")
	user.IsActive = false
	require.NoError(t, repo.UpdateUser(ctx, user))

	_, err := svc.Login(ctx, "anna@example.org", "correct horse battery staple")
	assert.ErrorIs(t, err, auth.ErrInactiveUser)
}

func TestResetPassword_Flow(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")

	token, err := svc.CreateResetToken(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = svc.ResetPassword(ctx, token, "correct horse battery staple")
	require.NoError(t, err)

	// The new password works
	_, err = svc.Login(ctx, "anna@example.org", "correct horse battery staple")
	require.NoError(t, err)

	// The token is consumed
	_, err = svc.ResetPassword(ctx, token, "another long password here")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo)

	_, err := svc.ResetPassword(context.Background(), "bogus", "correct horse battery staple")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestResetPassword_WeakPasswordRejected(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	token, err := svc.CreateResetToken(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.ResetPassword(ctx, token, "short")
	var verr *auth.PasswordValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Messages())

	// The token survives a failed validation
	_, err = svc.ResetPassword(ctx, token, "correct horse battery staple")
	require.NoError(t, err)
}

func TestCreateResetToken_InvalidatesOlder(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")

	first, err := svc.CreateResetToken(ctx, user.ID)
	require.NoError(t, err)
	second, err := svc.CreateResetToken(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.ResetPassword(ctx, first, "correct horse battery staple")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.ResetPassword(ctx, second, "correct horse battery staple")
	require.NoError(t, err)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, auth.HashToken("abc"), auth.HashToken("abc"))
	assert.NotEqual(t, auth.HashToken("abc"), auth.HashToken("abd"))
	assert.Len(t, auth.HashToken("abc"), 64)
}
