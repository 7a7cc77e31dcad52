// Copyright 2025 The ephios team
// Licensed under the MIT license

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/testutil"
)

func TestQualificationCategories(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := testutil.NewTestCategory(t, repo, "Medical")

	got, err := repo.GetQualificationCategoryByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetQualificationCategoryByUUID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	cats, err := repo.ListQualificationCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestQualificationInclusions(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	cat := testutil.NewTestCategory(t, repo, "Medical")
	firstAid := testutil.NewTestQualification(t, repo, cat.ID, "First aid", "EH")
	rescueHelper := testutil.NewTestQualification(t, repo, cat.ID, "Rescue helper", "RH")
	paramedic := testutil.NewTestQualification(t, repo, cat.ID, "Paramedic", "RS")

	require.NoError(t, repo.SetQualificationInclusions(ctx, paramedic.ID, []int64{firstAid.ID, rescueHelper.ID}))

	got, err := repo.GetQualificationByID(ctx, paramedic.ID)
	require.NoError(t, err)
	require.Len(t, got.Included, 2)

	// Replacing the set drops old links
	require.NoError(t, repo.SetQualificationInclusions(ctx, paramedic.ID, []int64{firstAid.ID}))
	got, err = repo.GetQualificationByID(ctx, paramedic.ID)
	require.NoError(t, err)
	require.Len(t, got.Included, 1)
	assert.Equal(t, firstAid.ID, got.Included[0].ID)
}

func TestSetQualificationInclusions_SkipsSelf(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	cat := testutil.NewTestCategory(t, repo, "Medical")
	q := testutil.NewTestQualification(t, repo, cat.ID, "First aid", "EH")

	require.NoError(t, repo.SetQualificationInclusions(ctx, q.ID, []int64{q.ID}))

	got, err := repo.GetQualificationByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Included)
}

func TestDeleteQualification(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	cat := testutil.NewTestCategory(t, repo, "Medical")
	q := testutil.NewTestQualification(t, repo, cat.ID, "First aid", "EH")
	user := testutil.NewTestUser(t, repo, "anna@example.org")
	testutil.NewTestGrant(t, repo, user.ID, q.ID)

	require.NoError(t, repo.DeleteQualification(ctx, q.ID))

	_, err := repo.GetQualificationByID(ctx, q.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	grants, err := repo.GetGrantsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, grants)
}

func TestQualificationGrants(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	cat := testutil.NewTestCategory(t, repo, "Medical")
	q := testutil.NewTestQualification(t, repo, cat.ID, "First aid", "EH")
	user := testutil.NewTestUser(t, repo, "anna@example.org")

	grant := testutil.NewTestGrant(t, repo, user.ID, q.ID)
	assert.NotZero(t, grant.ID)

	exists, err := repo.GrantExists(ctx, user.ID, q.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// Granting the same qualification twice is rejected
	dup := &models.QualificationGrant{UserID: user.ID, QualificationID: q.ID}
	err = repo.CreateQualificationGrant(ctx, dup)
	assert.Error(t, err)
}

func TestUpdateQualificationGrantExpiry(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	cat := testutil.NewTestCategory(t, repo, "Medical")
	q := testutil.NewTestQualification(t, repo, cat.ID, "First aid", "EH")
	user := testutil.NewTestUser(t, repo, "anna@example.org")
	grant := testutil.NewTestGrant(t, repo, user.ID, q.ID)

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	grant.Expires = &expires
	require.NoError(t, repo.UpdateQualificationGrantExpiry(ctx, grant))

	grants, err := repo.GetGrantsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.NotNil(t, grants[0].Expires)
	assert.Equal(t, "2030-01-01", grants[0].Expires.Format("2006-01-02"))
}

func TestCountGrants(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	cat := testutil.NewTestCategory(t, repo, "Medical")
	q := testutil.NewTestQualification(t, repo, cat.ID, "First aid", "EH")
	anna := testutil.NewTestUser(t, repo, "anna@example.org")
	bert := testutil.NewTestUser(t, repo, "bert@example.org")
	testutil.NewTestGrant(t, repo, anna.ID, q.ID)
	testutil.NewTestGrant(t, repo, bert.ID, q.ID)

	count, err := repo.CountGrants(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
