// Copyright 2025 The ephios team
// Licensed under the MIT license

package repository_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/testutil"
)

func newConsequence(t *testing.T, repo *repository.Repository, userID int64) *models.Consequence {
	t.Helper()
	data, err := json.Marshal(models.WorkingHoursData{Reason: "Duty", Hours: 4})
	require.NoError(t, err)
	c := &models.Consequence{
		Slug:   models.ConsequenceSlugWorkingHours,
		UserID: userID,
		Data:   string(data),
	}
	require.NoError(t, repo.CreateConsequence(context.Background(), c))
	return c
}

func TestCreateConsequence(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	c := newConsequence(t, repo, user.ID)

	assert.NotZero(t, c.ID)
	assert.Equal(t, models.ConsequenceNeedsConfirmation, c.State)

	// The JSON payload must survive the TEXT column round trip.
	got, err := repo.GetConsequenceByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"0001-01-01T00:00:00Z","reason":"Duty","hours":4}`, got.Data)
}

func TestListPendingConsequences(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "chef@example.org")
	first := newConsequence(t, repo, user.ID)
	second := newConsequence(t, repo, user.ID)

	ok, err := repo.TransitionConsequence(ctx, first.ID, models.ConsequenceDenied, "", staff.ID)
	require.NoError(t, err)
	require.True(t, ok)

	pending, err := repo.ListPendingConsequences(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestTransitionConsequence_GuardsDoubleDecision(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "chef@example.org")
	c := newConsequence(t, repo, user.ID)

	ok, err := repo.TransitionConsequence(ctx, c.ID, models.ConsequenceExecuted, "", staff.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second decision must not stick
	ok, err = repo.TransitionConsequence(ctx, c.ID, models.ConsequenceDenied, "", staff.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetConsequenceByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsequenceExecuted, got.State)
	require.NotNil(t, got.DecidedBy)
	assert.Equal(t, staff.ID, *got.DecidedBy)
	assert.NotNil(t, got.DecidedAt)
}

func TestTransitionConsequence_RecordsFailReason(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "chef@example.org")
	c := newConsequence(t, repo, user.ID)

	ok, err := repo.TransitionConsequence(ctx, c.ID, models.ConsequenceFailed, "hours must be positive", staff.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetConsequenceByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsequenceFailed, got.State)
	assert.Equal(t, "hours must be positive", got.FailReason)
}

func TestMarkConsequenceFailed(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "chef@example.org")
	c := newConsequence(t, repo, user.ID)

	ok, err := repo.TransitionConsequence(ctx, c.ID, models.ConsequenceExecuted, "", staff.ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.MarkConsequenceFailed(ctx, c.ID, "insert failed"))

	got, err := repo.GetConsequenceByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsequenceFailed, got.State)
	assert.Equal(t, "insert failed", got.FailReason)
	require.NotNil(t, got.DecidedBy)
	assert.Equal(t, staff.ID, *got.DecidedBy)
}

func TestListConsequencesByUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	anna := testutil.NewTestUser(t, repo, "anna@example.org")
	bert := testutil.NewTestUser(t, repo, "bert@example.org")
	newConsequence(t, repo, anna.ID)
	newConsequence(t, repo, bert.ID)

	items, err := repo.ListConsequencesByUser(ctx, anna.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
