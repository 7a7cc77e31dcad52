// Copyright 2025 The ephios team
// Licensed under the MIT license

package consequences_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/services/consequences"
	"github.com/olewun/ephios/internal/testutil"
)

func requestHours(hours float64) models.WorkingHoursData {
	return models.WorkingHoursData{
		Date:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Reason: "Equipment maintenance",
		Hours:  hours,
	}
}

func TestRequestWorkingHours(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := consequences.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")

	c, err := svc.RequestWorkingHours(ctx, user.ID, requestHours(4))
	require.NoError(t, err)
	assert.Equal(t, models.ConsequenceNeedsConfirmation, c.State)
	assert.Equal(t, models.ConsequenceSlugWorkingHours, c.Slug)

	// Nothing recorded until confirmation
	items, err := repo.ListWorkingHoursByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRequestWorkingHours_RejectsNonPositive(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := consequences.NewService(repo)

	user := testutil.NewTestUser(t, repo, "anna@example.org")

	_, err := svc.RequestWorkingHours(context.Background(), user.ID, requestHours(0))
	assert.ErrorIs(t, err, consequences.ErrInvalidRequest)
}

func TestConfirm_RecordsHours(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := consequences.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "chef@example.org")

	c, err := svc.RequestWorkingHours(ctx, user.ID, requestHours(4))
	require.NoError(t, err)

	decided, err := svc.Confirm(ctx, c.ID, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsequenceExecuted, decided.State)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, staff.ID, *decided.DecidedBy)

	items, err := repo.ListWorkingHoursByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4.0, items[0].Hours)
	assert.Equal(t, models.WorkingHoursOriginManual, items[0].Origin)
	assert.Equal(t, "Equipment maintenance", items[0].Reason)
}

func TestDeny_RecordsNothing(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := consequences.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "chef@example.org")

	c, err := svc.RequestWorkingHours(ctx, user.ID, requestHours(4))
	require.NoError(t, err)

	decided, err := svc.Deny(ctx, c.ID, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsequenceDenied, decided.State)

	items, err := repo.ListWorkingHoursByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestConfirm_AlreadyDecided(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := consequences.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "chef@example.org")

	c, err := svc.RequestWorkingHours(ctx, user.ID, requestHours(4))
	require.NoError(t, err)

	_, err = svc.Deny(ctx, c.ID, staff.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, c.ID, staff.ID)
	assert.ErrorIs(t, err, consequences.ErrAlreadyDecided)

	// Still no hours recorded
	items, err := repo.ListWorkingHoursByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestConfirm_LostClaimRecordsNothing(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := consequences.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "chef@example.org")
	other := testutil.NewTestUser(t, repo, "lead@example.org")

	c, err := svc.RequestWorkingHours(ctx, user.ID, requestHours(4))
	require.NoError(t, err)

	// Another decider claims the consequence first.
	ok, err := repo.TransitionConsequence(ctx, c.ID, models.ConsequenceDenied, "", other.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// The losing confirm must not execute: the claim precedes execution,
	// so no working hours row may appear.
	_, err = svc.Confirm(ctx, c.ID, staff.ID)
	assert.ErrorIs(t, err, consequences.ErrAlreadyDecided)

	items, err := repo.ListWorkingHoursByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	got, err := repo.GetConsequenceByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsequenceDenied, got.State)
	require.NotNil(t, got.DecidedBy)
	assert.Equal(t, other.ID, *got.DecidedBy)
}

func TestConfirm_ExecutionFailure(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := consequences.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "chef@example.org")

	// File a structurally broken consequence directly
	c := &models.Consequence{
		Slug:   models.ConsequenceSlugWorkingHours,
		UserID: user.ID,
		Data:   `{"hours": -1}`,
	}
	require.NoError(t, repo.CreateConsequence(ctx, c))

	decided, err := svc.Confirm(ctx, c.ID, staff.ID)
	assert.ErrorIs(t, err, consequences.ErrExecutionFailed)
	require.NotNil(t, decided)
	assert.Equal(t, models.ConsequenceFailed, decided.State)
	assert.NotEmpty(t, decided.FailReason)

	// A failed consequence counts as decided
	_, err = svc.Confirm(ctx, c.ID, staff.ID)
	assert.ErrorIs(t, err, consequences.ErrAlreadyDecided)
}

func TestConfirm_UnknownSlug(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := consequences.NewService(repo)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "chef@example.org")

	c := &models.Consequence{
		Slug:   "unknown_change",
		UserID: user.ID,
		Data:   `{}`,
	}
	require.NoError(t, repo.CreateConsequence(ctx, c))

	decided, err := svc.Confirm(ctx, c.ID, staff.ID)
	assert.ErrorIs(t, err, consequences.ErrExecutionFailed)
	assert.Equal(t, models.ConsequenceFailed, decided.State)
}
