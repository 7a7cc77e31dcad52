// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers_test

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olewun/ephios/internal/handlers"
	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/consequences"
	"github.com/olewun/ephios/internal/testutil"
)

type consequenceFixture struct {
	handler *handlers.ConsequenceHandlers
	repo    *repository.Repository
	svc     *consequences.Service
	staff   *models.UserProfile
	pending *models.Consequence
}

func newConsequenceFixture(t *testing.T) *consequenceFixture {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	svc := consequences.NewService(repo)

	requester := testutil.NewTestUser(t, repo, "anna@example.org")
	staff := testutil.NewTestUser(t, repo, "boss@example.org")
	staff.IsStaff = true
	require.NoError(t, repo.UpdateUser(context.Background(), staff))

	pending, err := svc.RequestWorkingHours(context.Background(), requester.ID, models.WorkingHoursData{
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Reason: "station cleanup",
		Hours:  4,
	})
	require.NoError(t, err)

	return &consequenceFixture{
		handler: handlers.NewConsequences(svc, newSessions(t)),
		repo:    repo,
		svc:     svc,
		staff:   staff,
		pending: pending,
	}
}

func (f *consequenceFixture) decide(t *testing.T, id int64, action string, ajax bool) (echo.Context, *http.Response, string, error) {
	t.Helper()
	e := echo.New()
	headers := map[string]string{
		echo.HeaderContentType: echo.MIMEApplicationForm,
	}
	if ajax {
		headers["X-Requested-With"] = "XMLHttpRequest"
	}
	c, rec := testutil.NewEchoContextWithHeaders(e, http.MethodPost, "/consequences/"+strconv.FormatInt(id, 10),
		strings.NewReader("action="+action), headers)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(id, 10))
	asUser(c, f.staff)
	withLocale(c)

	err := f.handler.Decide(c)
	return c, rec.Result(), rec.Body.String(), err
}

func TestDecide_ConfirmAjax(t *testing.T) {
	f := newConsequenceFixture(t)

	_, res, body, err := f.decide(t, f.pending.ID, "confirm", true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"state":"executed"`)
	assert.NotContains(t, body, "fail_reason")

	items, err := f.repo.ListWorkingHoursByUser(context.Background(), f.pending.UserID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.InDelta(t, 4.0, items[0].Hours, 0.001)
}

func TestDecide_DenyRedirects(t *testing.T) {
	f := newConsequenceFixture(t)

	_, res, _, err := f.decide(t, f.pending.ID, "deny", false)
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/workinghours", res.Header.Get("Location"))

	items, err := f.repo.ListWorkingHoursByUser(context.Background(), f.pending.UserID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecide_AlreadyDecided(t *testing.T) {
	f := newConsequenceFixture(t)

	_, _, _, err := f.decide(t, f.pending.ID, "deny", false)
	require.NoError(t, err)

	_, res, body, err := f.decide(t, f.pending.ID, "confirm", true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, body, "already decided")
}

func TestDecide_UnknownAction(t *testing.T) {
	f := newConsequenceFixture(t)

	_, _, _, err := f.decide(t, f.pending.ID, "shrug", false)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDecide_NotFound(t *testing.T) {
	f := newConsequenceFixture(t)

	_, _, _, err := f.decide(t, 9999, "confirm", false)
	assert.ErrorIs(t, err, echo.ErrNotFound)
}

func TestDecide_ExecutionFailureReported(t *testing.T) {
	f := newConsequenceFixture(t)

	broken := &models.Consequence{
		UserID: f.pending.UserID,
		Slug:   models.ConsequenceSlugWorkingHours,
		State:  models.ConsequenceNeedsConfirmation,
		Data:   `{"hours": -1}`,
	}
	require.NoError(t, f.repo.CreateConsequence(context.Background(), broken))

	_, res, body, err := f.decide(t, broken.ID, "confirm", true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"state":"failed"`)
	assert.Contains(t, body, "fail_reason")
}
