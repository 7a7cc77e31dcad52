// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olewun/ephios/internal/handlers"
	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/server"
	"github.com/olewun/ephios/internal/services/consequences"
	"github.com/olewun/ephios/internal/testutil"
)

type hoursFixture struct {
	handler *handlers.WorkingHoursHandlers
	repo    *repository.Repository
	svc     *consequences.Service
	user    *models.UserProfile
}

func newHoursFixture(t *testing.T) *hoursFixture {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	svc := consequences.NewService(repo)
	user := testutil.NewTestUser(t, repo, "anna@example.org")

	return &hoursFixture{
		handler: handlers.NewWorkingHours(repo, svc, newSessions(t)),
		repo:    repo,
		svc:     svc,
		user:    user,
	}
}

func (f *hoursFixture) request(t *testing.T, form url.Values) (*http.Response, error) {
	t.Helper()
	e := echo.New()
	e.Validator = server.NewFormValidator()
	c, rec := testutil.NewEchoContextWithHeaders(e, http.MethodPost, "/workinghours/request",
		strings.NewReader(form.Encode()), map[string]string{
			echo.HeaderContentType: echo.MIMEApplicationForm,
		})
	asUser(c, f.user)
	withLocale(c)
	err := f.handler.Request(c)
	return rec.Result(), err
}

func TestRequest_CreatesPendingConsequence(t *testing.T) {
	f := newHoursFixture(t)

	res, err := f.request(t, url.Values{
		"date":   {"2025-06-01"},
		"reason": {"station cleanup"},
		"hours":  {"4.5"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/workinghours/own", res.Header.Get("Location"))

	pending, err := f.repo.ListPendingConsequences(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, f.user.ID, pending[0].UserID)
}

func TestRequest_RejectsInvalidForm(t *testing.T) {
	f := newHoursFixture(t)

	for name, form := range map[string]url.Values{
		"missing date":   {"reason": {"cleanup"}, "hours": {"4"}},
		"bad date":       {"date": {"01.06.2025"}, "reason": {"cleanup"}, "hours": {"4"}},
		"missing reason": {"date": {"2025-06-01"}, "hours": {"4"}},
		"zero hours":     {"date": {"2025-06-01"}, "reason": {"cleanup"}, "hours": {"0"}},
		"negative hours": {"date": {"2025-06-01"}, "reason": {"cleanup"}, "hours": {"-2"}},
	} {
		_, err := f.request(t, form)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, name)
		assert.Equal(t, http.StatusBadRequest, he.Code, name)
	}

	pending, err := f.repo.ListPendingConsequences(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEdit_UpdatesRecord(t *testing.T) {
	f := newHoursFixture(t)

	item := &models.WorkingHours{
		UserID: f.user.ID,
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Reason: "cleanup",
		Hours:  4,
		Origin: models.WorkingHoursOriginManual,
	}
	require.NoError(t, f.repo.CreateWorkingHours(context.Background(), item))

	e := echo.New()
	e.Validator = server.NewFormValidator()
	form := url.Values{
		"date":   {"2025-06-02"},
		"reason": {"longer cleanup"},
		"hours":  {"6"},
	}
	c, rec := testutil.NewEchoContextWithHeaders(e, http.MethodPost, "/workinghours/1/edit",
		strings.NewReader(form.Encode()), map[string]string{
			echo.HeaderContentType: echo.MIMEApplicationForm,
		})
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, f.user)
	withLocale(c)

	require.NoError(t, f.handler.Edit(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	updated, err := f.repo.GetWorkingHoursByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, "longer cleanup", updated.Reason)
	assert.InDelta(t, 6.0, updated.Hours, 0.001)
}

func TestOwn_RendersRecords(t *testing.T) {
	f := newHoursFixture(t)

	item := &models.WorkingHours{
		UserID: f.user.ID,
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Reason: "station cleanup",
		Hours:  4,
		Origin: models.WorkingHoursOriginManual,
	}
	require.NoError(t, f.repo.CreateWorkingHours(context.Background(), item))

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/workinghours/own", nil)
	asUser(c, f.user)
	withLocale(c)

	require.NoError(t, f.handler.Own(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "station cleanup")
}

func TestOverview_RejectsBadDates(t *testing.T) {
	f := newHoursFixture(t)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/workinghours?from=junk", nil)
	asUser(c, f.user)
	withLocale(c)

	err := f.handler.Overview(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
