// Copyright 2025 The ephios team
// Licensed under the MIT license

package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olewun/ephios/internal/services/session"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager("", "", "_session", 3600, false)
	require.NoError(t, err)
	return m
}

// roundtrip creates a new context carrying the cookies set by a previous
// response, simulating the browser's next request.
func roundtrip(e *echo.Echo, rec *httptest.ResponseRecorder) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge >= 0 {
			req.AddCookie(cookie)
		}
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestLoginAndUserID(t *testing.T) {
	m := newManager(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, m.Login(c, 42))

	next := roundtrip(e, rec)
	userID, err := m.UserID(next)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestUserID_NoCookie(t *testing.T) {
	m := newManager(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	_, err := m.UserID(c)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestUserID_TamperedCookie(t *testing.T) {
	m := newManager(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "_session", Value: "forged"})
	c := e.NewContext(req, httptest.NewRecorder())

	_, err := m.UserID(c)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestUserID_DifferentKeysRejected(t *testing.T) {
	first := newManager(t)
	second := newManager(t)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/login", nil), rec)
	require.NoError(t, first.Login(c, 42))

	// A manager with different random keys must not accept the cookie
	next := roundtrip(e, rec)
	_, err := second.UserID(next)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLogout(t *testing.T) {
	m := newManager(t)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)
	m.Logout(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "_session", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestNewManager_InvalidHexKey(t *testing.T) {
	_, err := session.NewManager("not-hex", "", "_session", 3600, false)
	assert.Error(t, err)
}

func TestFlashes(t *testing.T) {
	m := newManager(t)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	m.AddFlash(c, session.FlashSuccess, "saved")

	next := roundtrip(e, rec)
	flashes := m.PopFlashes(next)
	require.Len(t, flashes, 1)
	assert.Equal(t, session.FlashSuccess, flashes[0].Level)
	assert.Equal(t, "saved", flashes[0].Message)
}

func TestPopFlashes_Empty(t *testing.T) {
	m := newManager(t)
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, m.PopFlashes(c))
}
