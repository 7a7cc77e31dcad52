// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/olewun/ephios/internal/i18n"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/oauth"
	"github.com/olewun/ephios/internal/services/session"
	"github.com/olewun/ephios/internal/templates"
)

// OAuthHandlers contains handlers for OAuth application management.
type OAuthHandlers struct {
	repo     *repository.Repository
	oauth    *oauth.Service
	sessions *session.Manager
}

// NewOAuth creates a new OAuthHandlers instance.
func NewOAuth(repo *repository.Repository, svc *oauth.Service, sess *session.Manager) *OAuthHandlers {
	return &OAuthHandlers{
		repo:     repo,
		oauth:    svc,
		sessions: sess,
	}
}

// List renders the current user's registered applications.
func (h *OAuthHandlers) List(c echo.Context) error {
	apps, err := h.repo.ListOAuthApplicationsByUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.ApplicationList(apps))
}

// RegisterPage renders the registration form.
func (h *OAuthHandlers) RegisterPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.ApplicationForm(nil))
}

// Register creates a new application. The client secret is shown exactly
// once on the following page.
func (h *OAuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.FormValue("name")
	redirectURIs := c.FormValue("redirect_uris")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	app, secret, err := h.oauth.Register(ctx, currentUserID(c), name, redirectURIs)
	if err != nil {
		return err
	}

	return Render(c, http.StatusOK, templates.ApplicationRegistered(app, secret))
}

// EditPage renders the edit form for one of the user's applications.
func (h *OAuthHandlers) EditPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	app, err := h.repo.GetOAuthApplication(c.Request().Context(), id, currentUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return Render(c, http.StatusOK, templates.ApplicationForm(app))
}

// Edit updates name and redirect URIs. The client credentials stay
// unchanged.
func (h *OAuthHandlers) Edit(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	name := c.FormValue("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	if _, err := h.oauth.Update(ctx, currentUserID(c), id, name, c.FormValue("redirect_uris")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "oauth_updated"))
	return c.Redirect(http.StatusSeeOther, "/settings/oauth")
}

// Delete removes one of the user's applications.
func (h *OAuthHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	if err := h.oauth.Delete(ctx, currentUserID(c), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "oauth_deleted"))
	return c.Redirect(http.StatusSeeOther, "/settings/oauth")
}
