// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/olewun/ephios/internal/appcontext"
	"github.com/olewun/ephios/internal/repository"
)

// Handlers contains handlers that do not belong to a specific domain.
type Handlers struct {
	repo *repository.Repository
}

// New creates a new Handlers instance.
func New(repo *repository.Repository) *Handlers {
	return &Handlers{repo: repo}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	if err := h.repo.DB().PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home redirects to the appropriate landing page.
func (h *Handlers) Home(c echo.Context) error {
	if appcontext.IsAuthenticated(c.Request().Context()) {
		return c.Redirect(http.StatusSeeOther, "/workinghours/own")
	}
	return c.Redirect(http.StatusSeeOther, "/auth/login")
}
