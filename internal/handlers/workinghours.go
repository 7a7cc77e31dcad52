// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/olewun/ephios/internal/appcontext"
	"github.com/olewun/ephios/internal/i18n"
	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/consequences"
	"github.com/olewun/ephios/internal/services/session"
	"github.com/olewun/ephios/internal/templates"
)

// WorkingHoursHandlers contains handlers for working hours reporting.
type WorkingHoursHandlers struct {
	repo         *repository.Repository
	consequences *consequences.Service
	sessions     *session.Manager
}

// NewWorkingHours creates a new WorkingHoursHandlers instance.
func NewWorkingHours(repo *repository.Repository, svc *consequences.Service, sess *session.Manager) *WorkingHoursHandlers {
	return &WorkingHoursHandlers{
		repo:         repo,
		consequences: svc,
		sessions:     sess,
	}
}

// Overview renders per-user totals for a date range, defaulting to the
// current year. Staff additionally see pending requests to decide.
func (h *WorkingHoursHandlers) Overview(c echo.Context) error {
	ctx := c.Request().Context()

	now := time.Now()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	if raw := c.QueryParam("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		from = parsed
	}
	if raw := c.QueryParam("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		to = parsed
	}

	summaries, err := h.repo.SummarizeWorkingHours(ctx, from, to)
	if err != nil {
		return err
	}

	var pending []templates.PendingRequest
	if appcontext.IsStaff(ctx) {
		pending, err = h.pendingRequests(c)
		if err != nil {
			return err
		}
	}

	return Render(c, http.StatusOK, templates.WorkingHoursOverview(
		summaries, from.Format("2006-01-02"), to.Format("2006-01-02"), pending))
}

func (h *WorkingHoursHandlers) pendingRequests(c echo.Context) ([]templates.PendingRequest, error) {
	ctx := c.Request().Context()

	items, err := h.repo.ListPendingConsequences(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]templates.PendingRequest, 0, len(items))
	for _, item := range items {
		if item.Slug != models.ConsequenceSlugWorkingHours {
			continue
		}
		var data models.WorkingHoursData
		if err := json.Unmarshal([]byte(item.Data), &data); err != nil {
			return nil, err
		}
		displayName := ""
		if user, userErr := h.repo.GetUserByID(ctx, item.UserID); userErr == nil {
			displayName = user.DisplayName
		}
		pending = append(pending, templates.PendingRequest{
			ConsequenceID: item.ID,
			DisplayName:   displayName,
			Data:          data,
		})
	}
	return pending, nil
}

// Own renders the current user's working hours.
func (h *WorkingHoursHandlers) Own(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.repo.ListWorkingHoursByUser(ctx, currentUserID(c))
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.WorkingHoursOwn(items, appcontext.IsStaff(ctx)))
}

// RequestPage renders the request form.
func (h *WorkingHoursHandlers) RequestPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.WorkingHoursRequestForm())
}

// Request files a working hours request for later staff review.
func (h *WorkingHoursHandlers) Request(c echo.Context) error {
	ctx := c.Request().Context()

	data, err := parseHoursForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}

	if _, err := h.consequences.RequestWorkingHours(ctx, currentUserID(c), *data); err != nil {
		if errors.Is(err, consequences.ErrInvalidRequest) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
		}
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "workinghours_requested"))
	return c.Redirect(http.StatusSeeOther, "/workinghours/own")
}

// EditPage renders the edit form for a record.
func (h *WorkingHoursHandlers) EditPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	item, err := h.repo.GetWorkingHoursByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return Render(c, http.StatusOK, templates.WorkingHoursEditForm(item))
}

// Edit updates date, reason and hours of a record.
func (h *WorkingHoursHandlers) Edit(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	item, err := h.repo.GetWorkingHoursByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}

	data, err := parseHoursForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	item.Date = data.Date
	item.Reason = data.Reason
	item.Hours = data.Hours

	if err := h.repo.UpdateWorkingHours(ctx, item); err != nil {
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "workinghours_updated"))
	return c.Redirect(http.StatusSeeOther, "/workinghours/own")
}

// Delete removes a record.
func (h *WorkingHoursHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	if err := h.repo.DeleteWorkingHours(ctx, id); err != nil {
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "workinghours_deleted"))
	return c.Redirect(http.StatusSeeOther, "/workinghours/own")
}

// hoursForm is the bound request/edit form.
type hoursForm struct {
	Date   string  `form:"date" validate:"required,datetime=2006-01-02"`
	Reason string  `form:"reason" validate:"required"`
	Hours  float64 `form:"hours" validate:"required,gt=0"`
}

func parseHoursForm(c echo.Context) (*models.WorkingHoursData, error) {
	var f hoursForm
	if err := c.Bind(&f); err != nil {
		return nil, err
	}
	if err := c.Validate(&f); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", f.Date)
	if err != nil {
		return nil, err
	}
	return &models.WorkingHoursData{Date: date, Reason: f.Reason, Hours: f.Hours}, nil
}
