// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/olewun/ephios/internal/htmx"
	"github.com/olewun/ephios/internal/i18n"
	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/consequences"
	"github.com/olewun/ephios/internal/services/session"
)

// ConsequenceHandlers contains handlers for deciding pending consequences.
type ConsequenceHandlers struct {
	consequences *consequences.Service
	sessions     *session.Manager
}

// NewConsequences creates a new ConsequenceHandlers instance.
func NewConsequences(svc *consequences.Service, sess *session.Manager) *ConsequenceHandlers {
	return &ConsequenceHandlers{
		consequences: svc,
		sessions:     sess,
	}
}

// decisionResponse is the JSON body returned to AJAX decisions.
type decisionResponse struct {
	State      string `json:"state"`
	FailReason string `json:"fail_reason,omitempty"`
}

// Decide confirms or denies a pending consequence, depending on the
// action form parameter. AJAX requests get the resulting state as JSON,
// regular form posts a flash and a redirect. A consequence that was
// already decided cannot be decided again.
func (h *ConsequenceHandlers) Decide(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}

	var decided *models.Consequence
	switch action := c.FormValue("action"); action {
	case "confirm":
		decided, err = h.consequences.Confirm(ctx, id, currentUserID(c))
	case "deny":
		decided, err = h.consequences.Deny(ctx, id, currentUserID(c))
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action")
	}

	switch {
	case err == nil:
	case errors.Is(err, consequences.ErrExecutionFailed):
		// The decision stuck, only its execution failed. Report the
		// failed state rather than a server error.
	case errors.Is(err, consequences.ErrAlreadyDecided):
		if htmx.IsAjax(c.Request()) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "already decided"})
		}
		h.sessions.AddFlash(c, session.FlashError, i18n.T(ctx, "consequence_already_decided"))
		return c.Redirect(http.StatusSeeOther, "/workinghours")
	case errors.Is(err, repository.ErrNotFound):
		return echo.ErrNotFound
	default:
		return err
	}

	if htmx.IsAjax(c.Request()) {
		return c.JSON(http.StatusOK, decisionResponse{
			State:      decided.State,
			FailReason: decided.FailReason,
		})
	}

	switch decided.State {
	case models.ConsequenceExecuted:
		h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "consequence_confirmed"))
	case models.ConsequenceDenied:
		h.sessions.AddFlash(c, session.FlashInfo, i18n.T(ctx, "consequence_denied"))
	case models.ConsequenceFailed:
		h.sessions.AddFlash(c, session.FlashError, i18n.TData(ctx, "consequence_failed", map[string]any{
			"Reason": decided.FailReason,
		}))
	}
	return c.Redirect(http.StatusSeeOther, "/workinghours")
}
