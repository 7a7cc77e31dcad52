// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/olewun/ephios/internal/i18n"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/auth"
	"github.com/olewun/ephios/internal/services/email"
	"github.com/olewun/ephios/internal/services/session"
	"github.com/olewun/ephios/internal/templates"
)

// AuthHandlers contains handlers for authentication.
type AuthHandlers struct {
	repo     *repository.Repository
	auth     *auth.Service
	email    *email.Service
	sessions *session.Manager
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(repo *repository.Repository, authSvc *auth.Service, emailSvc *email.Service, sess *session.Manager) *AuthHandlers {
	return &AuthHandlers{
		repo:     repo,
		auth:     authSvc,
		email:    emailSvc,
		sessions: sess,
	}
}

// LoginPage renders the login form.
func (h *AuthHandlers) LoginPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Login(""))
}

// Login authenticates the user and starts a session.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()
	emailAddr := c.FormValue("email")
	password := c.FormValue("password")

	user, err := h.auth.Login(ctx, emailAddr, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrInactiveUser) {
			return Render(c, http.StatusUnauthorized, templates.Login(i18n.T(ctx, "login_failed")))
		}
		return err
	}

	if err := h.sessions.Login(c, user.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout ends the session.
func (h *AuthHandlers) Logout(c echo.Context) error {
	h.sessions.Logout(c)
	h.sessions.AddFlash(c, session.FlashInfo, i18n.T(c.Request().Context(), "logout_success"))
	return c.Redirect(http.StatusSeeOther, "/auth/login")
}

// PasswordResetPage renders the password reset request form.
func (h *AuthHandlers) PasswordResetPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.PasswordResetRequest())
}

// PasswordReset sends a reset mail when the address is known. The response
// is the same either way so addresses cannot be probed.
func (h *AuthHandlers) PasswordReset(c echo.Context) error {
	ctx := c.Request().Context()
	emailAddr := c.FormValue("email")

	user, err := h.repo.GetUserByEmail(ctx, emailAddr)
	if err == nil && user.IsActive {
		token, tokenErr := h.auth.CreateResetToken(ctx, user.ID)
		if tokenErr == nil {
			if sendErr := h.email.SendPasswordReset(ctx, user.Email, token); sendErr != nil {
				slog.Error("failed to send password reset mail", "error", sendErr, "user_id", user.ID)
			}
		}
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	h.sessions.AddFlash(c, session.FlashInfo, i18n.T(ctx, "password_reset_requested"))
	return c.Redirect(http.StatusSeeOther, "/auth/login")
}

// PasswordResetConfirmPage renders the new-password form for a reset token.
func (h *AuthHandlers) PasswordResetConfirmPage(c echo.Context) error {
	token := c.QueryParam("token")
	return Render(c, http.StatusOK, templates.PasswordResetConfirm(token, h.auth.PasswordValidator().HelpTexts(), nil))
}

// PasswordResetConfirm sets a new password for a valid reset token.
func (h *AuthHandlers) PasswordResetConfirm(c echo.Context) error {
	ctx := c.Request().Context()
	token := c.FormValue("token")
	password := c.FormValue("password")

	_, err := h.auth.ResetPassword(ctx, token, password)
	if err != nil {
		var verr *auth.PasswordValidationError
		if errors.As(err, &verr) {
			return Render(c, http.StatusUnprocessableEntity,
				templates.PasswordResetConfirm(token, h.auth.PasswordValidator().HelpTexts(), verr.Messages()))
		}
		if errors.Is(err, auth.ErrInvalidToken) {
			h.sessions.AddFlash(c, session.FlashError, i18n.T(ctx, "password_reset_invalid_token"))
			return c.Redirect(http.StatusSeeOther, "/auth/password-reset")
		}
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "password_reset_done"))
	return c.Redirect(http.StatusSeeOther, "/auth/login")
}
