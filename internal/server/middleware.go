// Copyright 2025 The ephios team
// Licensed under the MIT license

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/olewun/ephios/internal/appcontext"
	"github.com/olewun/ephios/internal/config"
	"github.com/olewun/ephios/internal/htmx"
	"github.com/olewun/ephios/internal/i18n"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/session"
)

func setupMiddleware(e *echo.Echo, cfg *config.Config, repo *repository.Repository, sessions *session.Manager) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(echoprometheus.NewMiddleware("ephios"))
	e.Use(middleware.Secure())
	e.Use(middleware.Gzip())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxBodySize)))
	e.Use(csrfMiddleware(cfg))
	e.Use(csrfToContext())
	e.Use(i18nMiddleware())
	e.Use(loadUser(repo, sessions))
	e.Use(flashesToContext(sessions))
}

// csrfMiddleware configures CSRF protection.
func csrfMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSecure:   cfg.UseSecureCookies(),
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
	})
}

// csrfToContext copies the CSRF token to the request context so templates
// can render the hidden form field.
func csrfToContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := c.Get("csrf").(string); ok {
				ctx := context.WithValue(c.Request().Context(), appcontext.CSRFToken{}, token)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// requestLogger returns middleware that logs requests using slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				slog.LogAttrs(c.Request().Context(), slog.LevelError, "request", attrs...)
			} else {
				slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			}

			return nil
		},
	})
}

// i18nMiddleware sets the locale based on the Accept-Language header.
func i18nMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acceptLang := c.Request().Header.Get("Accept-Language")
			lang := i18n.MatchLanguage(acceptLang)
			ctx := i18n.WithLocale(c.Request().Context(), lang)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// loadUser resolves the session cookie to a user profile and stores it in
// the request context. Stale sessions for deleted or deactivated users
// are dropped.
func loadUser(repo *repository.Repository, sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := sessions.UserID(c)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					sessions.Logout(c)
				}
				return next(c)
			}

			user, err := repo.GetUserByID(c.Request().Context(), userID)
			if err != nil || !user.IsActive {
				sessions.Logout(c)
				return next(c)
			}

			ctx := appcontext.WithUser(c.Request().Context(), user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// flashesToContext pops pending flash messages on page loads so the
// layout can render them.
func flashesToContext(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodGet {
				if flashes := sessions.PopFlashes(c); len(flashes) > 0 {
					ctx := appcontext.WithFlashes(c.Request().Context(), flashes)
					c.SetRequest(c.Request().WithContext(ctx))
				}
			}
			return next(c)
		}
	}
}

// requireAuth redirects anonymous requests to the login page. htmx
// requests get an HX-Redirect so the browser performs a full page load
// instead of swapping the login page into a fragment.
func requireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !appcontext.IsAuthenticated(c.Request().Context()) {
				htmx.Redirect(c.Response(), c.Request(), "/auth/login")
				return nil
			}
			return next(c)
		}
	}
}

// requireStaff rejects requests from users without staff rights.
func requireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !appcontext.IsStaff(c.Request().Context()) {
				return echo.ErrForbidden
			}
			return next(c)
		}
	}
}
