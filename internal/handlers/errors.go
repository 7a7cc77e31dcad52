// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/olewun/ephios/internal/templates"
)

// HTTPErrorHandler renders error pages for unhandled errors. JSON requests
// get a JSON body instead.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := ""
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", c.Request().URL.Path)
	}

	if wantsJSON(c) {
		_ = c.JSON(code, map[string]string{"error": http.StatusText(code)})
		return
	}

	if renderErr := Render(c, code, templates.ErrorPage(code, message)); renderErr != nil {
		slog.Error("failed to render error page", "error", renderErr)
	}
}

func wantsJSON(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return accept == echo.MIMEApplicationJSON
}
