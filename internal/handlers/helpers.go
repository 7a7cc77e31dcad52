// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers

import (
	"strconv"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/olewun/ephios/internal/appcontext"
)

// Render renders a templ component with the given status code.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return err
	}

	return c.HTML(statusCode, buf.String())
}

// paramID parses the named path parameter as an int64.
func paramID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// currentUserID returns the authenticated user's id, or 0 when the
// request is anonymous.
func currentUserID(c echo.Context) int64 {
	if user := appcontext.GetUser(c.Request().Context()); user != nil {
		return user.ID
	}
	return 0
}
