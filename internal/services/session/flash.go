// Copyright 2025 The ephios team
// Licensed under the MIT license

package session

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Flash levels.
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashError   = "error"
)

const flashCookieName = "_flash"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// AddFlash appends a flash message to the flash cookie.
func (m *Manager) AddFlash(c echo.Context, level, message string) {
	flashes := m.readFlashes(c)
	flashes = append(flashes, Flash{Level: level, Message: message})

	value, err := m.codec.Encode(flashCookieName, flashes)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns all pending flash messages and clears the cookie.
func (m *Manager) PopFlashes(c echo.Context) []Flash {
	flashes := m.readFlashes(c)
	if len(flashes) == 0 {
		return nil
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return flashes
}

func (m *Manager) readFlashes(c echo.Context) []Flash {
	cookie, err := c.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := m.codec.Decode(flashCookieName, cookie.Value, &flashes); err != nil {
		return nil
	}
	return flashes
}
