// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package session manages the signed login cookie.
package session

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"
)

// ErrNoSession is returned when the request carries no valid session cookie.
var ErrNoSession = errors.New("no session")

type payload struct {
	UserID   int64     `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// Manager signs and reads the session cookie using securecookie. The hash
// key is mandatory; the block key additionally encrypts the cookie value
// when set.
type Manager struct {
	codec      *securecookie.SecureCookie
	cookieName string
	maxAge     int
	secure     bool
}

// NewManager creates a session manager. Keys are hex-encoded; empty keys
// are generated randomly, which invalidates sessions on restart and is
// only acceptable in development.
func NewManager(hashKeyHex, blockKeyHex, cookieName string, maxAge int, secure bool) (*Manager, error) {
	hashKey, err := decodeKey(hashKeyHex, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid session hash key: %w", err)
	}

	var blockKey []byte
	if blockKeyHex != "" {
		blockKey, err = decodeKey(blockKeyHex, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid session block key: %w", err)
		}
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(maxAge)

	return &Manager{
		codec:      codec,
		cookieName: cookieName,
		maxAge:     maxAge,
		secure:     secure,
	}, nil
}

func decodeKey(keyHex string, generateLen int) ([]byte, error) {
	if keyHex == "" {
		return securecookie.GenerateRandomKey(generateLen), nil
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, err
	}
	if len(key) < 16 {
		return nil, errors.New("key must be at least 16 bytes")
	}
	return key, nil
}

// Login writes a fresh session cookie for the user.
func (m *Manager) Login(c echo.Context, userID int64) error {
	value, err := m.codec.Encode(m.cookieName, payload{UserID: userID, IssuedAt: time.Now()})
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout expires the session cookie.
func (m *Manager) Logout(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserID reads the authenticated user's ID from the session cookie.
func (m *Manager) UserID(c echo.Context) (int64, error) {
	cookie, err := c.Cookie(m.cookieName)
	if err != nil {
		return 0, ErrNoSession
	}

	var p payload
	if err := m.codec.Decode(m.cookieName, cookie.Value, &p); err != nil {
		return 0, ErrNoSession
	}
	if p.UserID == 0 {
		return 0, ErrNoSession
	}
	return p.UserID, nil
}
