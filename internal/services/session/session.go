// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session issues and verifies the signed identity cookie.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/cafe-directory/internal/config"
	"github.com/gorilla/securecookie"
)

const keyLength = 32

// Data is the payload stored in the session cookie.
type Data struct {
	UserID    int64     `json:"uid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"exp"`
}

// Manager creates, parses and clears session cookies.
type Manager struct {
	codec  *securecookie.SecureCookie
	key    []byte
	name   string
	maxAge int
	secure bool
}

// NewManager builds a Manager from the session config.
// An empty hash key generates a random one, which invalidates sessions on restart.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := decodeHashKey(cfg.HashKey)
	if err != nil {
		return nil, err
	}

	var blockKey []byte
	if cfg.BlockKey != "" {
		blockKey, err = decodeHexKey(cfg.BlockKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session block key: %w", err)
		}
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Manager{
		codec:  codec,
		key:    hashKey,
		name:   cfg.CookieName,
		maxAge: cfg.MaxAge,
		secure: secure,
	}, nil
}

func decodeHashKey(value string) ([]byte, error) {
	if value == "" {
		slog.Warn("session_hash_key_missing", "hint", "set SECRET_KEY to keep sessions across restarts")
		key := securecookie.GenerateRandomKey(keyLength)
		if key == nil {
			return nil, errors.New("failed to generate session key")
		}
		return key, nil
	}

	if key, err := decodeHexKey(value); err == nil {
		return key, nil
	} else if len(value) < keyLength {
		return nil, fmt.Errorf("invalid session hash key: %w", err)
	}

	// Long free-form secrets are accepted and stretched to a fixed size.
	sum := sha256.Sum256([]byte(value))
	return sum[:], nil
}

func decodeHexKey(value string) ([]byte, error) {
	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, err
	}
	if len(key) != keyLength {
		return nil, errors.New("must be 32 bytes (64 hex characters)")
	}
	return key, nil
}

// SigningKey returns the derived signing key, shared with the flash store.
func (m *Manager) SigningKey() []byte {
	return m.key
}

// Secure reports whether cookies are marked HTTPS only.
func (m *Manager) Secure() bool {
	return m.secure
}

// Create returns a signed cookie identifying the user.
func (m *Manager) Create(userID int64, email string) (*http.Cookie, error) {
	data := Data{
		UserID:    userID,
		Email:     email,
		ExpiresAt: time.Now().Add(time.Duration(m.maxAge) * time.Second),
	}

	encoded, err := m.codec.Encode(m.name, data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	return m.cookie(encoded, m.maxAge), nil
}

// Parse returns the session data of the request, or nil when the request
// carries no valid session. Invalid cookies are treated as anonymous.
func (m *Manager) Parse(r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(m.name)
	if err != nil {
		return nil, nil //nolint:nilerr // missing cookie means anonymous
	}

	var data Data
	if err := m.codec.Decode(m.name, cookie.Value, &data); err != nil {
		slog.Debug("session_invalid", "error", err)
		return nil, nil //nolint:nilerr // tampered or foreign cookie means anonymous
	}

	if time.Now().After(data.ExpiresAt) {
		return nil, nil
	}

	return &data, nil
}

// Clear returns a cookie that removes the session.
func (m *Manager) Clear() *http.Cookie {
	return m.cookie("", -1)
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
