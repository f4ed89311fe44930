// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package flash stores one-time notices in a signed cookie until the next page render.
package flash

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const cookieName = "_flash"

// Categories, rendered as the notice's style.
const (
	Success = "success"
	Danger  = "danger"
	Info    = "info"
)

var categories = []string{Danger, Info, Success}

// Message is a pending notice. ID is an i18n message ID.
type Message struct {
	Category string
	ID       string
}

type Store struct {
	cookies *sessions.CookieStore
}

// NewStore creates a flash store signed with key.
func NewStore(key []byte, secure bool) *Store {
	cookies := sessions.NewCookieStore(key)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cookies}
}

// Add queues a notice for the next rendered page.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, category, id string) error {
	// A tampered or stale cookie yields a fresh session, which is fine here.
	session, _ := s.cookies.Get(r, cookieName)
	session.AddFlash(id, category)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save flash: %w", err)
	}
	return nil
}

// Pop returns and removes all queued notices.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) ([]Message, error) {
	session, _ := s.cookies.Get(r, cookieName)

	var messages []Message
	for _, category := range categories {
		for _, v := range session.Flashes(category) {
			if id, ok := v.(string); ok {
				messages = append(messages, Message{Category: category, ID: id})
			}
		}
	}

	if len(messages) == 0 {
		return nil, nil
	}
	if err := session.Save(r, w); err != nil {
		return messages, fmt.Errorf("failed to clear flash: %w", err)
	}
	return messages, nil
}
