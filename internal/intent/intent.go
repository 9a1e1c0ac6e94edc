// Package intent carries the visitor's declared role and the pending donor
// prompt across navigations and the sign-up round trip. Whether the
// registration dialog is open is decided per render and never stored here.
package intent

import (
	"fmt"
	"net/http"
	"time"

	"donatelife/pkg/types"

	"github.com/gorilla/securecookie"
)

const (
	CookieName = "donatelife_intent"
	maxAge     = 24 * time.Hour
)

type Intent struct {
	Role         types.Role
	JustSignedUp bool
}

func (i Intent) IsZero() bool {
	return i == Intent{}
}

// WithRole applies the ?role= value of the login page. An unrecognized value
// clears the role and leaves JustSignedUp alone.
func (i Intent) WithRole(raw string) Intent {
	i.Role = types.ParseRole(raw)
	return i
}

// Store keeps an Intent in an encrypted, http-only cookie.
type Store struct {
	codec  securecookie.Codec
	secure bool
}

func NewStore(codec securecookie.Codec, secure bool) *Store {
	return &Store{codec: codec, secure: secure}
}

// Load returns the zero Intent when the cookie is missing or cannot be decoded.
func (s *Store) Load(r *http.Request) Intent {
	var in Intent

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return in
	}

	if err := s.codec.Decode(CookieName, cookie.Value, &in); err != nil {
		return Intent{}
	}

	return in
}

func (s *Store) Save(w http.ResponseWriter, in Intent) error {
	if in.IsZero() {
		s.Clear(w)
		return nil
	}

	encoded, err := s.codec.Encode(CookieName, in)
	if err != nil {
		return fmt.Errorf("failed to encode intent: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
