package server

import (
	"net/http"
	"strings"
	"time"

	"donatelife/internal/auth"
)

const redirectCookieName = "donatelife_redirect"

func (s *Service) setSessionCookie(w http.ResponseWriter, session *auth.Session) error {
	encryptedToken, err := s.cookie.Encode(s.config.CookieName, session.AccessToken)
	if err != nil {
		return err
	}

	maxAge := session.ExpiresIn
	if maxAge <= 0 || maxAge > s.config.SessionMaxAgeSec {
		maxAge = s.config.SessionMaxAgeSec
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
		Path:     "/",
	})

	return nil
}

func (s *Service) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookieName,
		Value:    path,
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(age.Seconds()),
	})
}

func (s *Service) clearRedirectCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// postLoginPath consumes the redirect cookie. Only local paths are honored.
func (s *Service) postLoginPath(w http.ResponseWriter, r *http.Request) string {
	redirectCookie, err := r.Cookie(redirectCookieName)
	if err != nil {
		return "/dashboard"
	}

	s.clearRedirectCookie(w)

	path := redirectCookie.Value
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/dashboard"
	}
	return path
}
