package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	contextKeyUserID      contextKey = "user_id"
	contextKeyEmail       contextKey = "email"
	contextKeyAccessToken contextKey = "access_token"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.metrics.ObserveRequest(r.Method, rw.statusCode, started)
		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// authenticate resolves the session cookie to a verified identity. It returns
// a context carrying the identity, or false when there is no valid session.
func (s *Service) authenticate(r *http.Request) (context.Context, bool) {
	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return nil, false
	}

	var accessToken string
	err = s.cookie.Decode(s.config.CookieName, cookie.Value, &accessToken)
	if err != nil {
		s.logger.WithError(err).Warn("failed to decrypt access token")
		return nil, false
	}

	claims, err := s.verifier.Verify(r.Context(), accessToken)
	if err != nil {
		s.logger.WithError(err).Warn("failed to verify access token")
		return nil, false
	}

	ctx := r.Context()
	ctx = context.WithValue(ctx, contextKeyUserID, claims.Subject)
	ctx = context.WithValue(ctx, contextKeyAccessToken, accessToken)
	if claims.Email != "" {
		ctx = context.WithValue(ctx, contextKeyEmail, claims.Email)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": claims.Subject,
		"email":   claims.Email,
	}).Debug("authenticated user")

	return ctx, true
}

// RequireAuth sends visitors without a valid session to the login page before
// any handler runs, remembering where they were going.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := s.authenticate(r)
		if !ok {
			s.clearSessionCookie(w)
			if r.Method == http.MethodGet && !strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
				s.setRedirectCookie(w, r.URL.RequestURI(), time.Minute*5)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the identity when a valid session exists.
func (s *Service) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctx, ok := s.authenticate(r); ok {
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
