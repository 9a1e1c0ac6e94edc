package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"donatelife/internal/auth"
	"donatelife/internal/feed"
	"donatelife/internal/forms"
	"donatelife/internal/intent"
	"donatelife/internal/metrics"
	"donatelife/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, name, email, password string) (bool, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	Profile(ctx context.Context, accessToken string) (types.Identity, error)
	UpdateDisplayName(ctx context.Context, accessToken, name string) error
}

type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (*auth.Claims, error)
}

type DonorRepository interface {
	DonorByUserID(ctx context.Context, userID string) (*types.Donor, error)
	Donors(ctx context.Context) ([]*types.Donor, error)
	CountDonors(ctx context.Context) (int, error)
	CreateDonor(ctx context.Context, donor *types.Donor) error
}

type RequestRepository interface {
	Requests(ctx context.Context) ([]*types.BloodRequest, error)
	CountRequests(ctx context.Context) (int, error)
	CreateRequest(ctx context.Context, request *types.BloodRequest) error
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	templates *template.Template

	auth     AuthProvider
	verifier TokenVerifier

	donorRepo   DonorRepository
	requestRepo RequestRepository
	broker      feed.Broker
	metrics     *metrics.Metrics

	cookie  *securecookie.SecureCookie
	intents *intent.Store
	latch   *forms.Latch
	now     func() time.Time

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	authProvider AuthProvider,
	verifier TokenVerifier,
	donorRepo DonorRepository,
	requestRepo RequestRepository,
	broker feed.Broker,
	m *metrics.Metrics,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil || len(hashKey) == 0 {
		return nil, fmt.Errorf("COOKIE_HASH_KEY must be a base64 encoded key")
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("COOKIE_BLOCK_KEY must be base64 encoded: %w", err)
	}

	cookie := securecookie.New(hashKey, blockKey)
	cookie.MaxAge(config.SessionMaxAgeSec)

	s := &Service{
		logger:   logger,
		config:   config,
		auth:     authProvider,
		verifier: verifier,

		donorRepo:   donorRepo,
		requestRepo: requestRepo,
		broker:      broker,
		metrics:     m,

		cookie:  cookie,
		intents: intent.NewStore(cookie, config.CookieSecure),
		latch:   forms.NewLatch(),
		now:     time.Now,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler(), http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.OptionalAuth)

		r.HandleFunc("/", s.handleHome, http.MethodGet)
		r.HandleFunc("/terms", s.handleTerms, http.MethodGet)
		r.HandleFunc("/privacy", s.handlePrivacy, http.MethodGet)

		r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
		r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
		r.HandleFunc("/register/confirm", s.handleGetRegisterConfirm, http.MethodGet)
		r.HandleFunc("/register/confirm", s.handlePostRegisterConfirm, http.MethodPost)
		r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)
	})

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/dashboard", s.handleGetDashboard, http.MethodGet)
		r.HandleFunc("/dashboard/events", s.handleDashboardEvents, http.MethodGet)

		r.HandleFunc("/donors", s.handlePostDonor, http.MethodPost)
		r.HandleFunc("/requests", s.handlePostRequest, http.MethodPost)

		r.HandleFunc("/profile", s.handleGetProfile, http.MethodGet)
		r.HandleFunc("/profile/name", s.handlePostProfileName, http.MethodPost)
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

func loadTemplates() (*template.Template, error) {
	t := template.New("").Funcs(templateFuncs())
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}

func emailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(contextKeyEmail).(string)
	return email
}

func accessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(contextKeyAccessToken).(string)
	return token
}
