package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"donatelife/internal/auth"
	"donatelife/internal/forms"
	"donatelife/internal/intent"
	"donatelife/pkg/types"

	"github.com/sirupsen/logrus"
)

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	if _, err := s.userIDFromContext(r.Context()); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	q := r.URL.Query()

	in := s.intents.Load(r).WithRole(q.Get("role"))
	if err := s.intents.Save(w, in); err != nil {
		s.logger.WithError(err).Error("failed to save intent")
	}

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{
			Title:  "Login",
			Notice: q.Get("notice"),
			Error:  q.Get("error"),
		},
		Mode:      types.AuthModeSignIn,
		Role:      in.Role,
		Email:     strings.TrimSpace(q.Get("email")),
		Confirmed: q.Get("confirmed") == "true",
	}

	if in.Role != types.RoleNone {
		data.Mode = types.AuthModeSignUp
	}
	switch mode := types.AuthMode(q.Get("mode")); mode {
	case types.AuthModeSignIn, types.AuthModeSignUp:
		data.Mode = mode
	}
	if data.Confirmed {
		data.Mode = types.AuthModeSignIn
		data.Notice = "Your account is confirmed. Please sign in."
	}

	if err := s.renderTemplate(w, r, "page.login", data); err != nil {
		s.logger.WithError(err).Error("failed to render login page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var submission types.AuthForm
	if err := decodeForm(r, &submission); err != nil {
		s.logger.WithError(err).Error("failed to decode login form")
		s.internalServerError(w)
		return
	}

	in := s.intents.Load(r)

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Login"},
		Mode:         submission.Mode,
		Role:         in.Role,
		FullName:     strings.TrimSpace(submission.FullName),
		Email:        strings.TrimSpace(submission.Email),
	}
	if data.Mode != types.AuthModeSignUp {
		data.Mode = types.AuthModeSignIn
	}

	input, fieldErrs := forms.ParseAuth(submission)
	if fieldErrs.Any() {
		s.logger.WithField("field_errors", fieldErrs).Info("validation errors during login")

		data.FieldErrors = fieldErrs
		s.renderLogin(w, r, data)
		return
	}

	switch input := input.(type) {
	case forms.SignInInput:
		session, err := s.auth.SignIn(ctx, input.Email, input.Password)
		if err != nil {
			if errors.Is(err, auth.ErrNotConfirmed) {
				s.redirectToConfirm(w, r, input.Email)
				return
			}

			s.logger.WithError(err).Warn("sign in failed")
			data.Error = auth.SignInMessage(err)
			s.renderLogin(w, r, data)
			return
		}

		s.completeLogin(w, r, session)

	case forms.SignUpInput:
		confirmed, err := s.auth.SignUp(ctx, input.FullName, input.Email, input.Password)
		if err != nil {
			s.logger.WithError(err).Warn("sign up failed")
			if errors.Is(err, auth.ErrWeakPassword) {
				data.FieldErrors = types.FieldErrors{"password": auth.PasswordPolicyMessage()}
			}
			data.Error = auth.SignUpMessage(err)
			s.renderLogin(w, r, data)
			return
		}

		if in.Role == types.RoleDonor {
			in.JustSignedUp = true
			if err := s.intents.Save(w, in); err != nil {
				s.logger.WithError(err).Error("failed to save intent after sign up")
			}
		}

		s.logger.WithFields(logrus.Fields{
			"email":     input.Email,
			"role":      in.Role,
			"confirmed": confirmed,
		}).Info("account created")

		if !confirmed {
			s.redirectToConfirm(w, r, input.Email)
			return
		}

		session, err := s.auth.SignIn(ctx, input.Email, input.Password)
		if err != nil {
			s.logger.WithError(err).Error("sign in after sign up failed")
			s.redirectWithError(w, r, "/login", auth.SignInMessage(err))
			return
		}

		s.completeLogin(w, r, session)
	}
}

func (s *Service) completeLogin(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	if err := s.setSessionCookie(w, session); err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.internalServerError(w)
		return
	}

	http.Redirect(w, r, s.postLoginPath(w, r), http.StatusSeeOther)
}

func (s *Service) renderLogin(w http.ResponseWriter, r *http.Request, data *types.LoginPageData) {
	if err := s.renderTemplate(w, r, "page.login", data); err != nil {
		s.logger.WithError(err).Error("failed to render login page")
		s.internalServerError(w)
	}
}

func (s *Service) redirectToConfirm(w http.ResponseWriter, r *http.Request, email string) {
	v := url.Values{}
	v.Set("email", email)
	http.Redirect(w, r, "/register/confirm?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	s.clearRedirectCookie(w)
	s.intents.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// loginURL builds the login link that carries the intended role.
func loginURL(in intent.Intent, extra url.Values) string {
	if extra == nil {
		extra = url.Values{}
	}
	if in.Role != types.RoleNone {
		extra.Set("role", string(in.Role))
	}
	if len(extra) == 0 {
		return "/login"
	}
	return "/login?" + extra.Encode()
}
