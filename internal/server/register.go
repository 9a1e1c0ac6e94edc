package server

import (
	"net/http"
	"net/url"
	"strings"

	"donatelife/internal/auth"
	"donatelife/internal/forms"
	"donatelife/pkg/types"
)

func (s *Service) handleGetRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	data := &types.ConfirmRegisterPageData{
		BasePageData: types.BasePageData{Title: "Confirm Your Account"},
		Email:        strings.TrimSpace(r.URL.Query().Get("email")),
	}

	err := s.renderTemplate(w, r, "page.register.confirm", data)
	if err != nil {
		s.logger.WithError(err).Error("failed to render register confirm page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	var submission types.ConfirmSignUpForm
	if err := decodeForm(r, &submission); err != nil {
		s.logger.WithError(err).Error("failed to decode confirmation form")
		s.internalServerError(w)
		return
	}

	data := &types.ConfirmRegisterPageData{
		BasePageData: types.BasePageData{Title: "Confirm Your Account"},
		Email:        strings.TrimSpace(submission.Email),
	}

	if errs := forms.ValidateConfirmation(submission); errs.Any() {
		data.Error = "Enter the email you signed up with and the code we sent you."
		s.renderConfirm(w, r, data)
		return
	}

	err := s.auth.ConfirmSignUp(r.Context(), data.Email, strings.TrimSpace(submission.Code))
	if err != nil {
		s.logger.WithError(err).Error("failed to confirm user signup")

		data.Error = auth.ConfirmMessage(err)
		s.renderConfirm(w, r, data)
		return
	}

	v := url.Values{}
	v.Set("confirmed", "true")
	v.Set("email", data.Email)
	http.Redirect(w, r, loginURL(s.intents.Load(r), v), http.StatusSeeOther)
}

func (s *Service) renderConfirm(w http.ResponseWriter, r *http.Request, data *types.ConfirmRegisterPageData) {
	if err := s.renderTemplate(w, r, "page.register.confirm", data); err != nil {
		s.logger.WithError(err).Error("failed to render register confirm page")
		s.internalServerError(w)
	}
}
