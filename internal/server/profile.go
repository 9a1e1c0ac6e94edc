package server

import (
	"errors"
	"net/http"
	"strings"

	"donatelife/internal/forms"
	"donatelife/pkg/types"
)

const (
	msgProfileUpdated = "Profile Updated: Your display name has been updated."
	msgProfileFailed  = "Update Failed: Could not update your profile. Please try again."
)

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	data, ok := s.loadProfile(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	data.Notice = q.Get("notice")
	data.Error = q.Get("error")
	data.NameFormOpen = q.Get("edit") == "name"

	s.renderProfile(w, r, data)
}

func (s *Service) handlePostProfileName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var submission types.DisplayNameForm
	if err := decodeForm(r, &submission); err != nil {
		s.logger.WithError(err).Error("failed to decode display name form")
		s.internalServerError(w)
		return
	}

	if errs := forms.ValidateDisplayName(submission); errs.Any() {
		data, ok := s.loadProfile(w, r)
		if !ok {
			return
		}

		data.NameFormOpen = true
		data.NameForm = submission
		data.NameErrors = errs
		s.renderProfile(w, r, data)
		return
	}

	name := strings.TrimSpace(submission.DisplayName)
	if err := s.auth.UpdateDisplayName(ctx, accessTokenFromContext(ctx), name); err != nil {
		s.logger.WithError(err).Error("failed to update display name")
		s.redirectWithError(w, r, "/profile", msgProfileFailed)
		return
	}

	s.redirectWithNotice(w, r, "/profile", msgProfileUpdated)
}

func (s *Service) loadProfile(w http.ResponseWriter, r *http.Request) (*types.ProfilePageData, bool) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.redirectToLogin(w, r)
		return nil, false
	}

	identity := s.resolveIdentity(ctx, userID)

	data := &types.ProfilePageData{
		BasePageData: types.BasePageData{Title: "Profile"},
		UserEmail:    identity.Email,
		DisplayName:  identity.DisplayName,
		Initial:      initial(identity.Name()),
		NameForm:     types.DisplayNameForm{DisplayName: identity.DisplayName},
		NameErrors:   types.FieldErrors{},
	}

	donor, err := s.donorRepo.DonorByUserID(ctx, userID)
	switch {
	case err == nil:
		data.DonorStatusKnown = true
		data.IsDonor = true
		data.Donor = s.donorCard(donor)
	case errors.Is(err, types.ErrDonorNotFound):
		data.DonorStatusKnown = true
	default:
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to fetch donor for profile")
	}

	return data, true
}

func (s *Service) renderProfile(w http.ResponseWriter, r *http.Request, data *types.ProfilePageData) {
	if err := s.renderTemplate(w, r, "page.profile", data); err != nil {
		s.logger.WithError(err).Error("failed to render profile page")
		s.internalServerError(w)
	}
}
