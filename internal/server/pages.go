package server

import (
	"net/http"

	"donatelife/pkg/types"
)

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := &types.HomePageData{
		BasePageData: types.BasePageData{
			Title:  "Donate Life",
			Notice: r.URL.Query().Get("notice"),
			Error:  r.URL.Query().Get("error"),
		},
		Stats: types.StatsData{BloodTypes: len(types.BloodTypes)},
	}

	donors, err := s.donorRepo.CountDonors(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to count donors for home page")
		data.Stats.DonorsUnavailable = true
	}
	requests, err := s.requestRepo.CountRequests(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to count blood requests for home page")
		data.Stats.RequestsUnavailable = true
	}
	data.Stats.TotalDonors = donors
	data.Stats.ActiveRequests = requests

	if err := s.renderTemplate(w, r, "page.home", data); err != nil {
		s.logger.WithError(err).Error("failed to render home page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleTerms(w http.ResponseWriter, r *http.Request) {
	data := &types.BasePageData{Title: "Terms of Service"}
	if err := s.renderTemplate(w, r, "page.terms", data); err != nil {
		s.logger.WithError(err).Error("failed to render terms page")
		s.internalServerError(w)
	}
}

func (s *Service) handlePrivacy(w http.ResponseWriter, r *http.Request) {
	data := &types.BasePageData{Title: "Privacy Policy"}
	if err := s.renderTemplate(w, r, "page.privacy", data); err != nil {
		s.logger.WithError(err).Error("failed to render privacy page")
		s.internalServerError(w)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
