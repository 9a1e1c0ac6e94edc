package server

import (
	"context"
	"net/http"
	"strings"

	"donatelife/internal/eligibility"
	"donatelife/internal/forms"
	"donatelife/internal/listing"
	"donatelife/internal/utils"
	"donatelife/pkg/types"
)

const (
	tabRequests = "requests"
	tabDonors   = "donors"
)

func (s *Service) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	data, ok := s.loadDashboard(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	data.Notice = q.Get("notice")
	data.Error = q.Get("error")

	if q.Get("register") == "donor" && data.DonorStatusKnown && !data.IsDonor {
		data.DonorFormOpen = true
	}
	if q.Get("request") == "open" {
		data.RequestFormOpen = true
	}

	s.renderDashboard(w, r, data)
}

// loadDashboard resolves the visitor, runs the donor eligibility flow and
// loads the listings. The updated intent is written before anything else so
// the caller can still render.
func (s *Service) loadDashboard(w http.ResponseWriter, r *http.Request) (*types.DashboardPageData, bool) {
	ctx := r.Context()

	userID, _ := s.userIDFromContext(ctx)
	identity := s.resolveIdentity(ctx, userID)

	outcome := eligibility.Evaluate(ctx, s.donorRepo, userID, s.intents.Load(r))
	switch outcome.State {
	case eligibility.Unauthenticated:
		s.redirectToLogin(w, r)
		return nil, false
	case eligibility.AuthenticatedUnknownDonorStatus:
		s.logger.WithError(outcome.Err).WithField("user_id", userID).Error("failed to determine donor status")
	case eligibility.AuthenticatedNonDonorPromptPending:
		s.metrics.IncrementDonorPrompt()
	}

	if outcome.IntentChanged {
		if err := s.intents.Save(w, outcome.Intent); err != nil {
			s.logger.WithError(err).Error("failed to save intent")
		}
	}

	q := r.URL.Query()

	data := &types.DashboardPageData{
		BasePageData:     types.BasePageData{Title: "Dashboard"},
		WelcomeName:      identity.Name(),
		DonorStatus:      outcome.State.String(),
		DonorStatusKnown: outcome.State.Known(),
		IsDonor:          outcome.State == eligibility.AuthenticatedDonor,
		Tab:              tabRequests,
		RequestFilter: types.ListingFilter{
			Query:     q.Get("request_q"),
			BloodType: listing.NormalizeBloodType(q.Get("request_blood_type")),
		},
		DonorFilter: types.ListingFilter{
			Query:     q.Get("donor_q"),
			BloodType: listing.NormalizeBloodType(q.Get("donor_blood_type")),
		},
		DonorFormOpen: outcome.OpenDonorForm,
		DonorForm:     forms.NewDonorForm(identity.DisplayName, identity.Email),
		DonorErrors:   types.FieldErrors{},
		RequestForm:   forms.NewRequestForm(),
		RequestErrors: types.FieldErrors{},
		BloodTypes:    types.BloodTypes,
		UrgencyLevels: types.UrgencyLevels,
		CountryCodes:  forms.CountryCodes,
	}

	if q.Get("tab") == tabDonors {
		data.Tab = tabDonors
	}

	if outcome.Donor != nil {
		data.MyDonor = s.donorCard(outcome.Donor)
	}

	s.loadListings(ctx, data)

	return data, true
}

func (s *Service) loadListings(ctx context.Context, data *types.DashboardPageData) {
	donors, err := s.donorRepo.Donors(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to load donors")
		data.ListingsUnavailable = true
		return
	}

	requests, err := s.requestRepo.Requests(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to load blood requests")
		data.ListingsUnavailable = true
		return
	}

	for _, request := range listing.Requests(requests, data.RequestFilter) {
		data.Requests = append(data.Requests, s.requestCard(request))
	}

	for _, donor := range listing.Donors(donors, data.DonorFilter) {
		data.Donors = append(data.Donors, s.donorCard(donor))
	}
}

func (s *Service) renderDashboard(w http.ResponseWriter, r *http.Request, data *types.DashboardPageData) {
	if err := s.renderTemplate(w, r, "page.dashboard", data); err != nil {
		s.logger.WithError(err).Error("failed to render dashboard page")
		s.internalServerError(w)
	}
}

// resolveIdentity reloads the account from the auth provider and falls back
// to the token claims when that fails.
func (s *Service) resolveIdentity(ctx context.Context, userID string) types.Identity {
	fallback := types.Identity{UserID: userID, Email: emailFromContext(ctx)}
	if userID == "" {
		return fallback
	}

	identity, err := s.auth.Profile(ctx, accessTokenFromContext(ctx))
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to reload user profile")
		return fallback
	}

	identity.UserID = userID
	if identity.Email == "" {
		identity.Email = fallback.Email
	}

	return identity
}

func (s *Service) donorCard(d *types.Donor) *types.DonorCard {
	card := &types.DonorCard{
		ID:           d.ID,
		FullName:     d.FullName,
		Email:        d.Email,
		Phone:        d.Phone,
		BloodType:    d.BloodType,
		BornOn:       longDate(d.DOB),
		LastDonation: "Not yet recorded",
		RegisteredOn: longDate(d.CreatedAt),
	}

	if d.LastDonation != nil {
		card.LastDonation = longDate(utils.PtrString(d.LastDonation))
	}

	if created, err := types.ParseInstant(d.CreatedAt); err == nil {
		card.RegisteredAgo = timeAgo(created, s.now())
	}

	return card
}

func (s *Service) requestCard(req *types.BloodRequest) *types.RequestCard {
	card := &types.RequestCard{
		ID:             req.ID,
		PatientName:    req.PatientName,
		HospitalName:   req.HospitalName,
		BloodType:      req.RequiredBloodType,
		Urgency:        req.Urgency,
		UrgencyClass:   "urgency-" + strings.ToLower(string(req.Urgency)),
		ContactPerson:  req.ContactPerson,
		ContactPhone:   req.ContactPhone,
		AdditionalInfo: utils.PtrString(req.AdditionalInfo),
	}

	if created, err := types.ParseInstant(req.CreatedAt); err == nil {
		card.PostedAgo = timeAgo(created, s.now())
	}

	return card
}
