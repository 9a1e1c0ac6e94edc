package server

import (
	"context"
	"errors"
	"net/http"

	"donatelife/internal/feed"
	"donatelife/internal/forms"
	"donatelife/internal/metrics"
	"donatelife/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	kindDonor   = "donor"
	kindRequest = "request"

	msgDonorCreated     = "Registration Successful! Thank you for registering as a blood donor. You are a lifesaver!"
	msgDonorFailed      = "Submission Failed: There was an error submitting your registration. Please try again."
	msgDonorExists      = "You are already registered as a donor."
	msgRequestCreated   = "Request Submitted: Your blood request has been submitted. We will contact you if a match is found."
	msgRequestFailed    = "Submission Failed: There was an error submitting your request. Please try again."
	msgSubmitInProgress = "Your previous submission is still being processed."
)

func (s *Service) handlePostDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}

	var submission types.DonorForm
	if err := decodeForm(r, &submission); err != nil {
		s.logger.WithError(err).Error("failed to decode donor form")
		s.internalServerError(w)
		return
	}

	key := userID + ":" + kindDonor
	if err := s.latch.TryAcquire(key); err != nil {
		s.metrics.IncrementSubmission(kindDonor, metrics.OutcomeInFlight)
		s.redirectWithError(w, r, "/dashboard", msgSubmitInProgress)
		return
	}
	defer s.latch.Release(key)

	if errs := forms.ValidateDonor(submission); errs.Any() {
		s.metrics.IncrementSubmission(kindDonor, metrics.OutcomeInvalid)
		s.renderDonorForm(w, r, submission, errs, "")
		return
	}

	donor := forms.ComposeDonor(userID, submission, s.now())
	err = s.donorRepo.CreateDonor(ctx, donor)
	if errors.Is(err, types.ErrDonorExists) {
		s.metrics.IncrementSubmission(kindDonor, metrics.OutcomeExists)
		s.redirectWithError(w, r, "/dashboard", msgDonorExists)
		return
	}
	if err != nil {
		s.metrics.IncrementSubmission(kindDonor, metrics.OutcomeFailed)
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to create donor")
		s.renderDonorForm(w, r, submission, types.FieldErrors{}, msgDonorFailed)
		return
	}

	s.metrics.IncrementSubmission(kindDonor, metrics.OutcomeCreated)
	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"donor_id": donor.ID,
	}).Info("donor registered")

	s.publish(ctx, feed.Event{Kind: feed.KindDonors, ID: donor.ID})
	s.redirectWithNotice(w, r, "/dashboard", msgDonorCreated)
}

func (s *Service) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}

	var submission types.BloodRequestForm
	if err := decodeForm(r, &submission); err != nil {
		s.logger.WithError(err).Error("failed to decode blood request form")
		s.internalServerError(w)
		return
	}

	key := userID + ":" + kindRequest
	if err := s.latch.TryAcquire(key); err != nil {
		s.metrics.IncrementSubmission(kindRequest, metrics.OutcomeInFlight)
		s.redirectWithError(w, r, "/dashboard", msgSubmitInProgress)
		return
	}
	defer s.latch.Release(key)

	if errs := forms.ValidateRequest(submission); errs.Any() {
		s.metrics.IncrementSubmission(kindRequest, metrics.OutcomeInvalid)
		s.renderRequestForm(w, r, submission, errs, "")
		return
	}

	request := forms.ComposeRequest(userID, submission, s.now())
	if err := s.requestRepo.CreateRequest(ctx, request); err != nil {
		s.metrics.IncrementSubmission(kindRequest, metrics.OutcomeFailed)
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to create blood request")
		s.renderRequestForm(w, r, submission, types.FieldErrors{}, msgRequestFailed)
		return
	}

	s.metrics.IncrementSubmission(kindRequest, metrics.OutcomeCreated)
	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"request_id": request.ID,
	}).Info("blood request submitted")

	s.publish(ctx, feed.Event{Kind: feed.KindRequests, ID: request.ID})
	s.redirectWithNotice(w, r, "/dashboard", msgRequestCreated)
}

// renderDonorForm re-renders the dashboard with the donor dialog open and the
// submitted values kept.
func (s *Service) renderDonorForm(w http.ResponseWriter, r *http.Request, submission types.DonorForm, errs types.FieldErrors, msg string) {
	data, ok := s.loadDashboard(w, r)
	if !ok {
		return
	}

	data.Error = msg
	data.DonorFormOpen = true
	data.DonorForm = submission
	data.DonorErrors = errs

	s.renderDashboard(w, r, data)
}

func (s *Service) renderRequestForm(w http.ResponseWriter, r *http.Request, submission types.BloodRequestForm, errs types.FieldErrors, msg string) {
	data, ok := s.loadDashboard(w, r)
	if !ok {
		return
	}

	data.Error = msg
	data.RequestFormOpen = true
	data.RequestForm = submission
	data.RequestErrors = errs

	s.renderDashboard(w, r, data)
}

func (s *Service) publish(ctx context.Context, e feed.Event) {
	if err := s.broker.Publish(ctx, e); err != nil {
		s.logger.WithError(err).WithField("kind", e.Kind).Warn("failed to publish listing event")
	}
}
