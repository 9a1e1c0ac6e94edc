// Package eligibility decides, for the signed-in visitor, whether they are a
// registered donor and whether the one-shot donor registration prompt fires.
package eligibility

import (
	"context"
	"errors"

	"donatelife/internal/intent"
	"donatelife/pkg/types"
)

type State int

const (
	Unauthenticated State = iota
	AuthenticatedUnknownDonorStatus
	AuthenticatedDonor
	AuthenticatedNonDonorNoPrompt
	AuthenticatedNonDonorPromptPending
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedUnknownDonorStatus:
		return "unknown"
	case AuthenticatedDonor:
		return "donor"
	case AuthenticatedNonDonorNoPrompt:
		return "non-donor"
	case AuthenticatedNonDonorPromptPending:
		return "prompt-pending"
	}
	return "invalid"
}

// Known reports whether the donor status was actually determined.
func (s State) Known() bool {
	return s == AuthenticatedDonor || s == AuthenticatedNonDonorNoPrompt || s == AuthenticatedNonDonorPromptPending
}

const LoginPath = "/login"

type DonorLookup interface {
	DonorByUserID(ctx context.Context, userID string) (*types.Donor, error)
}

type Outcome struct {
	State State

	// Donor is set only in the AuthenticatedDonor state.
	Donor *types.Donor

	// OpenDonorForm asks this render to show the registration dialog. It is
	// only ever set when the prompt fires.
	OpenDonorForm bool

	// Intent is the intent to persist. IntentChanged is false when it equals
	// the input.
	Intent        intent.Intent
	IntentChanged bool

	// RedirectTo is set when the visitor must leave the page.
	RedirectTo string

	// Err is the lookup failure behind an unknown status.
	Err error
}

// Evaluate runs one pass of the flow. It is safe to call on every visit: only
// the prompt is one-shot, and it is disarmed through the returned intent.
// Feeding the returned intent back in never opens the dialog again.
func Evaluate(ctx context.Context, lookup DonorLookup, userID string, in intent.Intent) Outcome {
	out := Outcome{Intent: in}

	if userID == "" {
		out.State = Unauthenticated
		out.RedirectTo = LoginPath
		return out
	}

	donor, err := lookup.DonorByUserID(ctx, userID)
	switch {
	case err == nil && donor != nil:
		out.State = AuthenticatedDonor
		out.Donor = donor

	case err != nil && !errors.Is(err, types.ErrDonorNotFound):
		out.State = AuthenticatedUnknownDonorStatus
		out.Err = err
		return out

	case in.Role == types.RoleDonor && in.JustSignedUp:
		// the dialog opens for this render only; the stored intent is
		// disarmed so a refresh or later visit cannot fire it again
		out.State = AuthenticatedNonDonorPromptPending
		out.OpenDonorForm = true
		out.Intent = intent.Intent{}

	default:
		out.State = AuthenticatedNonDonorNoPrompt
	}

	out.IntentChanged = out.Intent != in
	return out
}
