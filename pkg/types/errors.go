package types

import "errors"

var (
	ErrDonorNotFound  = errors.New("donor not found")
	ErrDonorExists    = errors.New("donor profile already exists for this account")
	ErrSubmitInFlight = errors.New("submission already in progress")
)
