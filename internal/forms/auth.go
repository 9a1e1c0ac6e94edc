package forms

import (
	"strings"

	"donatelife/pkg/types"

	"github.com/asaskevich/govalidator"
)

const minPasswordLength = "6"

// AuthInput is either a SignInInput or a SignUpInput. The login form's mode
// picks the variant before any field is validated.
type AuthInput interface {
	authInput()
}

type SignInInput struct {
	Email    string
	Password string
}

type SignUpInput struct {
	FullName string
	Email    string
	Password string
}

func (SignInInput) authInput() {}
func (SignUpInput) authInput() {}

// ParseAuth validates the login page submission against the rules of its mode.
// Anything other than sign-up is treated as sign-in.
func ParseAuth(f types.AuthForm) (AuthInput, types.FieldErrors) {
	if f.Mode == types.AuthModeSignUp {
		return parseSignUp(f)
	}
	return parseSignIn(f)
}

func parseSignIn(f types.AuthForm) (AuthInput, types.FieldErrors) {
	errs := types.FieldErrors{}

	if !govalidator.IsEmail(f.Email) {
		errs.Add("email", "Please enter a valid email.")
	}

	if f.Password == "" {
		errs.Add("password", "Password is required.")
	}

	if errs.Any() {
		return nil, errs
	}

	return SignInInput{
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}, errs
}

func parseSignUp(f types.AuthForm) (AuthInput, types.FieldErrors) {
	errs := types.FieldErrors{}

	if !govalidator.MinStringLength(f.FullName, minNameLength) {
		errs.Add("fullName", "Full name must be at least 2 characters.")
	}

	if !govalidator.IsEmail(f.Email) {
		errs.Add("email", "Please enter a valid email.")
	}

	if !govalidator.MinStringLength(f.Password, minPasswordLength) {
		errs.Add("password", "Password must be at least 6 characters.")
	}

	if f.Password != f.ConfirmPassword {
		errs.Add("confirmPassword", "Passwords don't match.")
	}

	if errs.Any() {
		return nil, errs
	}

	return SignUpInput{
		FullName: strings.TrimSpace(f.FullName),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}, errs
}

func ValidateDisplayName(f types.DisplayNameForm) types.FieldErrors {
	errs := types.FieldErrors{}
	if !govalidator.MinStringLength(f.DisplayName, minNameLength) {
		errs.Add("displayName", "Display name must be at least 2 characters.")
	}
	return errs
}

func ValidateConfirmation(f types.ConfirmSignUpForm) types.FieldErrors {
	errs := types.FieldErrors{}
	if !govalidator.IsEmail(f.Email) {
		errs.Add("email", "Please enter a valid email.")
	}
	if strings.TrimSpace(f.Code) == "" {
		errs.Add("code", "Confirmation code is required.")
	}
	return errs
}
