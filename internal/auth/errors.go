package auth

import (
	"errors"
	"fmt"

	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmailInUse        = errors.New("email already in use")
	ErrNotConfirmed      = errors.New("account not confirmed")
	ErrCodeMismatch      = errors.New("confirmation code mismatch")
	ErrWeakPassword      = errors.New("password rejected by pool policy")
	ErrInvalidToken      = errors.New("invalid access token")
)

const (
	msgInvalidCredential = "Incorrect email or password."
	msgSignInFailed      = "An unexpected error occurred. Please try again."
	msgEmailInUse        = "An account with this email already exists."
	msgSignUpFailed      = "Could not create your account. Please try again."
	msgWeakPassword      = "Password must include uppercase, lowercase, number, and symbol."
	msgCodeMismatch      = "Invalid confirmation code. Please check the code and try again."
	msgConfirmFailed     = "Unable to confirm account. Please try again."
)

// classify maps Cognito exceptions onto the package sentinels. Unknown errors
// are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var notAuthorized *ctypes.NotAuthorizedException
	var userNotFound *ctypes.UserNotFoundException
	if errors.As(err, &notAuthorized) || errors.As(err, &userNotFound) {
		return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		return fmt.Errorf("%w: %w", ErrEmailInUse, err)
	}

	var invalidPassword *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPassword) {
		return fmt.Errorf("%w: %w", ErrWeakPassword, err)
	}

	var notConfirmed *ctypes.UserNotConfirmedException
	if errors.As(err, &notConfirmed) {
		return fmt.Errorf("%w: %w", ErrNotConfirmed, err)
	}

	var codeMismatch *ctypes.CodeMismatchException
	if errors.As(err, &codeMismatch) {
		return fmt.Errorf("%w: %w", ErrCodeMismatch, err)
	}

	return err
}

// SignInMessage is the single notice shown for a failed sign in.
func SignInMessage(err error) string {
	if errors.Is(err, ErrInvalidCredential) {
		return msgInvalidCredential
	}
	return msgSignInFailed
}

func SignUpMessage(err error) string {
	if errors.Is(err, ErrEmailInUse) {
		return msgEmailInUse
	}
	return msgSignUpFailed
}

// PasswordPolicyMessage is the field message for a password the pool refused.
func PasswordPolicyMessage() string {
	return msgWeakPassword
}

func ConfirmMessage(err error) string {
	if errors.Is(err, ErrCodeMismatch) {
		return msgCodeMismatch
	}
	return msgConfirmFailed
}
