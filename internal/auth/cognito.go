package auth

import (
	"context"
	"fmt"

	"donatelife/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoAPI is the subset of the Cognito user pool client used here.
type CognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
	GetUser(ctx context.Context, params *cognitoidentityprovider.GetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error)
	UpdateUserAttributes(ctx context.Context, params *cognitoidentityprovider.UpdateUserAttributesInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.UpdateUserAttributesOutput, error)
}

type Session struct {
	AccessToken string
	ExpiresIn   int
}

type Cognito struct {
	api      CognitoAPI
	clientID string
}

func NewCognito(api CognitoAPI, clientID string) *Cognito {
	return &Cognito{api: api, clientID: clientID}
}

func (c *Cognito) SignIn(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.api.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initiate auth: %w", classify(err))
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		return nil, fmt.Errorf("initiate auth returned no access token (challenge %q)", resp.ChallengeName)
	}

	return &Session{
		AccessToken: aws.ToString(resp.AuthenticationResult.AccessToken),
		ExpiresIn:   int(resp.AuthenticationResult.ExpiresIn),
	}, nil
}

// SignUp creates the account with the email as username and the display name
// as the "name" attribute. It reports whether the pool confirmed the account
// without a code.
func (c *Cognito) SignUp(ctx context.Context, name, email, password string) (bool, error) {
	resp, err := c.api.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("name"), Value: aws.String(name)},
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to sign up: %w", classify(err))
	}

	return resp.UserConfirmed, nil
}

func (c *Cognito) ConfirmSignUp(ctx context.Context, email, code string) error {
	_, err := c.api.ConfirmSignUp(ctx, &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		return fmt.Errorf("failed to confirm sign up: %w", classify(err))
	}
	return nil
}

// Profile fetches the current attributes of the account behind accessToken.
func (c *Cognito) Profile(ctx context.Context, accessToken string) (types.Identity, error) {
	resp, err := c.api.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return types.Identity{}, fmt.Errorf("failed to get user: %w", classify(err))
	}

	var identity types.Identity
	for _, attr := range resp.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			identity.UserID = aws.ToString(attr.Value)
		case "email":
			identity.Email = aws.ToString(attr.Value)
		case "name":
			identity.DisplayName = aws.ToString(attr.Value)
		}
	}

	if identity.UserID == "" {
		identity.UserID = aws.ToString(resp.Username)
	}

	return identity, nil
}

func (c *Cognito) UpdateDisplayName(ctx context.Context, accessToken, name string) error {
	_, err := c.api.UpdateUserAttributes(ctx, &cognitoidentityprovider.UpdateUserAttributesInput{
		AccessToken: aws.String(accessToken),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("name"), Value: aws.String(name)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", classify(err))
	}
	return nil
}
