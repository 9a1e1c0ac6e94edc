package auth

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// KeySetSource resolves a JWKS URL to a key set. *jwk.Cache satisfies it.
type KeySetSource interface {
	Lookup(ctx context.Context, u string) (jwk.Set, error)
}

type Claims struct {
	Subject  string
	Email    string
	Username string
}

type Verifier struct {
	keys    KeySetSource
	jwksURL string
	issuer  string
}

// JWKSURL is where a Cognito user pool publishes its signing keys.
func JWKSURL(issuer string) string {
	return issuer + "/.well-known/jwks.json"
}

func NewVerifier(keys KeySetSource, issuer string) *Verifier {
	return &Verifier{
		keys:    keys,
		jwksURL: JWKSURL(issuer),
		issuer:  issuer,
	}
}

// Verify checks the token signature, expiry and issuer and returns its claims.
func (v *Verifier) Verify(ctx context.Context, accessToken string) (*Claims, error) {
	set, err := v.keys.Lookup(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	opts := []jwt.ParseOption{
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse([]byte(accessToken), opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("%w: no subject claim", ErrInvalidToken)
	}

	claims := &Claims{Subject: subject}

	// email and username are optional claims
	_ = token.Get("email", &claims.Email)
	_ = token.Get("username", &claims.Username)

	return claims, nil
}
