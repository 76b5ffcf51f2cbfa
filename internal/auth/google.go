package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var ErrGoogleDisabled = errors.New("google sign-in not configured")

type GoogleIdentity struct {
	Email string
	Name  string
}

type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}

// IDTokenVerifier validates Google ID tokens against the OAuth client id.
type IDTokenVerifier struct {
	clientID string
}

func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: strings.TrimSpace(clientID)}
}

func (v *IDTokenVerifier) Verify(ctx context.Context, credential string) (*GoogleIdentity, error) {
	if v.clientID == "" {
		return nil, ErrGoogleDisabled
	}
	payload, err := idtoken.Validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identityFromClaims(payload.Claims)
}

func identityFromClaims(claims map[string]interface{}) (*GoogleIdentity, error) {
	email, _ := claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", ErrInvalidToken)
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)
	if strings.TrimSpace(name) == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	return &GoogleIdentity{Email: email, Name: name}, nil
}
