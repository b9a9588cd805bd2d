package signal

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/internal/errors"
)

// Claims carried by the backend-issued credential token. The client side
// cannot check the signature (the secret stays on the backend); it only
// fails fast on malformed or already-expired tokens and leaves real
// verification to the backend on connect.
type Claims struct {
	MemberName string `json:"memberName,omitempty"`
	jwt.RegisteredClaims
}

func parseCredential(token string, now time.Time) (*Claims, error) {
	if token == "" {
		return nil, errors.New(engine.ErrAuthentication, "empty credential")
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(engine.ErrAuthentication, err, "malformed credential")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return nil, errors.New(engine.ErrAuthentication, "credential expired")
	}
	return claims, nil
}
