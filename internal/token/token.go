// internal/token/token.go
//
// Session tokens.
// Responsibilities:
//   - Sign one HS256 JWT per session (claims: gid, iat, exp).
//   - Parse and verify a presented token back into its session id.
//
// Notes:
//   - Clients get the token from /game/new or /daily/new and send it as
//     "Authorization: Bearer <token>" (or ?token= on the websocket handshake).
//   - Malformed, tampered and expired tokens all map to ErrInvalid.

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid covers malformed, tampered and expired tokens.
var ErrInvalid = errors.New("invalid token")

// Issuer signs tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. ttl must be positive.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token: empty secret")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token: ttl must be positive, got %s", ttl)
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Sign returns a token bound to gameID and its expiry.
func (i *Issuer) Sign(gameID string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gid": gameID,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	})
	ss, err := t.SignedString(i.secret)
	return ss, exp, err
}

// Parse verifies tok and returns the session id it is bound to.
func (i *Issuer) Parse(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !t.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	gid, _ := claims["gid"].(string)
	if gid == "" {
		return "", fmt.Errorf("%w: missing gid", ErrInvalid)
	}
	return gid, nil
}
