package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	jwt.RegisteredClaims
	Libraries []Membership `json:"libraries"`
}

// JWTAuthority verifies HS256 tokens whose "libraries" claim lists the caller's memberships.
type JWTAuthority struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTAuthority(secret, issuer string) (*JWTAuthority, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwt secret must be at least 32 bytes")
	}

	return &JWTAuthority{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

func (a *JWTAuthority) Resolve(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var c claims

	if _, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) { return a.secret, nil }, opts...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if c.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}

	memberships := make([]Membership, 0, len(c.Libraries))
	for _, m := range c.Libraries {
		if m.Role.Valid() {
			memberships = append(memberships, m)
		}
	}

	return &Identity{Subject: c.Subject, Memberships: memberships}, nil
}

// Issue signs a token for subject. It backs the admin CLI and tests.
func (a *JWTAuthority) Issue(subject string, memberships []Membership, ttl time.Duration) (string, error) {
	now := a.now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Libraries: memberships,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}
