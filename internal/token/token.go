// Package token issues and verifies the signed identity tokens that carry a
// principal's id and role between requests.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"admin-console/internal/domain"
)

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Identity is the verified claim set of a token.
type Identity struct {
	PrincipalID string
	Role        domain.Role
}

// Issuer signs and validates HS256 identity tokens. Tokens are stateless and
// immutable once issued; expiry is the only deactivation mechanism.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer. An empty secret is tolerated here so the
// process can start, but every Issue/Verify call will fail closed with a
// ConfigError until a secret is configured.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the principal with expiry now+ttl. A
// non-positive ttl falls back to the issuer's configured lifetime.
func (i *Issuer) Issue(principalID string, role domain.Role, ttl time.Duration) (string, error) {
	if len(i.secret) == 0 {
		return "", domain.ErrConfig("JWT signing secret is not configured")
	}
	if ttl <= 0 {
		ttl = i.ttl
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  principalID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Verify validates a token and extracts the identity claims. It fails
// closed: malformed, unsigned, mis-signed, or never-expiring tokens return
// ErrInvalidToken, expired tokens return ErrExpiredToken, and an
// unconfigured secret returns a ConfigError. There is no partial trust.
func (i *Issuer) Verify(tokenString string) (Identity, error) {
	if len(i.secret) == 0 {
		return Identity{}, domain.ErrConfig("JWT signing secret is not configured")
	}
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, domain.ErrExpiredToken
		}
		return Identity{}, domain.ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, domain.ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, domain.ErrInvalidToken
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return Identity{}, domain.ErrInvalidToken
	}
	role := domain.Role(roleStr)
	if !role.Valid() {
		return Identity{}, domain.ErrInvalidToken
	}
	return Identity{PrincipalID: sub, Role: role}, nil
}
