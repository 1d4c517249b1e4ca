// Package middleware provides HTTP middleware for request identification
// and bearer token authentication.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"admin-console/internal/domain"
	"admin-console/internal/token"
)

// PrincipalResolver looks up local accounts for externally issued identities.
type PrincipalResolver interface {
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
}

// Authenticator resolves bearer tokens into actors. Session tokens issued by
// the local Issuer are tried first; when an external identity provider is
// configured, its tokens are accepted as well and mapped to local accounts
// by their verified email claim.
type Authenticator struct {
	tokens   *token.Issuer
	external ExternalValidator
	resolver PrincipalResolver
	logger   *slog.Logger
}

// NewAuthenticator creates an Authenticator. external may be nil when no
// identity provider is configured.
func NewAuthenticator(tokens *token.Issuer, external ExternalValidator, resolver PrincipalResolver, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{tokens: tokens, external: external, resolver: resolver, logger: logger}
}

// RequireAuth returns middleware that rejects requests without a valid
// bearer token. On success the authenticated actor is stored in the
// request context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w, "authentication required")
			return
		}

		actor, err := a.resolve(r.Context(), raw)
		if err != nil {
			if errors.Is(err, domain.ErrExpiredToken) {
				writeUnauthorized(w, "token has expired")
				return
			}
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := domain.WithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) resolve(ctx context.Context, raw string) (domain.Actor, error) {
	identity, err := a.tokens.Verify(raw)
	if err == nil {
		return domain.Authenticated(identity.PrincipalID, identity.Role), nil
	}
	// Expiry is reported precisely even when an external provider is configured.
	if errors.Is(err, domain.ErrExpiredToken) || a.external == nil || a.resolver == nil {
		return domain.Actor{}, err
	}

	email, extErr := a.external.Validate(ctx, raw)
	if extErr != nil {
		a.logger.Debug("external token rejected", "error", extErr)
		return domain.Actor{}, domain.ErrInvalidToken
	}
	p, findErr := a.resolver.FindByEmail(ctx, domain.NormalizeEmail(email))
	if findErr != nil {
		a.logger.Debug("no local account for external identity", "error", findErr)
		return domain.Actor{}, domain.ErrInvalidToken
	}
	return domain.Authenticated(p.ID, p.Role), nil
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
