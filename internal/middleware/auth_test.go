package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-console/internal/domain"
	"admin-console/internal/token"
)

type fakeResolver struct {
	byEmail map[string]*domain.Principal
}

func (f *fakeResolver) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound("account not found")
}

type fakeExternal struct {
	email string
	err   error
}

func (f *fakeExternal) Validate(context.Context, string) (string, error) {
	return f.email, f.err
}

func echoActor(t *testing.T) (http.Handler, *domain.Actor) {
	t.Helper()
	var captured domain.Actor
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = domain.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &captured
}

func TestRequireAuth_ValidToken(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	auth := NewAuthenticator(issuer, nil, nil, nil)

	signed, err := issuer.Issue("principal-1", domain.RoleAdmin, 0)
	require.NoError(t, err)

	next, captured := echoActor(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	auth.RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "principal-1", captured.ID)
	assert.Equal(t, domain.RoleAdmin, captured.Role)
}

func TestRequireAuth_MissingOrMalformedHeader(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	auth := NewAuthenticator(issuer, nil, nil, nil)
	next, _ := echoActor(t)

	for _, header := range []string{"", "Bearer ", "Basic dXNlcjpwYXNz", "not-a-bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		auth.RequireAuth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	auth := NewAuthenticator(issuer, nil, nil, nil)

	signed, err := issuer.Issue("principal-1", domain.RoleUser, -time.Minute)
	require.NoError(t, err)

	next, _ := echoActor(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	auth.RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestRequireAuth_ExternalIdentityMapsToLocalAccount(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	resolver := &fakeResolver{byEmail: map[string]*domain.Principal{
		"alice@example.com": {ID: "principal-1", Role: domain.RoleAdmin},
	}}
	auth := NewAuthenticator(issuer, &fakeExternal{email: "Alice@Example.com"}, resolver, nil)

	next, captured := echoActor(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-external-token")
	rec := httptest.NewRecorder()
	auth.RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "principal-1", captured.ID)
	assert.Equal(t, domain.RoleAdmin, captured.Role)
}

func TestRequireAuth_ExternalIdentityWithoutLocalAccount(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	resolver := &fakeResolver{byEmail: map[string]*domain.Principal{}}
	auth := NewAuthenticator(issuer, &fakeExternal{email: "ghost@example.com"}, resolver, nil)

	next, _ := echoActor(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-external-token")
	rec := httptest.NewRecorder()
	auth.RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ExternalRejectionFallsThrough(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	auth := NewAuthenticator(issuer, &fakeExternal{err: errors.New("bad signature")}, &fakeResolver{}, nil)

	next, _ := echoActor(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer junk")
	rec := httptest.NewRecorder()
	auth.RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
