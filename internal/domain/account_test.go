package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Password123!", ""},
		{"too short", "Pw1!", "at least 8 characters"},
		{"no uppercase", "password123!", "uppercase"},
		{"no lowercase", "PASSWORD123!", "lowercase"},
		{"no digit", "Password!!!", "number"},
		{"no symbol", "Password123", "special character"},
		{"symbol from full set", `Passw0rd"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	req := RegisterRequest{
		Name:     "  Alice Smith  ",
		Email:    " Alice@Example.COM ",
		Password: "Password123!",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Alice Smith", req.Name)
	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, RoleUser, req.Role, "empty role defaults to User")

	bad := RegisterRequest{Name: "Alice", Email: "no-at-sign", Password: "Password123!"}
	var vErr *ValidationError
	assert.ErrorAs(t, bad.Validate(), &vErr)
}

func TestUpdateRequest_Validate(t *testing.T) {
	name := " Bob Jones "
	email := " BOB@Example.com "
	req := UpdateRequest{Name: &name, Email: &email}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Bob Jones", *req.Name)
	assert.Equal(t, "bob@example.com", *req.Email)

	// Empty update is valid; nothing to check.
	assert.NoError(t, (&UpdateRequest{}).Validate())

	badRole := Role("Root")
	var vErr *ValidationError
	assert.ErrorAs(t, (&UpdateRequest{Role: &badRole}).Validate(), &vErr)

	weak := "weak"
	assert.ErrorAs(t, (&UpdateRequest{Password: &weak}).Validate(), &vErr)
}

func TestRole(t *testing.T) {
	assert.True(t, RoleSuperAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.False(t, RoleUser.AtLeast(RoleAdmin))
	assert.False(t, Role("Root").Valid())

	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	_, err = ParseRole("Root")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestActor(t *testing.T) {
	assert.True(t, Anonymous().IsAnonymous())
	assert.False(t, Authenticated("id-1", RoleUser).IsAnonymous())

	ctx := WithActor(context.Background(), Authenticated("id-1", RoleAdmin))
	actor := ActorFromContext(ctx)
	assert.Equal(t, "id-1", actor.ID)
	assert.Equal(t, RoleAdmin, actor.Role)

	assert.True(t, ActorFromContext(context.Background()).IsAnonymous())
}
