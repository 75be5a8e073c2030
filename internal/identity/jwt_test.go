package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronghieu/ezlib-sub005/internal/identity"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestJWTAuthority_RoundTrip(t *testing.T) {
	auth, err := identity.NewJWTAuthority(secret, "ezlib")
	require.NoError(t, err)

	lib := uuid.New()
	staff := uuid.New()

	token, err := auth.Issue(staff.String(), []identity.Membership{
		{LibraryID: lib, Role: identity.RoleLibrarian},
		{LibraryID: uuid.New(), Role: "janitor"},
	}, time.Hour)
	require.NoError(t, err)

	id, err := auth.Resolve(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, staff, *id.ActorID())
	require.Len(t, id.Memberships, 1, "unknown roles are dropped")

	role, ok := id.RoleIn(lib)
	require.True(t, ok)
	assert.True(t, role.AtLeast(identity.RoleLibrarian))
	assert.False(t, role.AtLeast(identity.RoleManager))

	_, ok = id.RoleIn(uuid.New())
	assert.False(t, ok)
}

func TestJWTAuthority_Rejects(t *testing.T) {
	auth, err := identity.NewJWTAuthority(secret, "ezlib")
	require.NoError(t, err)

	other, err := identity.NewJWTAuthority("ffffffffffffffffffffffffffffffff", "ezlib")
	require.NoError(t, err)

	wrongIssuer, err := identity.NewJWTAuthority(secret, "someone-else")
	require.NoError(t, err)

	expired, err := auth.Issue("staff", nil, -time.Minute)
	require.NoError(t, err)

	forged, err := other.Issue("staff", nil, time.Hour)
	require.NoError(t, err)

	foreign, err := wrongIssuer.Issue("staff", nil, time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "staff",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"Empty":       "",
		"Garbage":     "not-a-token",
		"Expired":     expired,
		"WrongSecret": forged,
		"WrongIssuer": foreign,
		"AlgNone":     none,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Resolve(context.Background(), token)
			assert.ErrorIs(t, err, identity.ErrUnauthenticated)
		})
	}
}

func TestNewJWTAuthority_ShortSecret(t *testing.T) {
	_, err := identity.NewJWTAuthority("short", "")
	assert.Error(t, err)
}

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, identity.RoleOwner.AtLeast(identity.RoleManager))
	assert.True(t, identity.RoleManager.AtLeast(identity.RoleManager))
	assert.False(t, identity.RoleMember.AtLeast(identity.RoleLibrarian))
	assert.False(t, identity.Role("").AtLeast(identity.RoleMember))
}
