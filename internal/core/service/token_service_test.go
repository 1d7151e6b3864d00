package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesaas/notes-api/internal/core/domain"
)

var member = &domain.User{ID: "u2", Email: "user@acme.test", Role: domain.RoleMember, TenantID: "acme"}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(member)
	require.NoError(t, err)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: "u2", Email: "user@acme.test", Role: domain.RoleMember, TenantID: "acme"}, id)
}

func TestTokenService_RejectsTampering(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	token, err := svc.Issue(member)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	t.Run("payload swapped", func(t *testing.T) {
		admin, err := svc.Issue(&domain.User{ID: "u2", Email: "user@acme.test", Role: domain.RoleAdmin, TenantID: "acme"})
		require.NoError(t, err)
		forged := parts[0] + "." + strings.Split(admin, ".")[1] + "." + parts[2]

		_, err = svc.Verify(forged)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("signature truncated", func(t *testing.T) {
		_, err := svc.Verify(token[:len(token)-2])
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		_, err := NewTokenService("other", time.Hour).Verify(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	svc := NewTokenService("secret", time.Hour, WithClock(func() time.Time { return now }))

	token, err := svc.Issue(member)
	require.NoError(t, err)

	now = issuedAt.Add(59 * time.Minute)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	now = issuedAt.Add(61 * time.Minute)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_DefaultTTL(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	svc := NewTokenService("secret", 0, WithClock(func() time.Time { return now }))

	token, err := svc.Issue(member)
	require.NoError(t, err)

	now = issuedAt.Add(23 * time.Hour)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	now = issuedAt.Add(25 * time.Hour)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_RejectsForeignClaims(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	sign := func(method jwt.SigningMethod, key any, c jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, c).SignedString(key)
		require.NoError(t, err)
		return s
	}

	cases := map[string]string{
		"unknown role": sign(jwt.SigningMethodHS256, []byte("secret"), claims{
			UserID: "u1", Role: "Owner", TenantID: "acme",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
		}),
		"missing tenant": sign(jwt.SigningMethodHS256, []byte("secret"), claims{
			UserID: "u1", Role: domain.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
		}),
		"missing expiry": sign(jwt.SigningMethodHS256, []byte("secret"), claims{
			UserID: "u1", Role: domain.RoleAdmin, TenantID: "acme",
		}),
		"other hmac": sign(jwt.SigningMethodHS512, []byte("secret"), claims{
			UserID: "u1", Role: domain.RoleAdmin, TenantID: "acme",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
		}),
		"alg none": sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claims{
			UserID: "u1", Role: domain.RoleAdmin, TenantID: "acme",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
		}),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}
