package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"alcyxob/fitprogram/internal/domain"
)

func newTestAuth(t *testing.T) *authService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService("admin", string(hash), "test-secret", time.Hour).(*authService)
}

func TestAuthService_Login(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	token, principal, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, domain.RoleAdmin, principal.Role)

	parsed, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", parsed.Subject)
	assert.True(t, parsed.IsAdmin())

	_, _, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "root", "s3cret")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "", "")
	assert.Error(t, err)
}

func TestAuthService_LoginDisabledWithoutHash(t *testing.T) {
	svc := NewAuthService("admin", "", "test-secret", time.Hour)
	_, _, err := svc.Login(context.Background(), "admin", "anything")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_ParseTokenRejects(t *testing.T) {
	svc := newTestAuth(t)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.generateJWT(&domain.Principal{Subject: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService("admin", "", "other-secret", time.Hour).(*authService)
	foreign, err := other.generateJWT(&domain.Principal{Subject: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwtClaims{
		Role:             domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin", Issuer: tokenIssuer},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ParseToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_UnknownRoleIsViewer(t *testing.T) {
	svc := newTestAuth(t)
	token, err := svc.generateJWT(&domain.Principal{Subject: "guest", Role: "superuser"})
	require.NoError(t, err)

	p, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleViewer, p.Role)
}
