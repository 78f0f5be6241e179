package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerbridge/careerbridge-api/internal/domain"
	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	"github.com/careerbridge/careerbridge-api/pkg/helpers"
)

func newAuthFixture(t *testing.T, accounts ...*entity.Account) *AuthService {
	t.Helper()
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
	return NewAuthService(newFakeAccountRepo(accounts...), jwt, nil, testLogger())
}

func hashed(t *testing.T, plain string) string {
	t.Helper()
	h, err := helpers.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func TestLoginIssuesTokensForAdmin(t *testing.T) {
	svc := newAuthFixture(t, &entity.Account{
		ID: "adm-1", Email: "ops@x.test", Password: hashed(t, "hunter22"),
		Role: entity.RoleAdmin, IsActive: true,
	})

	acct, pair, err := svc.Login(context.Background(), "ops@x.test", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "adm-1", acct.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessTokenExpiry.After(time.Now()))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "adm-1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	svc := newAuthFixture(t, &entity.Account{
		ID: "adm-1", Email: "ops@x.test", Password: hashed(t, "hunter22"),
		Role: entity.RoleAdmin, IsActive: true,
	})

	_, pair, err := svc.Login(context.Background(), "ops@x.test", "hunter22")
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)

	// the rotated pair keeps the caller's identity and session
	old, err := svc.JWT.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := svc.JWT.ParseAccessToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "adm-1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, old.SessionID, claims.SessionID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newAuthFixture(t, &entity.Account{
		ID: "adm-1", Email: "ops@x.test", Password: hashed(t, "hunter22"),
		Role: entity.RoleAdmin, IsActive: true,
	})

	_, pair, err := svc.Login(context.Background(), "ops@x.test", "hunter22")
	require.NoError(t, err)

	// access tokens are signed with a different secret
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc := newAuthFixture(t)
	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newAuthFixture(t, &entity.Account{
		ID: "adm-1", Email: "ops@x.test", Password: hashed(t, "hunter22"),
		Role: entity.RoleAdmin, IsActive: true,
	})

	_, _, err := svc.Login(context.Background(), "ops@x.test", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newAuthFixture(t)
	_, _, err := svc.Login(context.Background(), "ghost@x.test", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginRejectsSuspendedAdmin(t *testing.T) {
	svc := newAuthFixture(t, &entity.Account{
		ID: "adm-1", Email: "ops@x.test", Password: hashed(t, "hunter22"),
		Role: entity.RoleAdmin, IsActive: false,
	})

	_, _, err := svc.Login(context.Background(), "ops@x.test", "hunter22")
	assert.ErrorIs(t, err, domain.ErrAccountSuspended)
}

func TestLoginRejectsNonAdminRole(t *testing.T) {
	svc := newAuthFixture(t, &entity.Account{
		ID: "stu-1", Email: "stu@x.test", Password: hashed(t, "hunter22"),
		Role: entity.RoleStudent, IsActive: true,
	})

	_, _, err := svc.Login(context.Background(), "stu@x.test", "hunter22")
	assert.ErrorIs(t, err, domain.ErrNotAdmin)
}
