package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/leitner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestNewTokenService(t *testing.T) {
	t.Parallel() // Enable parallel execution

	_, err := NewTokenService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewTokenService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 0})
	assert.Error(t, err)

	svc, err := NewTokenService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel() // Enable parallel execution

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := newTokenService(testSecret, time.Hour, fixedClock(issued))
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), "alice", []string{"spanish", "french", "french"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, []string{"french", "spanish"}, claims.Decks)
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	_, err = svc.GenerateToken(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel() // Enable parallel execution

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := newTokenService(testSecret, time.Hour, fixedClock(issued))
	require.NoError(t, err)
	token, err := issuer.GenerateToken(context.Background(), "alice", nil)
	require.NoError(t, err)

	otherKey, err := newTokenService("another-secret-that-is-also-long-enough", time.Hour, fixedClock(issued))
	require.NoError(t, err)

	tests := []struct {
		name     string
		now      time.Time
		svc      *hmacTokenService
		token    string
		expected error
	}{
		{"expired", issued.Add(2 * time.Hour), issuer, token, ErrExpiredToken},
		{"within clock skew", issued.Add(61 * time.Minute), issuer, token, nil},
		{"not yet valid", issued.Add(-time.Hour), issuer, token, ErrTokenNotYetValid},
		{"wrong key", issued, otherKey, token, ErrInvalidToken},
		{"malformed", issued, issuer, "not.a.jwt", ErrInvalidToken},
		{"empty", issued, issuer, "", ErrMissingToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := *tc.svc
			svc.timeFunc = fixedClock(tc.now)

			claims, err := svc.ValidateToken(context.Background(), tc.token)
			if tc.expected == nil {
				require.NoError(t, err)
				assert.Equal(t, "alice", claims.Subject)
				return
			}
			assert.ErrorIs(t, err, tc.expected)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Now()
	svc, err := newTokenService(testSecret, time.Hour, fixedClock(now))
	require.NoError(t, err)

	claims := jwtCustomClaims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "mallory",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsCanAccess(t *testing.T) {
	t.Parallel() // Enable parallel execution

	all := &Claims{Subject: "a"}
	assert.True(t, all.CanAccess("anything"))

	scoped := &Claims{Subject: "a", Decks: []string{"french"}}
	assert.True(t, scoped.CanAccess("french"))
	assert.False(t, scoped.CanAccess("spanish"))
}
