package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/inbox-ai/internal/config"
)

const (
	testSecret  = "a-very-long-signing-secret-for-tests-only"
	wrongSecret = "another-very-long-signing-secret-for-tests"
)

var fixedTime = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewTokenService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 0})
	assert.Error(t, err)

	svc, err := NewTokenService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	svc := newHMACTokenService(testSecret, time.Hour, fixedClock(fixedTime))

	token, expiresAt, err := svc.GenerateToken(context.Background(), "inbox-ui")
	require.NoError(t, err)
	assert.Equal(t, fixedTime.Add(time.Hour), expiresAt)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "inbox-ui", claims.ClientID)
	assert.True(t, claims.IssuedAt.Equal(fixedTime))
	assert.True(t, claims.ExpiresAt.Equal(expiresAt))
	assert.NotEmpty(t, claims.ID)

	other, _, err := svc.GenerateToken(context.Background(), "inbox-ui")
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "every token carries a fresh id")
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	generate := func(secret string, now time.Time) string {
		token, _, err := newHMACTokenService(secret, time.Hour, fixedClock(now)).
			GenerateToken(context.Background(), "inbox-ui")
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name    string
		token   string
		at      time.Time
		wantErr error
	}{
		{
			name:  "valid",
			token: generate(testSecret, fixedTime),
			at:    fixedTime.Add(30 * time.Minute),
		},
		{
			name:  "within clock skew after expiry",
			token: generate(testSecret, fixedTime),
			at:    fixedTime.Add(time.Hour + 30*time.Second),
		},
		{
			name:    "expired",
			token:   generate(testSecret, fixedTime),
			at:      fixedTime.Add(2 * time.Hour),
			wantErr: ErrExpiredToken,
		},
		{
			name:    "issued in the future",
			token:   generate(testSecret, fixedTime.Add(10*time.Minute)),
			at:      fixedTime,
			wantErr: ErrTokenNotYetValid,
		},
		{
			name:    "wrong signature",
			token:   generate(wrongSecret, fixedTime),
			at:      fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "malformed",
			token:   "this.is.not.a.valid.jwt",
			at:      fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "missing",
			token:   "",
			at:      fixedTime,
			wantErr: ErrMissingToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newHMACTokenService(testSecret, time.Hour, fixedClock(tt.at))
			claims, err := svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "inbox-ui", claims.ClientID)
		})
	}
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := tokenClaims{
		ClientID: "inbox-ui",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := newHMACTokenService(testSecret, time.Hour, fixedClock(fixedTime))
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RequiresClientAndExpiry(t *testing.T) {
	t.Parallel()

	svc := newHMACTokenService(testSecret, time.Hour, fixedClock(fixedTime))

	noClient, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), noClient)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{ClientID: "inbox-ui"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), noExpiry)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
