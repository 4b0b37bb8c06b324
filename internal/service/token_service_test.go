package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService("test-jwt-secret-key-for-testing-only", time.Hour)
	id := uuid.New()

	token, err := svc.Issue(id)
	require.NoError(t, err)

	got, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenService_Validate(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	id := uuid.New()

	expired := NewTokenService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Issue(id)
	require.NoError(t, err)

	otherSecret, err := NewTokenService("other", time.Hour).Issue(id)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": id.String()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expiredToken},
		{name: "wrong secret", token: otherSecret},
		{name: "unsigned", token: noneToken},
		{name: "bad subject", token: badSubject},
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
