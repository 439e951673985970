package jwt

import (
	"Snack-Tracker/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret")
	token, err := svc.GenerateSessionToken("user-1")
	require.NoError(t, err)

	id, issued, err := svc.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
	assert.WithinDuration(t, time.Now(), issued, 5*time.Second)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	token, err := NewJWTService("one").GenerateSessionToken("user-1")
	require.NoError(t, err)

	_, _, err = NewJWTService("two").ParseSession(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTService_Expired(t *testing.T) {
	svc := &jwtService{
		secretKey: "secret",
		issuer:    "SNACKTRACK",
		ttl:       time.Minute,
		now:       func() time.Time { return time.Now().Add(-time.Hour) },
	}
	token, err := svc.GenerateSessionToken("user-1")
	require.NoError(t, err)

	_, _, err = svc.ParseSession(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_EmptyToken(t *testing.T) {
	_, _, err := NewJWTService("secret").ParseSession("")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestJWTService_MissingSecret(t *testing.T) {
	_, err := NewJWTService("").GenerateSessionToken("user-1")
	assert.Error(t, err)
}
