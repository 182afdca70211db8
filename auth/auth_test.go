package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16"

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	_, err := NewTokenService("short", time.Hour)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := svc.Generate("user-1", "admin@example.com")
	require.NoError(t, err)

	id, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestExpiredToken(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateWithDuration("user-1", "", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenFromOtherSecret(t *testing.T) {
	a, _ := NewTokenService(testSecret, time.Hour)
	b, _ := NewTokenService("another-secret-of-16", time.Hour)

	token, err := a.Generate("user-1", "")
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = a.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPasswordHashAndVerify(t *testing.T) {
	p := NewPasswordServiceWithCost(4)

	hash, err := p.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, p.Verify(hash, "hunter22"))
	assert.ErrorIs(t, p.Verify(hash, "wrong"), ErrPasswordMismatch)

	_, err = p.Hash("")
	assert.Error(t, err)
}
