package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercato/server/internal/model"
)

const testSecret = "test-jwt-secret-at-least-32-characters-long"

func TestJWT_roundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	userID := uuid.New()

	token, err := svc.Sign(userID, model.RoleBuyer)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, model.RoleBuyer, claims.Role)
}

func TestJWT_tamperedToken(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	token, err := svc.Sign(uuid.New(), model.RoleSeller)
	require.NoError(t, err)

	_, err = svc.Verify(token + "x")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestJWT_wrongSecret(t *testing.T) {
	token, err := NewJWTService(testSecret, time.Hour).Sign(uuid.New(), model.RoleBuyer)
	require.NoError(t, err)

	_, err = NewJWTService("a-completely-different-secret-value-here", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestJWT_expiredToken(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute)
	token, err := svc.Sign(uuid.New(), model.RoleBuyer)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated, "expired token must be indistinguishable from any other failure")
}
