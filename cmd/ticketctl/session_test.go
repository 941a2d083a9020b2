package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"support-system/internal/ticketlist"
	"support-system/pkg/service"
)

func TestSessionFromToken(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, zap.NewNop())
	token, err := jwtSvc.GenerateAccessToken("user-1", "engineer")
	require.NoError(t, err)

	s, err := sessionFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, ticketlist.RoleEngineer, s.Role)
}

func TestSessionFromToken_Errors(t *testing.T) {
	_, err := sessionFromToken("")
	assert.ErrorIs(t, err, errNoToken, "пустой токен")

	_, err = sessionFromToken("not-a-jwt")
	assert.Error(t, err, "мусор вместо токена")

	jwtSvc := service.NewJWTService("test-secret", time.Hour, zap.NewNop())
	token, err := jwtSvc.GenerateAccessToken("user-1", "")
	require.NoError(t, err)
	_, err = sessionFromToken(token)
	assert.Error(t, err, "токен без роли не принимается")
}
