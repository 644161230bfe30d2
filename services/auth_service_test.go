package services

import (
	"testing"

	"BotAdmin/config"
	"BotAdmin/models"
	"BotAdmin/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *models.User, storage.Store) {
	t.Helper()
	store := newTestStore(t)

	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	user := &models.User{
		Username: "admin",
		Password: hash,
		Name:     "Administrator",
	}
	require.NoError(t, store.CreateUser(user))

	svc := NewAuthService(store, &config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenExpiry:   1,
		RefreshExpiry: 24,
	})
	return svc, user, store
}

func TestLoginSuccess(t *testing.T) {
	svc, user, _ := newAuthService(t)

	response, err := svc.Login("admin", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, user.ID, response.User.ID)
	assert.Nil(t, response.AgentID)
}

func TestLoginAttachesAgentID(t *testing.T) {
	svc, user, store := newAuthService(t)
	agent := seedAgent(t, store, user.ID, true)

	response, err := svc.Login("admin", "secret123")
	require.NoError(t, err)
	require.NotNil(t, response.AgentID)
	assert.Equal(t, agent.ID, *response.AgentID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Login("nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, user, _ := newAuthService(t)

	response, err := svc.Login("admin", "secret123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(response.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Username)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	svc, user, _ := newAuthService(t)

	response, err := svc.Login("admin", "secret123")
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(response.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, user.ID, refreshed.User.ID)

	_, err = svc.RefreshToken("bogus")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
