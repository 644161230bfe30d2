package services

import (
	"testing"

	"BotAdmin/models"
	"BotAdmin/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrateAll(db))
	return storage.New(db)
}

func seedClient(t *testing.T, store storage.Store) *models.Client {
	t.Helper()
	client := &models.Client{
		Name:           "Loja Conceito",
		ChatTitle:      "Atendimento",
		WelcomeMessage: "Olá!",
	}
	require.NoError(t, store.CreateClient(client))
	return client
}

func seedSession(t *testing.T, store storage.Store, clientID uint, token string) *models.ChatSession {
	t.Helper()
	session := &models.ChatSession{
		ClientID:     clientID,
		SessionToken: token,
	}
	require.NoError(t, store.CreateChatSession(session))
	return session
}

func seedRule(t *testing.T, store storage.Store, clientID uint, keyword, reply string, active bool) *models.CustomResponse {
	t.Helper()
	rule := &models.CustomResponse{
		ClientID: clientID,
		Keyword:  keyword,
		Response: reply,
		IsActive: active,
	}
	require.NoError(t, store.CreateCustomResponse(rule))
	return rule
}

func seedAgent(t *testing.T, store storage.Store, userID uint, available bool) *models.SupportAgent {
	t.Helper()
	agent := &models.SupportAgent{
		UserID:      userID,
		IsAvailable: available,
	}
	require.NoError(t, store.CreateSupportAgent(agent))
	return agent
}
