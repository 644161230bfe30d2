package storage

import (
	"sync"
	"testing"
	"time"

	"BotAdmin/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrateAll(db))
	return New(db)
}

func seedClient(t *testing.T, store Store, name string) *models.Client {
	t.Helper()
	client := &models.Client{
		Name:           name,
		ChatTitle:      name + " Chat",
		WelcomeMessage: "Hello!",
	}
	require.NoError(t, store.CreateClient(client))
	return client
}

func TestGetClientByIDNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetClientByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateClientSeedsStatistics(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store, "Acme")

	stats, err := store.GetStatisticsByClientID(client.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 0, stats[0].MessageCount)
	assert.Equal(t, 0, stats[0].UserCount)
}

func TestDeleteClientMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.DeleteClient(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetChatSessionByToken(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store, "Acme")

	session := &models.ChatSession{
		ClientID:     client.ID,
		SessionToken: "tok-abc",
	}
	require.NoError(t, store.CreateChatSession(session))

	found, err := store.GetChatSessionByToken("tok-abc")
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)

	_, err = store.GetChatSessionByToken("tok-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateChatSessionCountsUser(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store, "Acme")

	for i := 0; i < 3; i++ {
		session := &models.ChatSession{
			ClientID:     client.ID,
			SessionToken: "tok-" + string(rune('a'+i)),
		}
		require.NoError(t, store.CreateChatSession(session))
	}

	stats, err := store.GetStatisticsByClientID(client.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].UserCount)
}

func TestCreateChatMessageSideEffects(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store, "Acme")

	session := &models.ChatSession{ClientID: client.ID, SessionToken: "tok-1"}
	require.NoError(t, store.CreateChatSession(session))

	before, err := store.GetChatSession(session.ID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.CreateChatMessage(&models.ChatMessage{
		SessionID:     session.ID,
		Content:       "hello",
		IsUserMessage: true,
	}))
	require.NoError(t, store.CreateChatMessage(&models.ChatMessage{
		SessionID:     session.ID,
		Content:       "help me",
		IsUserMessage: true,
		NeedsSupport:  true,
	}))

	after, err := store.GetChatSession(session.ID)
	require.NoError(t, err)
	assert.True(t, after.LastActive.After(before.LastActive))

	stats, err := store.GetStatisticsByClientID(client.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].MessageCount)
	assert.Equal(t, 1, stats[0].SupportRequestCount)
}

func TestConcurrentIncrementsLoseNothing(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store, "Acme")

	const n = 25
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, store.IncrementMessageCount(client.ID))
		}()
	}
	wg.Wait()

	stats, err := store.GetStatisticsByClientID(client.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, n, stats[0].MessageCount)
}

func TestGetOpenSupportChatSkipsClosed(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store, "Acme")

	session := &models.ChatSession{ClientID: client.ID, SessionToken: "tok-1"}
	require.NoError(t, store.CreateChatSession(session))

	closed := &models.SupportChat{
		ClientID:  client.ID,
		SessionID: session.ID,
		Status:    models.SupportChatClosed,
	}
	require.NoError(t, store.CreateSupportChat(closed))

	_, err := store.GetOpenSupportChatBySessionID(session.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	open := &models.SupportChat{
		ClientID:  client.ID,
		SessionID: session.ID,
		Status:    models.SupportChatActive,
	}
	require.NoError(t, store.CreateSupportChat(open))

	found, err := store.GetOpenSupportChatBySessionID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, found.ID)
}

func TestFirstAvailableAgent(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FirstAvailableAgent()
	assert.ErrorIs(t, err, ErrNotFound)

	busy := &models.SupportAgent{UserID: 1, IsAvailable: false}
	require.NoError(t, store.CreateSupportAgent(busy))
	free := &models.SupportAgent{UserID: 2, IsAvailable: true}
	require.NoError(t, store.CreateSupportAgent(free))

	agent, err := store.FirstAvailableAgent()
	require.NoError(t, err)
	assert.Equal(t, free.ID, agent.ID)
}

func TestCreateSupportAgentKeepsUnavailable(t *testing.T) {
	store := newTestStore(t)

	agent := &models.SupportAgent{UserID: 1, IsAvailable: false}
	require.NoError(t, store.CreateSupportAgent(agent))

	found, err := store.GetSupportAgent(agent.ID)
	require.NoError(t, err)
	assert.False(t, found.IsAvailable)
}

func TestCreateCustomResponseKeepsInactive(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store, "Acme")

	rule := &models.CustomResponse{
		ClientID: client.ID,
		Keyword:  "horario",
		Response: "das 9h às 18h",
		IsActive: false,
	}
	require.NoError(t, store.CreateCustomResponse(rule))

	found, err := store.GetCustomResponse(rule.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestCreateClientKeepsEmptyColors(t *testing.T) {
	store := newTestStore(t)

	client := &models.Client{Name: "Plain", ChatTitle: "Chat", WelcomeMessage: "Oi"}
	require.NoError(t, store.CreateClient(client))

	found, err := store.GetClientByID(client.ID)
	require.NoError(t, err)
	assert.Empty(t, found.PrimaryColor)
	assert.Empty(t, found.SecondaryColor)
}

func TestCreateSupportMessageBumpsChat(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store, "Acme")

	session := &models.ChatSession{ClientID: client.ID, SessionToken: "tok-1"}
	require.NoError(t, store.CreateChatSession(session))

	chat := &models.SupportChat{ClientID: client.ID, SessionID: session.ID}
	require.NoError(t, store.CreateSupportChat(chat))

	before, err := store.GetSupportChat(chat.ID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.CreateSupportMessage(&models.SupportMessage{
		ChatID:  chat.ID,
		Content: "anyone there?",
	}))

	after, err := store.GetSupportChat(chat.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestMarkSupportMessagesRead(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store, "Acme")

	session := &models.ChatSession{ClientID: client.ID, SessionToken: "tok-1"}
	require.NoError(t, store.CreateChatSession(session))
	chat := &models.SupportChat{ClientID: client.ID, SessionID: session.ID}
	require.NoError(t, store.CreateSupportChat(chat))

	require.NoError(t, store.CreateSupportMessage(&models.SupportMessage{ChatID: chat.ID, Content: "a"}))
	require.NoError(t, store.CreateSupportMessage(&models.SupportMessage{ChatID: chat.ID, Content: "b"}))

	require.NoError(t, store.MarkSupportMessagesRead(chat.ID))

	messages, err := store.GetSupportMessagesByChatID(chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	for _, m := range messages {
		assert.True(t, m.IsRead)
	}
}

func TestGetDashboardStatsAggregates(t *testing.T) {
	store := newTestStore(t)
	a := seedClient(t, store, "Acme")
	b := seedClient(t, store, "Beta")

	require.NoError(t, store.IncrementMessageCount(a.ID))
	require.NoError(t, store.IncrementMessageCount(a.ID))
	require.NoError(t, store.IncrementMessageCount(b.ID))
	require.NoError(t, store.IncrementUserCount(a.ID))
	require.NoError(t, store.IncrementSupportRequestCount(b.ID))

	stats, err := store.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalBots)
	assert.Equal(t, 3, stats.MessagesToday)
	assert.Equal(t, 1, stats.ActiveUsers)
	assert.Equal(t, 1, stats.SupportRequests)
}
