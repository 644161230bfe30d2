package services

import (
	"testing"

	"BotAdmin/models"
	"BotAdmin/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedChat(t *testing.T, store storage.Store, clientID, sessionID uint) *models.SupportChat {
	t.Helper()
	chat := &models.SupportChat{
		ClientID:  clientID,
		SessionID: sessionID,
		Status:    models.SupportChatPending,
	}
	require.NoError(t, store.CreateSupportChat(chat))
	return chat
}

func TestUpdateStatusClosesChat(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	session := seedSession(t, store, client.ID, "tok-1")
	chat := seedChat(t, store, client.ID, session.ID)

	svc := NewSupportService(store)

	updated, err := svc.UpdateStatus(chat.ID, models.SupportChatClosed)
	require.NoError(t, err)
	assert.Equal(t, models.SupportChatClosed, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
}

func TestClosedChatIsTerminal(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	session := seedSession(t, store, client.ID, "tok-1")
	chat := seedChat(t, store, client.ID, session.ID)

	svc := NewSupportService(store)

	_, err := svc.UpdateStatus(chat.ID, models.SupportChatClosed)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(chat.ID, models.SupportChatActive)
	assert.ErrorIs(t, err, ErrChatClosed)

	agent := seedAgent(t, store, 1, true)
	_, err = svc.AssignAgent(chat.ID, agent.ID)
	assert.ErrorIs(t, err, ErrChatClosed)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	session := seedSession(t, store, client.ID, "tok-1")
	chat := seedChat(t, store, client.ID, session.ID)

	svc := NewSupportService(store)

	_, err := svc.UpdateStatus(chat.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusMissingChat(t *testing.T) {
	store := newTestStore(t)
	svc := NewSupportService(store)

	_, err := svc.UpdateStatus(999, models.SupportChatActive)
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestPostMessageToClosedChatRejected(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	session := seedSession(t, store, client.ID, "tok-1")
	chat := seedChat(t, store, client.ID, session.ID)

	svc := NewSupportService(store)

	_, err := svc.PostMessage(chat.ID, nil, "antes de fechar")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(chat.ID, models.SupportChatClosed)
	require.NoError(t, err)

	_, err = svc.PostMessage(chat.ID, nil, "depois de fechar")
	assert.ErrorIs(t, err, ErrChatClosed)

	messages, err := store.GetSupportMessagesByChatID(chat.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestPostMessageValidation(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	session := seedSession(t, store, client.ID, "tok-1")
	chat := seedChat(t, store, client.ID, session.ID)

	svc := NewSupportService(store)

	_, err := svc.PostMessage(chat.ID, nil, "  ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.PostMessage(999, nil, "ola")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestAssignAgent(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	session := seedSession(t, store, client.ID, "tok-1")
	chat := seedChat(t, store, client.ID, session.ID)
	agent := seedAgent(t, store, 1, true)

	svc := NewSupportService(store)

	updated, err := svc.AssignAgent(chat.ID, agent.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.AgentID)
	assert.Equal(t, agent.ID, *updated.AgentID)

	_, err = svc.AssignAgent(chat.ID, 999)
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestListMessagesMarksRead(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	session := seedSession(t, store, client.ID, "tok-1")
	chat := seedChat(t, store, client.ID, session.ID)

	svc := NewSupportService(store)

	_, err := svc.PostMessage(chat.ID, nil, "primeira")
	require.NoError(t, err)

	messages, err := svc.ListMessages(chat.ID, false)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.False(t, messages[0].IsRead)

	_, err = svc.ListMessages(chat.ID, true)
	require.NoError(t, err)

	messages, err = svc.ListMessages(chat.ID, false)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].IsRead)
}

func TestListChatsByAgentAttachesInfo(t *testing.T) {
	store := newTestStore(t)
	client := seedClient(t, store)
	session := seedSession(t, store, client.ID, "tok-1")
	agent := seedAgent(t, store, 1, true)

	svc := NewSupportService(store)
	chat, err := svc.CreateChat(client.ID, session.ID, &agent.ID)
	require.NoError(t, err)

	chats, err := svc.ListChatsByAgent(agent.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, chat.ID, chats[0].ID)
	require.NotNil(t, chats[0].Client)
	assert.Equal(t, client.Name, chats[0].Client.Name)
	require.NotNil(t, chats[0].Session)
	assert.Equal(t, session.ID, chats[0].Session.ID)
}

func TestSetAgentAvailability(t *testing.T) {
	store := newTestStore(t)
	agent := seedAgent(t, store, 1, true)

	svc := NewSupportService(store)

	updated, err := svc.SetAgentAvailability(agent.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	_, err = svc.SetAgentAvailability(999, true)
	assert.ErrorIs(t, err, ErrAgentNotFound)
}
