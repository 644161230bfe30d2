package storage

import (
	"errors"

	"BotAdmin/models"
)

// ErrNotFound is returned for lookups that match no row. Callers treat it as
// a normal condition (stale session token, unknown chat id), not a failure.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for every entity. Handlers and services
// depend on this interface so tests can run against an in-memory database.
type Store interface {
	// Transaction runs fn against a store bound to one database transaction.
	// Any error from fn rolls the whole unit of work back.
	Transaction(fn func(Store) error) error

	// Users
	GetUser(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	CreateUser(user *models.User) error

	// Clients
	GetAllClients() ([]models.Client, error)
	GetClientByID(id uint) (*models.Client, error)
	CreateClient(client *models.Client) error
	SaveClient(client *models.Client) error
	DeleteClient(id uint) error

	// Custom responses
	GetCustomResponsesByClientID(clientID uint) ([]models.CustomResponse, error)
	GetCustomResponse(id uint) (*models.CustomResponse, error)
	CreateCustomResponse(response *models.CustomResponse) error
	SaveCustomResponse(response *models.CustomResponse) error
	DeleteCustomResponse(id uint) error

	// Support agents
	GetSupportAgents() ([]models.SupportAgent, error)
	GetSupportAgent(id uint) (*models.SupportAgent, error)
	FirstAvailableAgent() (*models.SupportAgent, error)
	CreateSupportAgent(agent *models.SupportAgent) error
	SaveSupportAgent(agent *models.SupportAgent) error

	// Support chats
	GetSupportChatsByClientID(clientID uint) ([]models.SupportChat, error)
	GetSupportChatsByAgentID(agentID uint) ([]models.SupportChat, error)
	GetSupportChat(id uint) (*models.SupportChat, error)
	GetOpenSupportChatBySessionID(sessionID uint) (*models.SupportChat, error)
	CreateSupportChat(chat *models.SupportChat) error
	SaveSupportChat(chat *models.SupportChat) error

	// Support messages
	GetSupportMessagesByChatID(chatID uint) ([]models.SupportMessage, error)
	CreateSupportMessage(message *models.SupportMessage) error
	MarkSupportMessagesRead(chatID uint) error

	// Chat sessions
	CreateChatSession(session *models.ChatSession) error
	GetChatSession(id uint) (*models.ChatSession, error)
	GetChatSessionByToken(token string) (*models.ChatSession, error)
	GetChatSessionsByClientID(clientID uint) ([]models.ChatSession, error)
	TouchChatSession(id uint) error

	// Chat messages
	GetChatMessagesBySessionID(sessionID uint) ([]models.ChatMessage, error)
	CreateChatMessage(message *models.ChatMessage) error

	// Statistics
	GetStatisticsByClientID(clientID uint) ([]models.Statistic, error)
	IncrementMessageCount(clientID uint) error
	IncrementUserCount(clientID uint) error
	IncrementSupportRequestCount(clientID uint) error
	GetDashboardStats() (*models.DashboardStats, error)
}
