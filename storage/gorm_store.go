package storage

import (
	"errors"
	"time"

	"BotAdmin/models"

	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Users

func (s *gormStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *gormStore) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *gormStore) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

// Clients

func (s *gormStore) GetAllClients() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Order("id ASC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *gormStore) GetClientByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

// CreateClient also seeds the client's statistics row so the counter
// increments always have a row to update.
func (s *gormStore) CreateClient(client *models.Client) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			return err
		}
		stat := models.Statistic{
			ClientID: client.ID,
			Date:     time.Now(),
		}
		return tx.Create(&stat).Error
	})
}

func (s *gormStore) SaveClient(client *models.Client) error {
	return s.db.Save(client).Error
}

func (s *gormStore) DeleteClient(id uint) error {
	result := s.db.Delete(&models.Client{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Custom responses

func (s *gormStore) GetCustomResponsesByClientID(clientID uint) ([]models.CustomResponse, error) {
	var responses []models.CustomResponse
	err := s.db.Where("client_id = ?", clientID).
		Order("id ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *gormStore) GetCustomResponse(id uint) (*models.CustomResponse, error) {
	var response models.CustomResponse
	if err := s.db.First(&response, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &response, nil
}

func (s *gormStore) CreateCustomResponse(response *models.CustomResponse) error {
	return s.db.Create(response).Error
}

func (s *gormStore) SaveCustomResponse(response *models.CustomResponse) error {
	return s.db.Save(response).Error
}

func (s *gormStore) DeleteCustomResponse(id uint) error {
	result := s.db.Delete(&models.CustomResponse{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Support agents

func (s *gormStore) GetSupportAgents() ([]models.SupportAgent, error) {
	var agents []models.SupportAgent
	if err := s.db.Order("id ASC").Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

func (s *gormStore) GetSupportAgent(id uint) (*models.SupportAgent, error) {
	var agent models.SupportAgent
	if err := s.db.First(&agent, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &agent, nil
}

// FirstAvailableAgent picks the available agent with the lowest id. No load
// metric; first available wins.
func (s *gormStore) FirstAvailableAgent() (*models.SupportAgent, error) {
	var agent models.SupportAgent
	err := s.db.Where("is_available = ?", true).
		Order("id ASC").
		First(&agent).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &agent, nil
}

func (s *gormStore) CreateSupportAgent(agent *models.SupportAgent) error {
	if agent.LastActive.IsZero() {
		agent.LastActive = time.Now()
	}
	return s.db.Create(agent).Error
}

func (s *gormStore) SaveSupportAgent(agent *models.SupportAgent) error {
	return s.db.Save(agent).Error
}

// Support chats

func (s *gormStore) GetSupportChatsByClientID(clientID uint) ([]models.SupportChat, error) {
	var chats []models.SupportChat
	err := s.db.Where("client_id = ?", clientID).
		Order("updated_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (s *gormStore) GetSupportChatsByAgentID(agentID uint) ([]models.SupportChat, error) {
	var chats []models.SupportChat
	err := s.db.Where("agent_id = ?", agentID).
		Order("updated_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (s *gormStore) GetSupportChat(id uint) (*models.SupportChat, error) {
	var chat models.SupportChat
	if err := s.db.First(&chat, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &chat, nil
}

// GetOpenSupportChatBySessionID finds the session's pending or active chat,
// if any. Used to coalesce repeated escalations into one conversation.
func (s *gormStore) GetOpenSupportChatBySessionID(sessionID uint) (*models.SupportChat, error) {
	var chat models.SupportChat
	err := s.db.Where("session_id = ? AND status <> ?", sessionID, models.SupportChatClosed).
		Order("id ASC").
		First(&chat).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &chat, nil
}

func (s *gormStore) CreateSupportChat(chat *models.SupportChat) error {
	if chat.Status == "" {
		chat.Status = models.SupportChatPending
	}
	return s.db.Create(chat).Error
}

func (s *gormStore) SaveSupportChat(chat *models.SupportChat) error {
	return s.db.Save(chat).Error
}

// Support messages

func (s *gormStore) GetSupportMessagesByChatID(chatID uint) ([]models.SupportMessage, error) {
	var messages []models.SupportMessage
	err := s.db.Where("chat_id = ?", chatID).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// CreateSupportMessage persists the message and bumps the parent chat's
// updated_at, which drives inbox ordering.
func (s *gormStore) CreateSupportMessage(message *models.SupportMessage) error {
	now := time.Now()
	if message.Timestamp.IsZero() {
		message.Timestamp = now
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.SupportChat{}).
			Where("id = ?", message.ChatID).
			UpdateColumn("updated_at", now).Error
	})
}

func (s *gormStore) MarkSupportMessagesRead(chatID uint) error {
	return s.db.Model(&models.SupportMessage{}).
		Where("chat_id = ?", chatID).
		UpdateColumn("is_read", true).Error
}

// Chat sessions

// CreateChatSession persists the session and counts the new end-user for the
// owning client, once per session.
func (s *gormStore) CreateChatSession(session *models.ChatSession) error {
	now := time.Now()
	if session.LastActive.IsZero() {
		session.LastActive = now
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		return incrementStat(tx, session.ClientID, "user_count")
	})
}

func (s *gormStore) GetChatSession(id uint) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := s.db.First(&session, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (s *gormStore) GetChatSessionByToken(token string) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := s.db.Where("session_token = ?", token).First(&session).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (s *gormStore) GetChatSessionsByClientID(clientID uint) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := s.db.Where("client_id = ?", clientID).
		Order("last_active DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *gormStore) TouchChatSession(id uint) error {
	return s.db.Model(&models.ChatSession{}).
		Where("id = ?", id).
		UpdateColumn("last_active", time.Now()).Error
}

// Chat messages

func (s *gormStore) GetChatMessagesBySessionID(sessionID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.db.Where("session_id = ?", sessionID).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// CreateChatMessage persists the message, bumps the session's last_active and
// advances the owning client's message counter. Escalated messages also count
// as a support request.
func (s *gormStore) CreateChatMessage(message *models.ChatMessage) error {
	now := time.Now()
	if message.Timestamp.IsZero() {
		message.Timestamp = now
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ChatSession{}).
			Where("id = ?", message.SessionID).
			UpdateColumn("last_active", now).Error; err != nil {
			return err
		}
		var session models.ChatSession
		if err := tx.First(&session, message.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := incrementStat(tx, session.ClientID, "message_count"); err != nil {
			return err
		}
		if message.NeedsSupport {
			return incrementStat(tx, session.ClientID, "support_request_count")
		}
		return nil
	})
}

// Statistics

// incrementStat advances a counter with a single UPDATE so concurrent
// increments never lose updates.
func incrementStat(db *gorm.DB, clientID uint, column string) error {
	return db.Model(&models.Statistic{}).
		Where("client_id = ?", clientID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error
}

func (s *gormStore) GetStatisticsByClientID(clientID uint) ([]models.Statistic, error) {
	var stats []models.Statistic
	err := s.db.Where("client_id = ?", clientID).
		Order("date DESC").
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *gormStore) IncrementMessageCount(clientID uint) error {
	return incrementStat(s.db, clientID, "message_count")
}

func (s *gormStore) IncrementUserCount(clientID uint) error {
	return incrementStat(s.db, clientID, "user_count")
}

func (s *gormStore) IncrementSupportRequestCount(clientID uint) error {
	return incrementStat(s.db, clientID, "support_request_count")
}

func (s *gormStore) GetDashboardStats() (*models.DashboardStats, error) {
	var totalBots int64
	if err := s.db.Model(&models.Client{}).Count(&totalBots).Error; err != nil {
		return nil, err
	}

	var stats []models.Statistic
	if err := s.db.Find(&stats).Error; err != nil {
		return nil, err
	}

	result := &models.DashboardStats{TotalBots: int(totalBots)}
	for _, stat := range stats {
		result.MessagesToday += stat.MessageCount
		result.ActiveUsers += stat.UserCount
		result.SupportRequests += stat.SupportRequestCount
	}
	return result, nil
}
