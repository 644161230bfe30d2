package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Participant is one live connection joined to a support chat.
type Participant struct {
	ConnID   string `json:"conn_id"`
	SenderID *uint  `json:"sender_id"` // nil for the end-user side
	JoinedAt int64  `json:"joined_at"`
}

// Presence mirrors the fan-out hub's registry into redis so the REST API (and
// other processes) can see who is currently joined to a chat. Entries expire
// with the key; a stale entry costs nothing because delivery is driven by the
// in-process registry, not by redis.
type Presence struct {
	client *redis.Client
}

func NewPresence(client *redis.Client) *Presence {
	return &Presence{client: client}
}

func chatKey(chatID uint) string {
	return fmt.Sprintf("support:chat:%d:participants", chatID)
}

func (p *Presence) Add(ctx context.Context, chatID uint, participant Participant) error {
	data, err := json.Marshal(participant)
	if err != nil {
		return err
	}
	key := chatKey(chatID)
	if err := p.client.HSet(ctx, key, participant.ConnID, data).Err(); err != nil {
		return err
	}
	return p.client.Expire(ctx, key, 24*time.Hour).Err()
}

func (p *Presence) Remove(ctx context.Context, chatID uint, connID string) error {
	return p.client.HDel(ctx, chatKey(chatID), connID).Err()
}

func (p *Presence) List(ctx context.Context, chatID uint) ([]Participant, error) {
	result, err := p.client.HGetAll(ctx, chatKey(chatID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participants for chat %d: %w", chatID, err)
	}

	participants := make([]Participant, 0, len(result))
	for _, data := range result {
		var participant Participant
		if err := json.Unmarshal([]byte(data), &participant); err != nil {
			continue
		}
		participants = append(participants, participant)
	}
	return participants, nil
}
