package kafka

import (
	"encoding/json"
	"fmt"
	"log"

	"BotAdmin/config"
	"BotAdmin/services"

	"github.com/IBM/sarama"
)

// EscalationProducer publishes escalation events, keyed by support chat id so
// events for one conversation stay ordered within a partition.
type EscalationProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewEscalationProducer connects a sync producer. Returns (nil, nil) when no
// brokers are configured; callers treat a nil producer as "event stream off".
func NewEscalationProducer(cfg *config.KafkaConfig) (*EscalationProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	saramaConfig, err := NewSaramaConfig(cfg)
	if err != nil {
		return nil, err
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, err
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "support.escalations"
	}

	return &EscalationProducer{producer: producer, topic: topic}, nil
}

func (p *EscalationProducer) PublishEscalation(event *services.EscalationEvent) error {
	jsonValue, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", event.ChatID)),
		Value: sarama.ByteEncoder(jsonValue),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		log.Printf("Failed to send escalation event: %v", err)
		return err
	}

	log.Printf("Escalation event for chat %d sent to partition %d at offset %d", event.ChatID, partition, offset)
	return nil
}

func (p *EscalationProducer) Close() error {
	return p.producer.Close()
}
