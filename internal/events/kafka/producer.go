// File: internal/events/kafka/producer.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

// ConnectionLinkedEvent is published when an OAuth callback creates or
// refreshes a platform connection.
type ConnectionLinkedEvent struct {
	UserID      int64           `json:"user_id"`
	Provider    models.Provider `json:"provider"`
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	Timestamp   time.Time       `json:"timestamp"`
}

// SyncCompletedEvent is published after a sync attempt, success or not.
type SyncCompletedEvent struct {
	UserID       int64           `json:"user_id"`
	ConnectionID int64           `json:"connection_id"`
	Provider     models.Provider `json:"provider"`
	Status       string          `json:"status"`
	ItemsSynced  int             `json:"items_synced"`
	Error        string          `json:"error,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Producer publishes platform events. It is optional: services hold a nil
// *Producer when event publishing is not configured, and every method is
// nil-safe.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &Producer{writer: writer, logger: logger.Named("kafka_producer")}
}

func (p *Producer) PublishConnectionLinked(ctx context.Context, event ConnectionLinkedEvent) error {
	return p.publish(ctx, "connection.linked", fmt.Sprintf("%d:%s", event.UserID, event.AccountID), event)
}

func (p *Producer) PublishSyncCompleted(ctx context.Context, event SyncCompletedEvent) error {
	return p.publish(ctx, "connection.sync_completed", fmt.Sprintf("%d", event.ConnectionID), event)
}

func (p *Producer) publish(ctx context.Context, eventType, key string, payload any) error {
	if p == nil {
		return nil
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("event_type", eventType), zap.Error(err))
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
