package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ncls-p/notes-sub001/internal/events"
	"github.com/ncls-p/notes-sub001/pkg/logger"
)

type Producer struct {
	assetWriter   *kafka.Writer
	sessionWriter *kafka.Writer
}

// NewProducer creates a new Kafka producer with writers for different topics
func NewProducer(brokers []string) *Producer {
	assetWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        events.AssetChangesTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	sessionWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        events.SessionActivityTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	return &Producer{
		assetWriter:   assetWriter,
		sessionWriter: sessionWriter,
	}
}

// PublishAssetEvent publishes an asset event to the asset.changes topic
func (p *Producer) PublishAssetEvent(ctx context.Context, event *events.AssetEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal asset event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.AssetID),
		Value: value,
		Time:  event.Timestamp,
	}

	if err := p.assetWriter.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish asset event: %w", err)
	}

	logger.Log.Debug().
		Str("eventType", event.EventType).
		Str("assetType", event.AssetType).
		Str("assetId", event.AssetID).
		Msg("Published asset event")
	return nil
}

// PublishSessionEvent publishes a session event to the session.activity
// topic, keyed by user so one user's events stay ordered.
func (p *Producer) PublishSessionEvent(ctx context.Context, event *events.SessionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  event.Timestamp,
	}

	if err := p.sessionWriter.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	logger.Log.Debug().
		Str("eventType", event.EventType).
		Str("userId", event.UserID).
		Msg("Published session event")
	return nil
}

// Close closes the Kafka writers
func (p *Producer) Close() error {
	var err1, err2 error
	if p.assetWriter != nil {
		err1 = p.assetWriter.Close()
	}
	if p.sessionWriter != nil {
		err2 = p.sessionWriter.Close()
	}

	if err1 != nil {
		return err1
	}
	return err2
}
