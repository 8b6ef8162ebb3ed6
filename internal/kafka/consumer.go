package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/ncls-p/notes-sub001/internal/events"
	redisservice "github.com/ncls-p/notes-sub001/internal/redis"
	"github.com/ncls-p/notes-sub001/pkg/logger"
)

// Consumer keeps the Redis cache in step with what other instances
// publish: sharing changes update the ACL hashes and logouts land in
// the revocation set.
type Consumer struct {
	assetReader   *kafka.Reader
	sessionReader *kafka.Reader
	cache         *redisservice.Service
}

// NewConsumer creates readers for both topics under one consumer group.
func NewConsumer(brokers []string, groupID string, cache *redisservice.Service) *Consumer {
	assetReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   events.AssetChangesTopic,
	})

	sessionReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   events.SessionActivityTopic,
	})

	return &Consumer{
		assetReader:   assetReader,
		sessionReader: sessionReader,
		cache:         cache,
	}
}

// StartAssetEventConsumer processes asset events until the context is
// cancelled. A malformed message is logged and skipped, never retried.
func (c *Consumer) StartAssetEventConsumer(ctx context.Context) {
	for {
		message, err := c.assetReader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			logger.Log.Error().Err(err).Msg("Failed to read asset event")
			continue
		}

		var event events.AssetEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to unmarshal asset event")
			continue
		}

		c.handleAssetEvent(ctx, &event)
	}
}

// StartSessionEventConsumer processes session events until the context
// is cancelled.
func (c *Consumer) StartSessionEventConsumer(ctx context.Context) {
	for {
		message, err := c.sessionReader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			logger.Log.Error().Err(err).Msg("Failed to read session event")
			continue
		}

		var event events.SessionEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to unmarshal session event")
			continue
		}

		c.handleSessionEvent(ctx, &event)
	}
}

func (c *Consumer) handleAssetEvent(ctx context.Context, event *events.AssetEvent) {
	assetID, err := uuid.Parse(event.AssetID)
	if err != nil {
		logger.Log.Error().Str("assetId", event.AssetID).Msg("Asset event carries invalid asset id")
		return
	}

	switch event.EventType {
	case events.FolderShared, events.NoteShared:
		if event.SharedWithUserID == nil || event.AccessLevel == nil {
			return
		}
		userID, err := uuid.Parse(*event.SharedWithUserID)
		if err != nil {
			return
		}
		if err := c.cache.AddAssetAccess(ctx, assetID, userID, *event.AccessLevel); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to update ACL cache from share event")
		}

	case events.FolderUnshared, events.NoteUnshared:
		if event.SharedWithUserID == nil {
			return
		}
		userID, err := uuid.Parse(*event.SharedWithUserID)
		if err != nil {
			return
		}
		if err := c.cache.RemoveAssetAccess(ctx, assetID, userID); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to update ACL cache from unshare event")
		}

	case events.FolderDeleted, events.NoteDeleted:
		if err := c.cache.InvalidateAsset(ctx, assetID); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to invalidate ACL cache from delete event")
		}
	}
}

func (c *Consumer) handleSessionEvent(ctx context.Context, event *events.SessionEvent) {
	if event.EventType != events.SessionRevoked {
		return
	}
	if err := c.cache.Revoke(ctx, event.TokenID, event.ExpiresAt); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to record revoked session")
	}
}

// Close closes both readers.
func (c *Consumer) Close() error {
	err1 := c.assetReader.Close()
	err2 := c.sessionReader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
