package events

import (
	"time"

	"github.com/google/uuid"
)

// AssetEvent represents events related to note and folder operations
type AssetEvent struct {
	EventType string    `json:"eventType"`
	AssetType string    `json:"assetType"`
	AssetID   string    `json:"assetId"`
	OwnerID   string    `json:"ownerId"`
	ActionBy  string    `json:"actionBy"`
	Timestamp time.Time `json:"timestamp"`
	// Additional fields for sharing events
	SharedWithUserID *string `json:"sharedWithUserId,omitempty"`
	AccessLevel      *string `json:"accessLevel,omitempty"`
}

// SessionEvent represents session lifecycle events, used to fan
// refresh-token revocations out to every server instance.
type SessionEvent struct {
	EventType string    `json:"eventType"`
	UserID    string    `json:"userId"`
	TokenID   string    `json:"tokenId"`
	ExpiresAt time.Time `json:"expiresAt"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAssetEvent creates a new asset event
func NewAssetEvent(eventType, assetType string, assetID, ownerID, actionBy uuid.UUID) *AssetEvent {
	return &AssetEvent{
		EventType: eventType,
		AssetType: assetType,
		AssetID:   assetID.String(),
		OwnerID:   ownerID.String(),
		ActionBy:  actionBy.String(),
		Timestamp: time.Now(),
	}
}

// NewAssetSharingEvent creates a new asset sharing event
func NewAssetSharingEvent(eventType, assetType string, assetID, ownerID, actionBy, sharedWithUserID uuid.UUID, accessLevel string) *AssetEvent {
	event := NewAssetEvent(eventType, assetType, assetID, ownerID, actionBy)
	sharedWithStr := sharedWithUserID.String()
	event.SharedWithUserID = &sharedWithStr
	event.AccessLevel = &accessLevel
	return event
}

// NewSessionRevokedEvent creates the event published on logout.
func NewSessionRevokedEvent(userID uuid.UUID, tokenID string, expiresAt time.Time) *SessionEvent {
	return &SessionEvent{
		EventType: SessionRevoked,
		UserID:    userID.String(),
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
		Timestamp: time.Now(),
	}
}
