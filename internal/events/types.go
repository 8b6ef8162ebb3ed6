package events

// Asset Event Types
const (
	FolderCreated  = "FOLDER_CREATED"
	FolderUpdated  = "FOLDER_UPDATED"
	FolderMoved    = "FOLDER_MOVED"
	FolderDeleted  = "FOLDER_DELETED"
	FolderShared   = "FOLDER_SHARED"
	FolderUnshared = "FOLDER_UNSHARED"

	NoteCreated  = "NOTE_CREATED"
	NoteUpdated  = "NOTE_UPDATED"
	NoteDeleted  = "NOTE_DELETED"
	NoteShared   = "NOTE_SHARED"
	NoteUnshared = "NOTE_UNSHARED"

	PublicLinkEnabled  = "PUBLIC_LINK_ENABLED"
	PublicLinkDisabled = "PUBLIC_LINK_DISABLED"
)

// Session Event Types
const (
	SessionRevoked = "SESSION_REVOKED"
)

// Kafka Topics
const (
	AssetChangesTopic    = "asset.changes"
	SessionActivityTopic = "session.activity"
)

// Asset Types
const (
	AssetTypeFolder = "folder"
	AssetTypeNote   = "note"
)
