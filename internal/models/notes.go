package models

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Content          string     `gorm:"type:text;not null" json:"content"`
	OwnerID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"ownerId"`
	FolderID         *uuid.UUID `gorm:"type:uuid;index" json:"folderId"`
	IsPublic         bool       `gorm:"not null;default:false" json:"isPublic"`
	PublicShareToken *string    `gorm:"size:64;uniqueIndex" json:"publicShareToken,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// NoteShare represents sharing permissions for individual notes
type NoteShare struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	NoteID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_note_shares_note_user" json:"noteId"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_note_shares_note_user" json:"userId"`
	AccessLevel AccessLevel `gorm:"size:10;not null" json:"accessLevel"`
	SharedByID  uuid.UUID   `gorm:"type:uuid;not null" json:"sharedById"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`

	// Foreign key relationships
	Note Note `gorm:"foreignKey:NoteID" json:"-"`
}
