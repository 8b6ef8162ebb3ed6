package models

import (
	"time"

	"github.com/google/uuid"
)

type Folder struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	FolderName       string     `gorm:"size:150;not null" json:"folderName"`
	OwnerID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"ownerId"`
	ParentID         *uuid.UUID `gorm:"type:uuid;index" json:"parentId"`
	IsPublic         bool       `gorm:"not null;default:false" json:"isPublic"`
	PublicShareToken *string    `gorm:"size:64;uniqueIndex" json:"publicShareToken,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// FolderShare represents sharing permissions for folders
type FolderShare struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	FolderID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_folder_shares_folder_user" json:"folderId"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_folder_shares_folder_user" json:"userId"`
	AccessLevel AccessLevel `gorm:"size:10;not null" json:"accessLevel"`
	SharedByID  uuid.UUID   `gorm:"type:uuid;not null" json:"sharedById"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`

	// Foreign key relationships
	Folder Folder `gorm:"foreignKey:FolderID" json:"-"`
}
