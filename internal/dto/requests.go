package dto

import (
	"github.com/google/uuid"

	"github.com/ncls-p/notes-sub001/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateFolderRequest struct {
	FolderName string     `json:"folderName" binding:"required"`
	ParentID   *uuid.UUID `json:"parentId"`
}

type UpdateFolderRequest struct {
	FolderName string `json:"folderName" binding:"required"`
}

// MoveFolderRequest carries the new parent; nil moves the folder to the
// root.
type MoveFolderRequest struct {
	ParentID *uuid.UUID `json:"parentId"`
}

type CreateNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type UpdateNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// ShareRequest grants access either to a known user id or to an email
// resolved through the user directory.
type ShareRequest struct {
	UserID      *uuid.UUID         `json:"userId"`
	Email       *string            `json:"email"`
	AccessLevel models.AccessLevel `json:"accessLevel" binding:"required"`
}

// SetPublicRequest uses a pointer so an explicit false still binds.
type SetPublicRequest struct {
	IsPublic *bool `json:"isPublic" binding:"required"`
}
