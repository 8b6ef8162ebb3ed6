package models

import (
	"time"

	"github.com/google/uuid"
)

type AccessLevel string

const (
	View AccessLevel = "view"
	Edit AccessLevel = "edit"
)

// Valid reports whether the access level is one of the known values.
func (l AccessLevel) Valid() bool {
	return l == View || l == Edit
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
