package repositories

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint rejects a create.
	ErrDuplicate = errors.New("record already exists")

	// ErrFolderCycle is returned when a reparent would make a folder its
	// own ancestor.
	ErrFolderCycle = errors.New("move would create a folder cycle")
)
