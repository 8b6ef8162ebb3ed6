package share

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ncls-p/notes-sub001/internal/models"
)

// ErrNotFound is returned when no public resource matches a share
// token. A token whose resource has since been set private resolves to
// this too; stale links never serve data.
var ErrNotFound = errors.New("no shared resource for token")

// tokenBytes gives 256 bits of entropy, hex-encoded to 64 characters.
const tokenBytes = 32

// Store persists public-access state and resolves share tokens. The
// resolve queries must match on the public flag, not just the token
// column, so privated resources disappear immediately.
type Store interface {
	UpdateFolderPublicAccess(ctx context.Context, folder *models.Folder) error
	UpdateNotePublicAccess(ctx context.Context, note *models.Note) error
	FindPublicFolderByToken(ctx context.Context, token string) (*models.Folder, error)
	FindPublicNoteByToken(ctx context.Context, token string) (*models.Note, error)
}

// Resolved is the outcome of a share-token lookup: exactly one of Note
// and Folder is set.
type Resolved struct {
	Type   string
	Note   *models.Note
	Folder *models.Folder
}

// Manager owns the lifecycle of public share tokens: mint once on the
// first public toggle, keep across repeated enables so shared links
// stay stable, clear on disable.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// NewShareToken mints a cryptographically random token.
func NewShareToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// nextPublicAccess computes the new (isPublic, token) pair. Enabling is
// idempotent: an existing token is kept byte-for-byte so previously
// shared links keep working. Disabling clears the token with no grace
// period.
func nextPublicAccess(isPublic bool, currentToken *string) (bool, *string, error) {
	if !isPublic {
		return false, nil, nil
	}
	if currentToken != nil && *currentToken != "" {
		return true, currentToken, nil
	}
	token, err := NewShareToken()
	if err != nil {
		return false, nil, err
	}
	return true, &token, nil
}

// SetFolderPublic applies the public toggle to a folder and persists
// it. The folder value is updated in place.
func (m *Manager) SetFolderPublic(ctx context.Context, folder *models.Folder, isPublic bool) error {
	publicFlag, token, err := nextPublicAccess(isPublic, folder.PublicShareToken)
	if err != nil {
		return err
	}

	folder.IsPublic = publicFlag
	folder.PublicShareToken = token

	if err := m.store.UpdateFolderPublicAccess(ctx, folder); err != nil {
		return fmt.Errorf("failed to persist folder public access: %w", err)
	}
	return nil
}

// SetNotePublic applies the public toggle to a note and persists it.
// The note value is updated in place.
func (m *Manager) SetNotePublic(ctx context.Context, note *models.Note, isPublic bool) error {
	publicFlag, token, err := nextPublicAccess(isPublic, note.PublicShareToken)
	if err != nil {
		return err
	}

	note.IsPublic = publicFlag
	note.PublicShareToken = token

	if err := m.store.UpdateNotePublicAccess(ctx, note); err != nil {
		return fmt.Errorf("failed to persist note public access: %w", err)
	}
	return nil
}

// ResolveByToken finds the resource a share token points at, notes
// first. Only currently-public resources resolve.
func (m *Manager) ResolveByToken(ctx context.Context, token string) (*Resolved, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	note, err := m.store.FindPublicNoteByToken(ctx, token)
	if err == nil {
		return &Resolved{Type: "note", Note: note}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve share token: %w", err)
	}

	folder, err := m.store.FindPublicFolderByToken(ctx, token)
	if err == nil {
		return &Resolved{Type: "folder", Folder: folder}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve share token: %w", err)
	}

	return nil, ErrNotFound
}
