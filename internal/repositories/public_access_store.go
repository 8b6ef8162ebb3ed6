package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ncls-p/notes-sub001/internal/models"
	"github.com/ncls-p/notes-sub001/internal/share"
)

// PublicAccessStore is the GORM implementation of share.Store. The
// token lookups always require is_public so a resource that was set
// private again never resolves, even while its old token is retained
// in memory by a client.
type PublicAccessStore struct {
	db *gorm.DB
}

func NewPublicAccessStore(db *gorm.DB) *PublicAccessStore {
	return &PublicAccessStore{db: db}
}

func (s *PublicAccessStore) UpdateFolderPublicAccess(ctx context.Context, folder *models.Folder) error {
	err := s.db.WithContext(ctx).Model(&models.Folder{}).Where("id = ?", folder.ID).
		Updates(map[string]any{
			"is_public":          folder.IsPublic,
			"public_share_token": folder.PublicShareToken,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update folder public access: %w", err)
	}
	return nil
}

func (s *PublicAccessStore) UpdateNotePublicAccess(ctx context.Context, note *models.Note) error {
	err := s.db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", note.ID).
		Updates(map[string]any{
			"is_public":          note.IsPublic,
			"public_share_token": note.PublicShareToken,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update note public access: %w", err)
	}
	return nil
}

func (s *PublicAccessStore) FindPublicFolderByToken(ctx context.Context, token string) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.WithContext(ctx).
		Where("public_share_token = ? AND is_public = ?", token, true).
		First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, share.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find folder by share token: %w", err)
	}
	return &folder, nil
}

func (s *PublicAccessStore) FindPublicNoteByToken(ctx context.Context, token string) (*models.Note, error) {
	var note models.Note
	err := s.db.WithContext(ctx).
		Where("public_share_token = ? AND is_public = ?", token, true).
		First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, share.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note by share token: %w", err)
	}
	return &note, nil
}
