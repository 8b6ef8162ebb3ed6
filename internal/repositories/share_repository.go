package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ncls-p/notes-sub001/internal/models"
)

// ACLCache is the slice of the Redis service that share lookups use.
// A nil cache disables caching without changing behavior.
type ACLCache interface {
	GetAssetAccess(ctx context.Context, assetID, userID uuid.UUID) (string, bool, error)
	AddAssetAccess(ctx context.Context, assetID, userID uuid.UUID, accessLevel string) error
	RemoveAssetAccess(ctx context.Context, assetID, userID uuid.UUID) error
}

// ShareRepository stores explicit permission grants. Grants are unique
// per (entity, user); granting again with a different level updates the
// existing row in place, never duplicates it.
type ShareRepository struct {
	db    *gorm.DB
	cache ACLCache
}

func NewShareRepository(db *gorm.DB, cache ACLCache) *ShareRepository {
	return &ShareRepository{db: db, cache: cache}
}

// UpsertFolderShare grants or updates folder access for a user.
func (r *ShareRepository) UpsertFolderShare(ctx context.Context, folderID, userID, sharedByID uuid.UUID, level models.AccessLevel) (*models.FolderShare, error) {
	var share models.FolderShare
	err := r.db.WithContext(ctx).Where("folder_id = ? AND user_id = ?", folderID, userID).First(&share).Error

	switch {
	case err == nil:
		share.AccessLevel = level
		share.SharedByID = sharedByID
		if err := r.db.WithContext(ctx).Save(&share).Error; err != nil {
			return nil, fmt.Errorf("failed to update folder share: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		share = models.FolderShare{
			ID:          uuid.New(),
			FolderID:    folderID,
			UserID:      userID,
			AccessLevel: level,
			SharedByID:  sharedByID,
		}
		if err := r.db.WithContext(ctx).Create(&share).Error; err != nil {
			return nil, fmt.Errorf("failed to create folder share: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up folder share: %w", err)
	}

	r.cacheAdd(ctx, folderID, userID, string(level))
	return &share, nil
}

// UpsertNoteShare grants or updates note access for a user.
func (r *ShareRepository) UpsertNoteShare(ctx context.Context, noteID, userID, sharedByID uuid.UUID, level models.AccessLevel) (*models.NoteShare, error) {
	var share models.NoteShare
	err := r.db.WithContext(ctx).Where("note_id = ? AND user_id = ?", noteID, userID).First(&share).Error

	switch {
	case err == nil:
		share.AccessLevel = level
		share.SharedByID = sharedByID
		if err := r.db.WithContext(ctx).Save(&share).Error; err != nil {
			return nil, fmt.Errorf("failed to update note share: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		share = models.NoteShare{
			ID:          uuid.New(),
			NoteID:      noteID,
			UserID:      userID,
			AccessLevel: level,
			SharedByID:  sharedByID,
		}
		if err := r.db.WithContext(ctx).Create(&share).Error; err != nil {
			return nil, fmt.Errorf("failed to create note share: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up note share: %w", err)
	}

	r.cacheAdd(ctx, noteID, userID, string(level))
	return &share, nil
}

// DeleteFolderShare revokes a user's folder grant.
func (r *ShareRepository) DeleteFolderShare(ctx context.Context, folderID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("folder_id = ? AND user_id = ?", folderID, userID).Delete(&models.FolderShare{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete folder share: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.cacheRemove(ctx, folderID, userID)
	return nil
}

// DeleteNoteShare revokes a user's note grant.
func (r *ShareRepository) DeleteNoteShare(ctx context.Context, noteID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("note_id = ? AND user_id = ?", noteID, userID).Delete(&models.NoteShare{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete note share: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.cacheRemove(ctx, noteID, userID)
	return nil
}

// FolderGrant returns the grant for (folder, user), consulting the
// cache before the database.
func (r *ShareRepository) FolderGrant(ctx context.Context, folderID, userID uuid.UUID) (*models.FolderShare, error) {
	if level, ok := r.cacheGet(ctx, folderID, userID); ok {
		return &models.FolderShare{FolderID: folderID, UserID: userID, AccessLevel: models.AccessLevel(level)}, nil
	}

	var share models.FolderShare
	if err := r.db.WithContext(ctx).Where("folder_id = ? AND user_id = ?", folderID, userID).First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up folder grant: %w", err)
	}

	r.cacheAdd(ctx, folderID, userID, string(share.AccessLevel))
	return &share, nil
}

// NoteGrant returns the grant for (note, user), consulting the cache
// before the database.
func (r *ShareRepository) NoteGrant(ctx context.Context, noteID, userID uuid.UUID) (*models.NoteShare, error) {
	if level, ok := r.cacheGet(ctx, noteID, userID); ok {
		return &models.NoteShare{NoteID: noteID, UserID: userID, AccessLevel: models.AccessLevel(level)}, nil
	}

	var share models.NoteShare
	if err := r.db.WithContext(ctx).Where("note_id = ? AND user_id = ?", noteID, userID).First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up note grant: %w", err)
	}

	r.cacheAdd(ctx, noteID, userID, string(share.AccessLevel))
	return &share, nil
}

// ListFolderShares returns all grants on a folder.
func (r *ShareRepository) ListFolderShares(ctx context.Context, folderID uuid.UUID) ([]models.FolderShare, error) {
	var shares []models.FolderShare
	if err := r.db.WithContext(ctx).Where("folder_id = ?", folderID).Find(&shares).Error; err != nil {
		return nil, fmt.Errorf("failed to list folder shares: %w", err)
	}
	return shares, nil
}

// ListNoteShares returns all grants on a note.
func (r *ShareRepository) ListNoteShares(ctx context.Context, noteID uuid.UUID) ([]models.NoteShare, error) {
	var shares []models.NoteShare
	if err := r.db.WithContext(ctx).Where("note_id = ?", noteID).Find(&shares).Error; err != nil {
		return nil, fmt.Errorf("failed to list note shares: %w", err)
	}
	return shares, nil
}

// Cache failures are never allowed to fail the grant operation; the
// database row is authoritative.

func (r *ShareRepository) cacheGet(ctx context.Context, assetID, userID uuid.UUID) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	level, ok, err := r.cache.GetAssetAccess(ctx, assetID, userID)
	if err != nil || !ok {
		return "", false
	}
	return level, true
}

func (r *ShareRepository) cacheAdd(ctx context.Context, assetID, userID uuid.UUID, level string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.AddAssetAccess(ctx, assetID, userID, level)
}

func (r *ShareRepository) cacheRemove(ctx context.Context, assetID, userID uuid.UUID) {
	if r.cache == nil {
		return
	}
	_ = r.cache.RemoveAssetAccess(ctx, assetID, userID)
}
