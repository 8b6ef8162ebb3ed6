package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ncls-p/notes-sub001/internal/hierarchy"
	"github.com/ncls-p/notes-sub001/internal/models"
)

type FolderRepository struct {
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if err := r.db.WithContext(ctx).Create(folder).Error; err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

func (r *FolderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	if err := r.db.WithContext(ctx).First(&folder, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find folder: %w", err)
	}
	return &folder, nil
}

func (r *FolderRepository) Save(ctx context.Context, folder *models.Folder) error {
	if err := r.db.WithContext(ctx).Save(folder).Error; err != nil {
		return fmt.Errorf("failed to save folder: %w", err)
	}
	return nil
}

// Move reparents a folder. The cycle check runs inside the same
// transaction as the update so a concurrent reparent cannot interleave
// with the check-then-act sequence and jointly close a loop.
func (r *FolderRepository) Move(ctx context.Context, folderID uuid.UUID, newParentID *uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookup := func(id uuid.UUID) (*uuid.UUID, bool, error) {
			var folder models.Folder
			if err := tx.Select("id", "parent_id").First(&folder, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, false, nil
				}
				return nil, false, fmt.Errorf("failed to load folder %s: %w", id, err)
			}
			return folder.ParentID, true, nil
		}

		cycle, err := hierarchy.WouldCreateCycle(folderID, newParentID, lookup)
		if err != nil {
			return err
		}
		if cycle {
			return ErrFolderCycle
		}

		result := tx.Model(&models.Folder{}).Where("id = ?", folderID).Update("parent_id", newParentID)
		if result.Error != nil {
			return fmt.Errorf("failed to reparent folder: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete removes a folder with its notes and all share rows in one
// transaction. Child folders are re-attached to the deleted folder's
// parent so the rest of the subtree survives.
func (r *FolderRepository) Delete(ctx context.Context, folder *models.Folder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("folder_id = ?", folder.ID).Delete(&models.FolderShare{}).Error; err != nil {
			return fmt.Errorf("failed to delete folder shares: %w", err)
		}

		var notesInFolder []models.Note
		if err := tx.Select("id").Where("folder_id = ?", folder.ID).Find(&notesInFolder).Error; err != nil {
			return fmt.Errorf("failed to list notes in folder: %w", err)
		}
		for _, note := range notesInFolder {
			if err := tx.Where("note_id = ?", note.ID).Delete(&models.NoteShare{}).Error; err != nil {
				return fmt.Errorf("failed to delete note shares: %w", err)
			}
		}

		if err := tx.Where("folder_id = ?", folder.ID).Delete(&models.Note{}).Error; err != nil {
			return fmt.Errorf("failed to delete notes in folder: %w", err)
		}

		if err := tx.Model(&models.Folder{}).Where("parent_id = ?", folder.ID).
			Update("parent_id", folder.ParentID).Error; err != nil {
			return fmt.Errorf("failed to reattach child folders: %w", err)
		}

		if err := tx.Delete(folder).Error; err != nil {
			return fmt.Errorf("failed to delete folder: %w", err)
		}
		return nil
	})
}

// PathEntriesByOwner loads the owner's folders as the map BuildPath
// renders from.
func (r *FolderRepository) PathEntriesByOwner(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]hierarchy.PathEntry, error) {
	var folders []models.Folder
	if err := r.db.WithContext(ctx).Select("id", "folder_name", "parent_id").
		Where("owner_id = ?", ownerID).Find(&folders).Error; err != nil {
		return nil, fmt.Errorf("failed to load folders for path rendering: %w", err)
	}

	entries := make(map[uuid.UUID]hierarchy.PathEntry, len(folders))
	for _, folder := range folders {
		entries[folder.ID] = hierarchy.PathEntry{Name: folder.FolderName, ParentID: folder.ParentID}
	}
	return entries, nil
}

// ListByOwner returns the owner's folders sorted by name.
func (r *FolderRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Folder, error) {
	var folders []models.Folder
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("folder_name").Find(&folders).Error; err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}
