package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ncls-p/notes-sub001/internal/models"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *NoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	var note models.Note
	if err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	return &note, nil
}

func (r *NoteRepository) Save(ctx context.Context, note *models.Note) error {
	if err := r.db.WithContext(ctx).Save(note).Error; err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

// Delete removes a note and its share rows in one transaction.
func (r *NoteRepository) Delete(ctx context.Context, note *models.Note) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", note.ID).Delete(&models.NoteShare{}).Error; err != nil {
			return fmt.Errorf("failed to delete note shares: %w", err)
		}
		if err := tx.Delete(note).Error; err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}
		return nil
	})
}

func (r *NoteRepository) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]models.Note, error) {
	var notes []models.Note
	if err := r.db.WithContext(ctx).Where("folder_id = ?", folderID).
		Order("title").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes in folder: %w", err)
	}
	return notes, nil
}
