package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ncls-p/notes-sub001/internal/database"
	"github.com/ncls-p/notes-sub001/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{ID: uuid.New(), Email: email, PasswordHash: "x"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: "y"}
	assert.ErrorIs(t, repo.Create(ctx, second), ErrDuplicate)

	found, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFolderRepositoryMoveRejectsCycles(t *testing.T) {
	db := newTestDB(t)
	repo := NewFolderRepository(db)
	ctx := context.Background()
	owner := newTestUser(t, db, "owner@example.com")

	// a -> b -> c
	a := &models.Folder{ID: uuid.New(), FolderName: "a", OwnerID: owner.ID}
	require.NoError(t, repo.Create(ctx, a))
	b := &models.Folder{ID: uuid.New(), FolderName: "b", OwnerID: owner.ID, ParentID: &a.ID}
	require.NoError(t, repo.Create(ctx, b))
	c := &models.Folder{ID: uuid.New(), FolderName: "c", OwnerID: owner.ID, ParentID: &b.ID}
	require.NoError(t, repo.Create(ctx, c))

	assert.ErrorIs(t, repo.Move(ctx, a.ID, &a.ID), ErrFolderCycle)
	assert.ErrorIs(t, repo.Move(ctx, a.ID, &c.ID), ErrFolderCycle)

	// Legal move: c directly under a.
	require.NoError(t, repo.Move(ctx, c.ID, &a.ID))
	moved, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, a.ID, *moved.ParentID)

	// Move to root.
	require.NoError(t, repo.Move(ctx, c.ID, nil))
	moved, err = repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)

	assert.ErrorIs(t, repo.Move(ctx, uuid.New(), nil), ErrNotFound)
}

func TestFolderRepositoryDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	folders := NewFolderRepository(db)
	notes := NewNoteRepository(db)
	shares := NewShareRepository(db, nil)
	ctx := context.Background()

	owner := newTestUser(t, db, "owner@example.com")
	reader := newTestUser(t, db, "reader@example.com")

	parent := &models.Folder{ID: uuid.New(), FolderName: "parent", OwnerID: owner.ID}
	require.NoError(t, folders.Create(ctx, parent))
	victim := &models.Folder{ID: uuid.New(), FolderName: "victim", OwnerID: owner.ID, ParentID: &parent.ID}
	require.NoError(t, folders.Create(ctx, victim))
	child := &models.Folder{ID: uuid.New(), FolderName: "child", OwnerID: owner.ID, ParentID: &victim.ID}
	require.NoError(t, folders.Create(ctx, child))

	note := &models.Note{ID: uuid.New(), Title: "t", Content: "c", OwnerID: owner.ID, FolderID: &victim.ID}
	require.NoError(t, notes.Create(ctx, note))

	_, err := shares.UpsertFolderShare(ctx, victim.ID, reader.ID, owner.ID, models.View)
	require.NoError(t, err)
	_, err = shares.UpsertNoteShare(ctx, note.ID, reader.ID, owner.ID, models.View)
	require.NoError(t, err)

	require.NoError(t, folders.Delete(ctx, victim))

	_, err = folders.FindByID(ctx, victim.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = notes.FindByID(ctx, note.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = shares.FolderGrant(ctx, victim.ID, reader.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = shares.NoteGrant(ctx, note.ID, reader.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The orphaned child is reattached to the deleted folder's parent.
	survivor, err := folders.FindByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, survivor.ParentID)
	assert.Equal(t, parent.ID, *survivor.ParentID)
}

func TestShareRepositoryUpsertUpdatesInPlace(t *testing.T) {
	db := newTestDB(t)
	folders := NewFolderRepository(db)
	shares := NewShareRepository(db, nil)
	ctx := context.Background()

	owner := newTestUser(t, db, "owner@example.com")
	reader := newTestUser(t, db, "reader@example.com")

	folder := &models.Folder{ID: uuid.New(), FolderName: "f", OwnerID: owner.ID}
	require.NoError(t, folders.Create(ctx, folder))

	first, err := shares.UpsertFolderShare(ctx, folder.ID, reader.ID, owner.ID, models.View)
	require.NoError(t, err)
	assert.Equal(t, models.View, first.AccessLevel)

	second, err := shares.UpsertFolderShare(ctx, folder.ID, reader.ID, owner.ID, models.Edit)
	require.NoError(t, err)
	assert.Equal(t, models.Edit, second.AccessLevel)
	assert.Equal(t, first.ID, second.ID)

	all, err := shares.ListFolderShares(ctx, folder.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, shares.DeleteFolderShare(ctx, folder.ID, reader.ID))
	assert.ErrorIs(t, shares.DeleteFolderShare(ctx, folder.ID, reader.ID), ErrNotFound)
}
