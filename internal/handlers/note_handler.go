package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ncls-p/notes-sub001/internal/auth"
	"github.com/ncls-p/notes-sub001/internal/authz"
	"github.com/ncls-p/notes-sub001/internal/dto"
	"github.com/ncls-p/notes-sub001/internal/events"
	"github.com/ncls-p/notes-sub001/internal/kafka"
	"github.com/ncls-p/notes-sub001/internal/models"
	"github.com/ncls-p/notes-sub001/internal/repositories"
	"github.com/ncls-p/notes-sub001/internal/services"
	"github.com/ncls-p/notes-sub001/internal/share"
	"github.com/ncls-p/notes-sub001/pkg/logger"
	"github.com/ncls-p/notes-sub001/pkg/responses"
)

type NoteHandler struct {
	notes     *repositories.NoteRepository
	folders   *repositories.FolderRepository
	shares    *repositories.ShareRepository
	users     *repositories.UserRepository
	directory *services.UserDirectory
	authz     *authz.Service
	shareMgr  *share.Manager
	producer  *kafka.Producer
}

func NewNoteHandler(
	notes *repositories.NoteRepository,
	folders *repositories.FolderRepository,
	shares *repositories.ShareRepository,
	users *repositories.UserRepository,
	directory *services.UserDirectory,
	authzService *authz.Service,
	shareMgr *share.Manager,
	producer *kafka.Producer,
) *NoteHandler {
	return &NoteHandler{
		notes:     notes,
		folders:   folders,
		shares:    shares,
		users:     users,
		directory: directory,
		authz:     authzService,
		shareMgr:  shareMgr,
		producer:  producer,
	}
}

// authorizeNote loads the note and runs the access decision in one
// step. A missing row and a forbidden row produce the same denial.
func (h *NoteHandler) authorizeNote(c *gin.Context, identity *auth.Identity, action authz.Action) (*models.Note, bool) {
	noteID, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		c.JSON(http.StatusNotFound, responses.NewErrorResponse("Note not found", ""))
		return nil, false
	}

	note, err := h.notes.FindByID(c.Request.Context(), noteID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("Failed to load note")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Internal server error", ""))
		return nil, false
	}

	decision, err := h.authz.AuthorizeNote(c.Request.Context(), identity, action, note)
	if err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("Note authorization failed")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Internal server error", ""))
		return nil, false
	}
	if !decision.Allowed {
		respondDenied(c, decision, "Note")
		return nil, false
	}

	return note, true
}

// CreateNote creates a note inside a folder. Writing into the folder
// requires update access on it; the creator becomes the note's owner.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	folderID, err := uuid.Parse(c.Param("folderId"))
	if err != nil {
		c.JSON(http.StatusNotFound, responses.NewErrorResponse("Folder not found", ""))
		return
	}

	folder, err := h.folders.FindByID(c.Request.Context(), folderID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.Log.Error().Err(err).Msg("Failed to load folder for note creation")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to create note", ""))
		return
	}

	decision, err := h.authz.AuthorizeFolder(c.Request.Context(), identity, authz.ActionUpdate, folder)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Folder authorization failed")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to create note", ""))
		return
	}
	if !decision.Allowed {
		respondDenied(c, decision, "Folder")
		return
	}

	note := models.Note{
		ID:       uuid.New(),
		Title:    req.Title,
		Content:  req.Content,
		OwnerID:  identity.UserID,
		FolderID: &folder.ID,
	}

	if err := h.notes.Create(c.Request.Context(), &note); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create note")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to create note", ""))
		return
	}

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetEvent(events.NoteCreated, events.AssetTypeNote, note.ID, note.OwnerID, identity.UserID))

	c.JSON(http.StatusCreated, responses.NewSuccessResponse("Note created", note))
}

// GetNote returns a note the caller may read. Share rows are included
// for the owner only.
func (h *NoteHandler) GetNote(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	note, ok := h.authorizeNote(c, identity, authz.ActionRead)
	if !ok {
		return
	}

	payload := gin.H{"note": note}

	if note.OwnerID == identity.UserID {
		shares, err := h.shares.ListNoteShares(c.Request.Context(), note.ID)
		if err != nil {
			logger.Log.Error().Err(err).Msg("Failed to list note shares")
			c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to retrieve note", ""))
			return
		}
		payload["shares"] = shares
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Note retrieved", payload))
}

// UpdateNote rewrites a note's title and content.
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	note, ok := h.authorizeNote(c, identity, authz.ActionUpdate)
	if !ok {
		return
	}

	note.Title = req.Title
	note.Content = req.Content
	if err := h.notes.Save(c.Request.Context(), note); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to update note")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to update note", ""))
		return
	}

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetEvent(events.NoteUpdated, events.AssetTypeNote, note.ID, note.OwnerID, identity.UserID))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Note updated", note))
}

// DeleteNote removes a note and its shares. Owner only.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	note, ok := h.authorizeNote(c, identity, authz.ActionDelete)
	if !ok {
		return
	}

	if err := h.notes.Delete(c.Request.Context(), note); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to delete note")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to delete note", ""))
		return
	}

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetEvent(events.NoteDeleted, events.AssetTypeNote, note.ID, note.OwnerID, identity.UserID))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Note deleted", nil))
}

// ShareNote grants a user access to a note. Owner only.
func (h *NoteHandler) ShareNote(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request body", err.Error()))
		return
	}
	if !req.AccessLevel.Valid() {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Access level must be view or edit", ""))
		return
	}

	note, ok := h.authorizeNote(c, identity, authz.ActionManage)
	if !ok {
		return
	}

	targetID, ok := resolveShareTarget(c, h.users, h.directory, &req)
	if !ok {
		return
	}
	if targetID == identity.UserID {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Cannot share a note with its owner", ""))
		return
	}

	grant, err := h.shares.UpsertNoteShare(c.Request.Context(), note.ID, targetID, identity.UserID, req.AccessLevel)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to share note")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to share note", ""))
		return
	}

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetSharingEvent(events.NoteShared, events.AssetTypeNote, note.ID, note.OwnerID, identity.UserID, targetID, string(req.AccessLevel)))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Note shared", grant))
}

// RevokeNoteShare removes a user's grant on a note. Owner only.
func (h *NoteHandler) RevokeNoteShare(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusNotFound, responses.NewErrorResponse("Sharing not found", ""))
		return
	}

	note, ok := h.authorizeNote(c, identity, authz.ActionManage)
	if !ok {
		return
	}

	if err := h.shares.DeleteNoteShare(c.Request.Context(), note.ID, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, responses.NewErrorResponse("Sharing not found", ""))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to revoke note share")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to revoke sharing", ""))
		return
	}

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetSharingEvent(events.NoteUnshared, events.AssetTypeNote, note.ID, note.OwnerID, identity.UserID, targetID, ""))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Sharing revoked", nil))
}

// SetNotePublic toggles anonymous read access on a note.
func (h *NoteHandler) SetNotePublic(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.SetPublicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	note, ok := h.authorizeNote(c, identity, authz.ActionManage)
	if !ok {
		return
	}

	if err := h.shareMgr.SetNotePublic(c.Request.Context(), note, *req.IsPublic); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to update note public access")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to update public access", ""))
		return
	}

	eventType := events.PublicLinkDisabled
	if note.IsPublic {
		eventType = events.PublicLinkEnabled
	}
	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetEvent(eventType, events.AssetTypeNote, note.ID, note.OwnerID, identity.UserID))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Public access updated", note))
}
