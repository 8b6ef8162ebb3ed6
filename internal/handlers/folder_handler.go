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
	"github.com/ncls-p/notes-sub001/internal/hierarchy"
	"github.com/ncls-p/notes-sub001/internal/kafka"
	"github.com/ncls-p/notes-sub001/internal/models"
	"github.com/ncls-p/notes-sub001/internal/repositories"
	"github.com/ncls-p/notes-sub001/internal/services"
	"github.com/ncls-p/notes-sub001/internal/share"
	"github.com/ncls-p/notes-sub001/pkg/logger"
	"github.com/ncls-p/notes-sub001/pkg/responses"
)

type FolderHandler struct {
	folders   *repositories.FolderRepository
	notes     *repositories.NoteRepository
	shares    *repositories.ShareRepository
	users     *repositories.UserRepository
	directory *services.UserDirectory
	authz     *authz.Service
	shareMgr  *share.Manager
	producer  *kafka.Producer
}

func NewFolderHandler(
	folders *repositories.FolderRepository,
	notes *repositories.NoteRepository,
	shares *repositories.ShareRepository,
	users *repositories.UserRepository,
	directory *services.UserDirectory,
	authzService *authz.Service,
	shareMgr *share.Manager,
	producer *kafka.Producer,
) *FolderHandler {
	return &FolderHandler{
		folders:   folders,
		notes:     notes,
		shares:    shares,
		users:     users,
		directory: directory,
		authz:     authzService,
		shareMgr:  shareMgr,
		producer:  producer,
	}
}

// authorizeFolder loads the folder and runs the access decision in one
// step. A missing row and a forbidden row produce the same denial.
func (h *FolderHandler) authorizeFolder(c *gin.Context, identity *auth.Identity, action authz.Action) (*models.Folder, bool) {
	folderID, err := uuid.Parse(c.Param("folderId"))
	if err != nil {
		c.JSON(http.StatusNotFound, responses.NewErrorResponse("Folder not found", ""))
		return nil, false
	}

	folder, err := h.folders.FindByID(c.Request.Context(), folderID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.Log.Error().Err(err).Str("folderId", folderID.String()).Msg("Failed to load folder")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Internal server error", ""))
		return nil, false
	}

	decision, err := h.authz.AuthorizeFolder(c.Request.Context(), identity, action, folder)
	if err != nil {
		logger.Log.Error().Err(err).Str("folderId", folderID.String()).Msg("Folder authorization failed")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Internal server error", ""))
		return nil, false
	}
	if !decision.Allowed {
		respondDenied(c, decision, "Folder")
		return nil, false
	}

	return folder, true
}

// ListFolders returns the caller's own folders.
func (h *FolderHandler) ListFolders(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	folders, err := h.folders.ListByOwner(c.Request.Context(), identity.UserID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list folders")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to list folders", ""))
		return
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Folders retrieved", folders))
}

// CreateFolder creates a folder, optionally under a parent the caller
// owns.
func (h *FolderHandler) CreateFolder(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	if req.ParentID != nil {
		parent, err := h.folders.FindByID(c.Request.Context(), *req.ParentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, responses.NewErrorResponse("Parent folder not found", ""))
				return
			}
			logger.Log.Error().Err(err).Msg("Failed to load parent folder")
			c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to create folder", ""))
			return
		}
		if parent.OwnerID != identity.UserID {
			c.JSON(http.StatusNotFound, responses.NewErrorResponse("Parent folder not found", ""))
			return
		}
	}

	folder := models.Folder{
		ID:         uuid.New(),
		FolderName: req.FolderName,
		OwnerID:    identity.UserID,
		ParentID:   req.ParentID,
	}

	if err := h.folders.Create(c.Request.Context(), &folder); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create folder")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to create folder", ""))
		return
	}

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetEvent(events.FolderCreated, events.AssetTypeFolder, folder.ID, folder.OwnerID, identity.UserID))

	c.JSON(http.StatusCreated, responses.NewSuccessResponse("Folder created", folder))
}

// GetFolder returns the folder with its notes and the rendered
// ancestor path. Share rows are included for the owner only.
func (h *FolderHandler) GetFolder(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	folder, ok := h.authorizeFolder(c, identity, authz.ActionRead)
	if !ok {
		return
	}

	notes, err := h.notes.ListByFolder(c.Request.Context(), folder.ID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list folder notes")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to retrieve folder", ""))
		return
	}

	entries, err := h.folders.PathEntriesByOwner(c.Request.Context(), folder.OwnerID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load folder path entries")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to retrieve folder", ""))
		return
	}

	payload := gin.H{
		"folder": folder,
		"notes":  notes,
		"path":   hierarchy.BuildPath(entries, folder.ParentID),
	}

	if folder.OwnerID == identity.UserID {
		shares, err := h.shares.ListFolderShares(c.Request.Context(), folder.ID)
		if err != nil {
			logger.Log.Error().Err(err).Msg("Failed to list folder shares")
			c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to retrieve folder", ""))
			return
		}
		payload["shares"] = shares
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Folder retrieved", payload))
}

// UpdateFolder renames a folder.
func (h *FolderHandler) UpdateFolder(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	folder, ok := h.authorizeFolder(c, identity, authz.ActionUpdate)
	if !ok {
		return
	}

	folder.FolderName = req.FolderName
	if err := h.folders.Save(c.Request.Context(), folder); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to rename folder")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to update folder", ""))
		return
	}

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetEvent(events.FolderUpdated, events.AssetTypeFolder, folder.ID, folder.OwnerID, identity.UserID))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Folder updated", folder))
}

// MoveFolder reparents a folder. The new parent must belong to the
// folder's owner, and a move that would close a cycle is rejected.
func (h *FolderHandler) MoveFolder(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.MoveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	folder, ok := h.authorizeFolder(c, identity, authz.ActionUpdate)
	if !ok {
		return
	}

	if req.ParentID != nil {
		parent, err := h.folders.FindByID(c.Request.Context(), *req.ParentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, responses.NewErrorResponse("Parent folder not found", ""))
				return
			}
			logger.Log.Error().Err(err).Msg("Failed to load new parent folder")
			c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to move folder", ""))
			return
		}
		if parent.OwnerID != folder.OwnerID {
			c.JSON(http.StatusNotFound, responses.NewErrorResponse("Parent folder not found", ""))
			return
		}
	}

	if err := h.folders.Move(c.Request.Context(), folder.ID, req.ParentID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrFolderCycle):
			c.JSON(http.StatusConflict, responses.NewErrorResponse("Moving this folder would create a cycle", ""))
		case errors.Is(err, repositories.ErrNotFound):
			c.JSON(http.StatusNotFound, responses.NewErrorResponse("Folder not found", ""))
		default:
			logger.Log.Error().Err(err).Msg("Failed to move folder")
			c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to move folder", ""))
		}
		return
	}

	folder.ParentID = req.ParentID

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetEvent(events.FolderMoved, events.AssetTypeFolder, folder.ID, folder.OwnerID, identity.UserID))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Folder moved", folder))
}

// DeleteFolder removes a folder with its notes and shares. Owner only.
func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	folder, ok := h.authorizeFolder(c, identity, authz.ActionDelete)
	if !ok {
		return
	}

	if err := h.folders.Delete(c.Request.Context(), folder); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to delete folder")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to delete folder", ""))
		return
	}

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetEvent(events.FolderDeleted, events.AssetTypeFolder, folder.ID, folder.OwnerID, identity.UserID))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Folder deleted", nil))
}

// ShareFolder grants a user access to a folder. Owner only; sharing
// again with a different level updates the grant in place.
func (h *FolderHandler) ShareFolder(c *gin.Context) {
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

	folder, ok := h.authorizeFolder(c, identity, authz.ActionManage)
	if !ok {
		return
	}

	targetID, ok := h.resolveShareTarget(c, &req)
	if !ok {
		return
	}
	if targetID == identity.UserID {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Cannot share a folder with its owner", ""))
		return
	}

	grant, err := h.shares.UpsertFolderShare(c.Request.Context(), folder.ID, targetID, identity.UserID, req.AccessLevel)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to share folder")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to share folder", ""))
		return
	}

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetSharingEvent(events.FolderShared, events.AssetTypeFolder, folder.ID, folder.OwnerID, identity.UserID, targetID, string(req.AccessLevel)))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Folder shared", grant))
}

// RevokeFolderShare removes a user's grant on a folder. Owner only.
func (h *FolderHandler) RevokeFolderShare(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusNotFound, responses.NewErrorResponse("Sharing not found", ""))
		return
	}

	folder, ok := h.authorizeFolder(c, identity, authz.ActionManage)
	if !ok {
		return
	}

	if err := h.shares.DeleteFolderShare(c.Request.Context(), folder.ID, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, responses.NewErrorResponse("Sharing not found", ""))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to revoke folder share")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to revoke sharing", ""))
		return
	}

	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetSharingEvent(events.FolderUnshared, events.AssetTypeFolder, folder.ID, folder.OwnerID, identity.UserID, targetID, ""))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Sharing revoked", nil))
}

// SetFolderPublic toggles anonymous read access. Enabling keeps any
// existing token so shared links stay stable; disabling clears it.
func (h *FolderHandler) SetFolderPublic(c *gin.Context) {
	identity, ok := requestIdentity(c)
	if !ok {
		return
	}

	var req dto.SetPublicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	folder, ok := h.authorizeFolder(c, identity, authz.ActionManage)
	if !ok {
		return
	}

	if err := h.shareMgr.SetFolderPublic(c.Request.Context(), folder, *req.IsPublic); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to update folder public access")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to update public access", ""))
		return
	}

	eventType := events.PublicLinkDisabled
	if folder.IsPublic {
		eventType = events.PublicLinkEnabled
	}
	publishAssetEvent(c.Request.Context(), h.producer,
		events.NewAssetEvent(eventType, events.AssetTypeFolder, folder.ID, folder.OwnerID, identity.UserID))

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Public access updated", folder))
}

// resolveShareTarget turns a share request into a local user id. An
// email goes through the user directory when one is configured and
// falls back to the local users table.
func (h *FolderHandler) resolveShareTarget(c *gin.Context, req *dto.ShareRequest) (uuid.UUID, bool) {
	return resolveShareTarget(c, h.users, h.directory, req)
}

func resolveShareTarget(c *gin.Context, users *repositories.UserRepository, directory *services.UserDirectory, req *dto.ShareRequest) (uuid.UUID, bool) {
	if req.UserID != nil {
		if _, err := users.FindByID(c.Request.Context(), *req.UserID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, responses.NewErrorResponse("User not found", ""))
				return uuid.Nil, false
			}
			logger.Log.Error().Err(err).Msg("Failed to look up share target")
			c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to resolve user", ""))
			return uuid.Nil, false
		}
		return *req.UserID, true
	}

	if req.Email == nil || *req.Email == "" {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Either userId or email is required", ""))
		return uuid.Nil, false
	}

	if directory != nil {
		directoryUser, err := directory.GetUserByEmail(c.Request.Context(), *req.Email)
		switch {
		case err != nil:
			logger.Log.Warn().Err(err).Str("email", *req.Email).
				Msg("Directory lookup failed, falling back to local users")
		default:
			id, parseErr := uuid.Parse(directoryUser.UserID)
			if parseErr == nil {
				return id, true
			}
			logger.Log.Warn().Err(parseErr).Str("email", *req.Email).
				Msg("Directory returned an unusable user id, falling back to local users")
		}
	}

	user, err := users.FindByEmail(c.Request.Context(), *req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, responses.NewErrorResponse("User not found", ""))
			return uuid.Nil, false
		}
		logger.Log.Error().Err(err).Msg("Failed to look up share target by email")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to resolve user", ""))
		return uuid.Nil, false
	}
	return user.ID, true
}
