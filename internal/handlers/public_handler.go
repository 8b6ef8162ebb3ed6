package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncls-p/notes-sub001/internal/repositories"
	"github.com/ncls-p/notes-sub001/internal/share"
	"github.com/ncls-p/notes-sub001/pkg/logger"
	"github.com/ncls-p/notes-sub001/pkg/responses"
)

// PublicHandler serves anonymous reads through share tokens. It sits
// outside the auth middleware; the token is the only credential.
type PublicHandler struct {
	shareMgr *share.Manager
	notes    *repositories.NoteRepository
}

func NewPublicHandler(shareMgr *share.Manager, notes *repositories.NoteRepository) *PublicHandler {
	return &PublicHandler{shareMgr: shareMgr, notes: notes}
}

// GetSharedResource resolves a share token to the note or folder it
// points at. Tokens whose resource has been set private resolve to the
// same 404 as unknown tokens.
func (h *PublicHandler) GetSharedResource(c *gin.Context) {
	resolved, err := h.shareMgr.ResolveByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, share.ErrNotFound) {
			c.JSON(http.StatusNotFound, responses.NewErrorResponse("Not found", ""))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to resolve share token")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Internal server error", ""))
		return
	}

	if resolved.Type == "note" {
		c.JSON(http.StatusOK, responses.NewSuccessResponse("Shared note retrieved", gin.H{
			"type": resolved.Type,
			"note": resolved.Note,
		}))
		return
	}

	notes, err := h.notes.ListByFolder(c.Request.Context(), resolved.Folder.ID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list shared folder notes")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Internal server error", ""))
		return
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Shared folder retrieved", gin.H{
		"type":   resolved.Type,
		"folder": resolved.Folder,
		"notes":  notes,
	}))
}
