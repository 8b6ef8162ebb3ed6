package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ncls-p/notes-sub001/internal/handlers"
)

// FolderRoutes defines routes for folder management
func FolderRoutes(rg *gin.RouterGroup, folderHandler *handlers.FolderHandler, noteHandler *handlers.NoteHandler) {
	folders := rg.Group("/folders")
	{
		folders.GET("", folderHandler.ListFolders)
		folders.POST("", folderHandler.CreateFolder)
		folders.GET("/:folderId", folderHandler.GetFolder)
		folders.PUT("/:folderId", folderHandler.UpdateFolder)
		folders.PUT("/:folderId/move", folderHandler.MoveFolder)
		folders.DELETE("/:folderId", folderHandler.DeleteFolder)

		// Note creation within folder
		folders.POST("/:folderId/notes", noteHandler.CreateNote)

		// Sharing
		folders.POST("/:folderId/share", folderHandler.ShareFolder)
		folders.DELETE("/:folderId/share/:userId", folderHandler.RevokeFolderShare)
		folders.PUT("/:folderId/public", folderHandler.SetFolderPublic)
	}
}
