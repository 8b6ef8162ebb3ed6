package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncls-p/notes-sub001/internal/handlers"
)

// SetupRouter wires the full API surface. Auth and public routes stay
// open; everything else goes through the session verifier.
func SetupRouter(
	engine *gin.Engine,
	authHandler *handlers.AuthHandler,
	folderHandler *handlers.FolderHandler,
	noteHandler *handlers.NoteHandler,
	publicHandler *handlers.PublicHandler,
	authMiddleware gin.HandlerFunc,
) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	AuthRoutes(api, authHandler)
	PublicRoutes(api, publicHandler)

	protected := api.Group("/")
	protected.Use(authMiddleware)

	FolderRoutes(protected, folderHandler, noteHandler)
	NoteRoutes(protected, noteHandler)
}
