package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ncls-p/notes-sub001/internal/handlers"
)

// PublicRoutes defines the anonymous share-link route.
func PublicRoutes(rg *gin.RouterGroup, publicHandler *handlers.PublicHandler) {
	rg.GET("/public/:token", publicHandler.GetSharedResource)
}
