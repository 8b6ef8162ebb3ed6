package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ncls-p/notes-sub001/internal/handlers"
)

// AuthRoutes defines the session lifecycle routes. None of them sit
// behind the auth middleware; refresh and logout authenticate through
// the refresh cookie instead.
func AuthRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}
}
