package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncls-p/notes-sub001/internal/auth"
	"github.com/ncls-p/notes-sub001/internal/authz"
	"github.com/ncls-p/notes-sub001/internal/events"
	"github.com/ncls-p/notes-sub001/internal/kafka"
	"github.com/ncls-p/notes-sub001/internal/middleware"
	"github.com/ncls-p/notes-sub001/pkg/logger"
	"github.com/ncls-p/notes-sub001/pkg/responses"
)

// requestIdentity pulls the verified identity set by the auth
// middleware. Handlers behind the middleware treat absence as an
// internal error: it means the route was wired without protection.
func requestIdentity(c *gin.Context) (*auth.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		logger.Log.Error().Str("path", c.Request.URL.Path).Msg("Protected route reached without identity")
		c.JSON(http.StatusUnauthorized, responses.NewErrorResponse("Authentication required", ""))
		return nil, false
	}
	return identity, true
}

// respondDenied writes the uniform denial. Unauthenticated requests get
// 401; everything else gets the 404 shape that hides whether the
// resource exists at all.
func respondDenied(c *gin.Context, decision authz.Decision, resourceLabel string) {
	if decision.Reason == authz.DenyUnauthenticated {
		c.JSON(http.StatusUnauthorized, responses.NewErrorResponse("Authentication required", ""))
		return
	}
	c.JSON(http.StatusNotFound, responses.NewErrorResponse(resourceLabel+" not found", ""))
}

// publishAssetEvent is fire-and-forget: event delivery must never fail
// the request that caused it.
func publishAssetEvent(ctx context.Context, producer *kafka.Producer, event *events.AssetEvent) {
	if producer == nil {
		return
	}
	if err := producer.PublishAssetEvent(ctx, event); err != nil {
		logger.Log.Error().Err(err).Str("eventType", event.EventType).Msg("Failed to publish asset event")
	}
}
