package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncls-p/notes-sub001/internal/auth"
	"github.com/ncls-p/notes-sub001/pkg/logger"
	"github.com/ncls-p/notes-sub001/pkg/responses"
)

const identityKey = "identity"

// AuthMiddleware authenticates every protected request through the
// session verifier. The identity placed in the context is the only
// identity handlers may use; client-supplied user headers are never
// consulted. All authentication failures surface as the same 401 so
// the response does not reveal which check failed; the specific cause
// goes to the log.
func AuthMiddleware(verifier *auth.SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractBearer(c.GetHeader("Authorization"))

		identity, err := verifier.Verify(token)
		if err != nil {
			if auth.IsAuthError(err) {
				logger.Log.Warn().
					Err(err).
					Str("path", c.Request.URL.Path).
					Msg("Authentication failed")
				c.JSON(http.StatusUnauthorized, responses.NewErrorResponse("Authentication required", ""))
				c.Abort()
				return
			}

			// Decode failures outside the authentication set mean broken
			// configuration, not a bad credential.
			logger.Log.Error().
				Err(err).
				Str("path", c.Request.URL.Path).
				Msg("Token verification failed internally")
			c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Internal server error", ""))
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFromContext returns the verified identity for this request.
func IdentityFromContext(c *gin.Context) (*auth.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*auth.Identity)
	return identity, ok
}
