package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ncls-p/notes-sub001/internal/auth"
	"github.com/ncls-p/notes-sub001/internal/dto"
	"github.com/ncls-p/notes-sub001/internal/events"
	"github.com/ncls-p/notes-sub001/internal/kafka"
	"github.com/ncls-p/notes-sub001/internal/models"
	"github.com/ncls-p/notes-sub001/internal/repositories"
	"github.com/ncls-p/notes-sub001/pkg/logger"
	"github.com/ncls-p/notes-sub001/pkg/responses"
)

const (
	// RefreshCookieName holds the refresh token. The cookie is HttpOnly
	// and path-scoped to the auth group, so browsers send it to the
	// refresh and logout endpoints and nowhere else.
	RefreshCookieName = "refresh_token"
	RefreshCookiePath = "/api/auth"
)

// Revoker invalidates a refresh token before its natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type AuthHandler struct {
	users        *repositories.UserRepository
	issuer       *auth.SessionIssuer
	verifier     *auth.SessionVerifier
	revoker      Revoker
	producer     *kafka.Producer
	cookieSecure bool
}

func NewAuthHandler(users *repositories.UserRepository, issuer *auth.SessionIssuer, verifier *auth.SessionVerifier, revoker Revoker, producer *kafka.Producer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		users:        users,
		issuer:       issuer,
		verifier:     verifier,
		revoker:      revoker,
		producer:     producer,
		cookieSecure: cookieSecure,
	}
}

// Register creates an account and opens a session in one round trip.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to register user", ""))
		return
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusConflict, responses.NewErrorResponse("Email already registered", ""))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to register user", ""))
		return
	}

	h.openSession(c, &user, http.StatusCreated, "User registered successfully")
}

// Login verifies credentials and opens a session. Unknown email and
// wrong password produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, responses.NewErrorResponse("Invalid credentials", ""))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to look up user")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to log in", ""))
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, responses.NewErrorResponse("Invalid credentials", ""))
		return
	}

	h.openSession(c, user, http.StatusOK, "Logged in successfully")
}

// Refresh mints a new access token from the refresh cookie. The
// refresh token itself is not rotated; it stays valid until logout or
// expiry.
func (h *AuthHandler) Refresh(c *gin.Context) {
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, responses.NewErrorResponse("Authentication required", ""))
		return
	}

	session, err := h.verifier.VerifyRefresh(c.Request.Context(), cookie)
	if err != nil {
		if auth.IsAuthError(err) {
			logger.Log.Warn().Err(err).Msg("Refresh token rejected")
			h.clearRefreshCookie(c)
			c.JSON(http.StatusUnauthorized, responses.NewErrorResponse("Authentication required", ""))
			return
		}
		logger.Log.Error().Err(err).Msg("Refresh verification failed internally")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to refresh session", ""))
		return
	}

	// The refresh token carries no email, so the account row supplies
	// it. A deleted account cannot refresh.
	user, err := h.users.FindByID(c.Request.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			h.clearRefreshCookie(c)
			c.JSON(http.StatusUnauthorized, responses.NewErrorResponse("Authentication required", ""))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to load user for refresh")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to refresh session", ""))
		return
	}

	accessToken, expiresAt, err := h.issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to issue access token")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to refresh session", ""))
		return
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Session refreshed", gin.H{
		"accessToken": accessToken,
		"expiresAt":   expiresAt,
	}))
}

// Logout revokes the refresh token and clears the cookie. It succeeds
// even when no valid cookie is present so repeated logouts are
// harmless.
func (h *AuthHandler) Logout(c *gin.Context) {
	defer h.clearRefreshCookie(c)

	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie == "" {
		c.JSON(http.StatusOK, responses.NewSuccessResponse("Logged out", nil))
		return
	}

	session, err := h.verifier.VerifyRefresh(c.Request.Context(), cookie)
	if err != nil {
		// An expired or already-revoked token needs no further action.
		c.JSON(http.StatusOK, responses.NewSuccessResponse("Logged out", nil))
		return
	}

	if h.revoker != nil {
		if err := h.revoker.Revoke(c.Request.Context(), session.TokenID, session.ExpiresAt); err != nil {
			logger.Log.Error().Err(err).Str("tokenId", session.TokenID).Msg("Failed to revoke refresh token")
			c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to log out", ""))
			return
		}
	}

	if h.producer != nil {
		event := events.NewSessionRevokedEvent(session.UserID, session.TokenID, session.ExpiresAt)
		if err := h.producer.PublishSessionEvent(c.Request.Context(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish session revocation")
		}
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Logged out", nil))
}

func (h *AuthHandler) openSession(c *gin.Context, user *models.User, status int, message string) {
	pair, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to issue session tokens")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to open session", ""))
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken, int(h.issuer.RefreshTTL().Seconds()))

	c.JSON(status, responses.NewSuccessResponse(message, gin.H{
		"user":        user,
		"accessToken": pair.AccessToken,
		"expiresAt":   pair.AccessExpiresAt,
	}))
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, value, maxAge, RefreshCookiePath, "", h.cookieSecure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
}
