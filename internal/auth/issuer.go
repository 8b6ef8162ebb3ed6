package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrMissingSecret = errors.New("token signing secret is not configured")
	ErrSharedSecret  = errors.New("access and refresh token secrets must differ")
)

// TokenPair is the result of a successful login or registration. The
// refresh token is only ever transported as an HttpOnly cookie; the
// access token goes in the response body.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time

	// RefreshTokenID is the jti embedded in the refresh token, used to
	// revoke the session before its natural expiry.
	RefreshTokenID string
}

// SessionIssuer mints the access/refresh token pair. The two codecs are
// keyed with distinct secrets so a leak of one cannot forge the other.
type SessionIssuer struct {
	access     *TokenCodec
	refresh    *TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewSessionIssuer validates the secret configuration up front. A
// missing or reused secret is a deployment error and must abort
// startup rather than surface later as an authentication failure.
func NewSessionIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*SessionIssuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrMissingSecret
	}
	if accessSecret == refreshSecret {
		return nil, ErrSharedSecret
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	return &SessionIssuer{
		access:     NewTokenCodec(accessSecret),
		refresh:    NewTokenCodec(refreshSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Issue mints a token pair for verified credentials. The refresh token
// deliberately omits the email and carries a unique jti instead.
func (i *SessionIssuer) Issue(userID uuid.UUID, email string) (*TokenPair, error) {
	accessToken, accessExpiresAt, err := i.access.Encode(Claims{
		UserID: userID.String(),
		Email:  email,
	}, i.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshTokenID := uuid.New().String()
	refreshToken, refreshExpiresAt, err := i.refresh.Encode(Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID: refreshTokenID,
		},
	}, i.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
		RefreshTokenID:   refreshTokenID,
	}, nil
}

// IssueAccess mints a fresh access token on the refresh path.
func (i *SessionIssuer) IssueAccess(userID uuid.UUID, email string) (string, time.Time, error) {
	return i.access.Encode(Claims{
		UserID: userID.String(),
		Email:  email,
	}, i.accessTTL)
}

// RefreshTTL exposes the refresh lifetime for cookie Max-Age and
// revocation-set expiry.
func (i *SessionIssuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}
