package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMissingToken is returned when no bearer token was presented.
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidPayload is returned for a correctly signed token whose
	// claims are incomplete. It indicates a token-format mismatch (for
	// example a refresh token presented where an access token is
	// expected) rather than tampering, so it is kept distinct from
	// ErrInvalidSignature.
	ErrInvalidPayload = errors.New("invalid token payload")

	// ErrTokenRevoked is returned when the token's jti is in the
	// revocation set.
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Identity is the authenticated principal for one request. It is built
// only from a verified token, never from client-supplied headers.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// RefreshSession is the outcome of verifying a refresh token.
type RefreshSession struct {
	UserID    uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}

// RevocationChecker reports whether a token ID has been revoked before
// its natural expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SessionVerifier turns bearer strings into identities. It never
// touches the resource store; its only lookup is the revocation set on
// the refresh path.
type SessionVerifier struct {
	access      *TokenCodec
	refresh     *TokenCodec
	revocations RevocationChecker
}

func NewSessionVerifier(accessSecret, refreshSecret string, revocations RevocationChecker) *SessionVerifier {
	return &SessionVerifier{
		access:      NewTokenCodec(accessSecret),
		refresh:     NewTokenCodec(refreshSecret),
		revocations: revocations,
	}
}

// Verify checks an access token and returns the identity it proves.
// Every failure is one of the package's sentinel errors; anything else
// is an internal error and must not be surfaced as unauthorized.
func (v *SessionVerifier) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := v.access.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.UserID == "" || claims.Email == "" {
		return nil, ErrInvalidPayload
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}

// VerifyRefresh checks a refresh token and consults the revocation set
// so a logged-out session cannot mint new access tokens.
func (v *SessionVerifier) VerifyRefresh(ctx context.Context, tokenString string) (*RefreshSession, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := v.refresh.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.UserID == "" || claims.ID == "" {
		return nil, ErrInvalidPayload
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	if v.revocations != nil {
		revoked, err := v.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return &RefreshSession{
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IsAuthError reports whether err belongs to the authentication error
// set. Handlers surface these uniformly as 401 and log the specific
// cause; everything else is a 500-class internal error.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrTokenRevoked)
}

// ExtractBearer pulls the token out of an Authorization header value.
// Only the Bearer scheme is accepted; anything else reads as no token.
func ExtractBearer(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
