package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*SessionIssuer, *SessionVerifier, *RevocationList) {
	t.Helper()

	issuer, err := NewSessionIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	revocations := NewRevocationList(time.Minute)
	t.Cleanup(revocations.Stop)

	return issuer, NewSessionVerifier("access-secret", "refresh-secret", revocations), revocations
}

func TestSessionVerifierVerify(t *testing.T) {
	issuer, verifier, _ := newTestSession(t)

	userID := uuid.New()
	pair, err := issuer.Issue(userID, "alice@example.com")
	require.NoError(t, err)

	identity, err := verifier.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, "alice@example.com", identity.Email)
}

func TestSessionVerifierMissingToken(t *testing.T) {
	_, verifier, _ := newTestSession(t)

	_, err := verifier.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestSessionVerifierRejectsRefreshTokenAsAccess(t *testing.T) {
	issuer, verifier, _ := newTestSession(t)

	pair, err := issuer.Issue(uuid.New(), "alice@example.com")
	require.NoError(t, err)

	// Signed with the other secret, so the signature check rejects it
	// before the payload is even inspected.
	_, err = verifier.Verify(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestSessionVerifierInvalidPayload(t *testing.T) {
	_, verifier, _ := newTestSession(t)

	// Correctly signed access token without an email.
	codec := NewTokenCodec("access-secret")
	tokenString, _, err := codec.Encode(Claims{UserID: uuid.New().String()}, 15*time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestSessionVerifierVerifyRefresh(t *testing.T) {
	issuer, verifier, _ := newTestSession(t)

	userID := uuid.New()
	pair, err := issuer.Issue(userID, "alice@example.com")
	require.NoError(t, err)

	session, err := verifier.VerifyRefresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, pair.RefreshTokenID, session.TokenID)
	assert.WithinDuration(t, pair.RefreshExpiresAt, session.ExpiresAt, time.Second)
}

func TestSessionVerifierRevokedRefresh(t *testing.T) {
	issuer, verifier, revocations := newTestSession(t)

	pair, err := issuer.Issue(uuid.New(), "alice@example.com")
	require.NoError(t, err)

	require.NoError(t, revocations.Revoke(context.Background(), pair.RefreshTokenID, pair.RefreshExpiresAt))

	_, err = verifier.VerifyRefresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestIsAuthError(t *testing.T) {
	for _, err := range []error{
		ErrMissingToken,
		ErrTokenMalformed,
		ErrTokenExpired,
		ErrInvalidSignature,
		ErrInvalidPayload,
		ErrTokenRevoked,
	} {
		assert.True(t, IsAuthError(err), "%v", err)
	}

	assert.False(t, IsAuthError(context.DeadlineExceeded))
	assert.False(t, IsAuthError(nil))
}

func TestExtractBearer(t *testing.T) {
	assert.Equal(t, "abc", ExtractBearer("Bearer abc"))
	assert.Equal(t, "abc", ExtractBearer("Bearer  abc"))
	assert.Equal(t, "", ExtractBearer(""))

	// Values without the Bearer scheme never pass through as tokens.
	assert.Equal(t, "", ExtractBearer("abc"))
	assert.Equal(t, "", ExtractBearer("Basic dXNlcjpwdw=="))
	assert.Equal(t, "", ExtractBearer("bearer abc"))
}
