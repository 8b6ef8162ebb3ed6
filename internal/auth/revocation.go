package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationList is an in-memory revocation set keyed by token jti.
// Entries expire with the token they revoke, so the set stays bounded
// by the number of sessions ended early within one refresh lifetime.
// Deployments running more than one instance use the Redis-backed
// implementation instead; this one serves single-node setups and tests.
type RevocationList struct {
	mu         sync.RWMutex
	revoked    map[string]time.Time // token ID -> token expiry
	cleanupInt time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// NewRevocationList creates the list and starts a background sweep that
// drops entries for tokens that have expired on their own.
func NewRevocationList(cleanupInterval time.Duration) *RevocationList {
	rl := &RevocationList{
		revoked:    make(map[string]time.Time),
		cleanupInt: cleanupInterval,
		stopCh:     make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Revoke marks a token ID as revoked until the token's own expiry.
func (rl *RevocationList) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.revoked[tokenID] = expiresAt
	return nil
}

// IsRevoked reports whether the token ID is revoked. A revocation whose
// token has since expired no longer counts; expiry already ends it.
func (rl *RevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	expiresAt, exists := rl.revoked[tokenID]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		return false, nil
	}

	return true, nil
}

// Size returns the current number of revoked token IDs.
func (rl *RevocationList) Size() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.revoked)
}

// Stop ends the cleanup goroutine.
func (rl *RevocationList) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

func (rl *RevocationList) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInt)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RevocationList) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for tokenID, expiresAt := range rl.revoked {
		if now.After(expiresAt) {
			delete(rl.revoked, tokenID)
		}
	}
}
