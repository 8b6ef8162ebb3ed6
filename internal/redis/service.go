package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// aclTTL bounds how long a cached grant can outlive its database row.
const aclTTL = 24 * time.Hour

// Service wraps the Redis client with the two concerns this server
// caches: per-asset ACL entries and the refresh-token revocation set.
type Service struct {
	client *redis.Client
}

// NewService connects and pings so a bad address fails at startup, not
// on the first request.
func NewService(addr, password string, db int) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Service{client: client}, nil
}

func (s *Service) Close() error {
	return s.client.Close()
}

// Asset ACL cache. One hash per asset, field per user, value the
// access level. The hash expires as a whole; entries are best-effort
// and the database row stays authoritative.

func aclKey(assetID uuid.UUID) string {
	return fmt.Sprintf("asset:%s:acl", assetID)
}

// AddAssetAccess records a grant in the asset's ACL hash.
func (s *Service) AddAssetAccess(ctx context.Context, assetID, userID uuid.UUID, accessLevel string) error {
	key := aclKey(assetID)

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, userID.String(), accessLevel)
	pipe.Expire(ctx, key, aclTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache asset access: %w", err)
	}
	return nil
}

// RemoveAssetAccess drops a user's entry from the asset's ACL hash.
func (s *Service) RemoveAssetAccess(ctx context.Context, assetID, userID uuid.UUID) error {
	if err := s.client.HDel(ctx, aclKey(assetID), userID.String()).Err(); err != nil {
		return fmt.Errorf("failed to remove cached asset access: %w", err)
	}
	return nil
}

// GetAssetAccess returns the cached access level for (asset, user).
// The second return is false on a cache miss.
func (s *Service) GetAssetAccess(ctx context.Context, assetID, userID uuid.UUID) (string, bool, error) {
	level, err := s.client.HGet(ctx, aclKey(assetID), userID.String()).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cached asset access: %w", err)
	}
	return level, true, nil
}

// InvalidateAsset drops the whole ACL hash, used when an asset is
// deleted.
func (s *Service) InvalidateAsset(ctx context.Context, assetID uuid.UUID) error {
	if err := s.client.Del(ctx, aclKey(assetID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate asset cache: %w", err)
	}
	return nil
}

// Refresh-token revocation set. One key per revoked jti, expiring with
// the token itself so the set stays bounded. Shared by every server
// instance, which is why this backs auth.RevocationChecker in
// multi-node deployments.

func revocationKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

// Revoke marks a refresh token's jti as revoked until the token would
// have expired anyway.
func (s *Service) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revocationKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements auth.RevocationChecker.
func (s *Service) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
