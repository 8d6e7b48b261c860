package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore records which issued tokens are still live. A token whose key
// is missing has been logged out or rotated, even if its JWT has not expired.
type SessionStore struct {
	client redis.Cmdable
}

func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

// Grant is one issued token and how long its session key should live
type Grant struct {
	TokenID string
	TTL     time.Duration
}

func AccessTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

func RefreshTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID.String(), tokenID)
}

// Open stores an access and refresh pair in one MULTI
func (s *SessionStore) Open(ctx context.Context, userID uuid.UUID, access, refresh Grant) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, AccessTokenKey(userID, access.TokenID), "valid", access.TTL)
	pipe.Set(ctx, RefreshTokenKey(userID, refresh.TokenID), "valid", refresh.TTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) AccessTokenActive(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, AccessTokenKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ConsumeRefresh deletes a refresh session and reports whether it existed,
// so a refresh token can be used once.
func (s *SessionStore) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.client.Del(ctx, RefreshTokenKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke drops the access session and, when refreshTokenID is set, its refresh session
func (s *SessionStore) Revoke(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	keys := []string{AccessTokenKey(userID, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, RefreshTokenKey(userID, refreshTokenID))
	}
	return s.client.Del(ctx, keys...).Err()
}
