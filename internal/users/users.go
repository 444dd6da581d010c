// Package users resolves session tokens to user metadata. Sessions are
// written by the external identity provider; this package only reads them,
// through a short-lived redis cache backed by the read replica.
package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"clarify-api/internal/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Manager struct {
	redis *redis.Client
	rdb   *sql.DB
	log   *zap.SugaredLogger
}

func NewManager(redisClient *redis.Client, rdb *sql.DB, log *zap.SugaredLogger) *Manager {
	return &Manager{redis: redisClient, rdb: rdb, log: log}
}

func cacheKey(token string) string {
	return fmt.Sprintf("v1:user:session:%s", token)
}

func (m *Manager) GetFromToken(ctx context.Context, token string) (*shared.UserMetadata, error) {
	var userMetadata shared.UserMetadata
	userMetadata.SessionToken = token

	userInfoCacheKey := cacheKey(token)
	userInfoCache, err := m.redis.Get(ctx, userInfoCacheKey).Result()
	switch err {
	case nil:
		err = json.Unmarshal([]byte(userInfoCache), &userMetadata)
		if err == nil {
			return &userMetadata, nil
		}
		m.log.Errorw("Error unmarshalling user info cache", "error", err)
		fallthrough
	default:
		m.log.Debugw("User cache miss", "key", userInfoCacheKey)

		err = m.rdb.QueryRowContext(ctx, `
		SELECT
		user.id,
		user.email,
		user.credits
		FROM user
		INNER JOIN session ON user.id = session.user_id
		WHERE session.id = ? AND session.expires_at > NOW()
		`, token).Scan(
			&userMetadata.UserID,
			&userMetadata.Email,
			&userMetadata.Credits,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				m.log.Warnw("Invalid or expired session token")
				return nil, shared.ErrUnauthorized
			}
			m.log.Errorw("Database error during session validation", "error", err)
			return nil, shared.ErrUnauthorized
		}
		go func() {
			userInfoCache, err := json.Marshal(userMetadata)
			if err != nil {
				m.log.Errorw("Error marshalling user info", "error", err)
				return
			}
			m.redis.Set(context.Background(), userInfoCacheKey, userInfoCache, shared.UserInfoCacheTTL)
		}()
		return &userMetadata, nil
	}
}

// Invalidate drops the cached metadata for a session so a credit change is
// visible before the cache TTL runs out.
func (m *Manager) Invalidate(ctx context.Context, token string) {
	if err := m.redis.Del(ctx, cacheKey(token)).Err(); err != nil {
		m.log.Warnw("Failed to invalidate user cache", "error", err)
	}
}
