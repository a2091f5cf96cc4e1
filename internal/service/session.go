package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"supplyhub/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionPrefix is the prefix for all session tokens.
	SessionPrefix = "sh_"

	// SessionRedisKeyPrefix is the Redis key prefix for sessions.
	SessionRedisKeyPrefix = "supplyhub:session:"

	// DefaultSessionTTL is used when no TTL is configured.
	DefaultSessionTTL = 24 * time.Hour
)

// SessionService handles session token generation and validation.
type SessionService struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewSessionService creates a new session service.
func NewSessionService(redisClient *redis.Client, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		redis: redisClient,
		ttl:   ttl,
	}
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Generate creates a new session token and stores it in Redis.
func (s *SessionService) Generate(ctx context.Context, data model.SessionData) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	token := SessionPrefix + hex.EncodeToString(tokenBytes)

	data.CreatedAt = time.Now()
	data.ExpiresAt = data.CreatedAt.Add(s.ttl)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session data: %w", err)
	}

	key := SessionRedisKeyPrefix + token
	if err := s.redis.Set(ctx, key, jsonData, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	log.Printf("[SessionService] Issued session for account=%s, expires=%v", data.AccountID, data.ExpiresAt)
	return token, nil
}

// Validate checks if a token is valid and returns its session data.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.SessionData, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	if len(token) < len(SessionPrefix) || token[:len(SessionPrefix)] != SessionPrefix {
		return nil, fmt.Errorf("invalid token format")
	}

	key := SessionRedisKeyPrefix + token
	jsonData, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data model.SessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}

	if time.Now().After(data.ExpiresAt) {
		s.redis.Del(ctx, key)
		return nil, fmt.Errorf("session expired")
	}

	return &data, nil
}

// Revoke deletes a session token from Redis.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	key := SessionRedisKeyPrefix + token
	return s.redis.Del(ctx, key).Err()
}
