// Package auth gates the analytics API behind opaque bearer tokens. The
// tokens carry no analytics data; identity resolution lives outside this
// service.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenInvalid indicates the presented token is unknown or expired.
var ErrTokenInvalid = errors.New("auth: token invalid")

// TokenStore validates API tokens against Redis, with an optional static
// allow list for machine clients provisioned through configuration.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
	static []string
}

// NewTokenStore constructs a TokenStore. Static tokens stay valid without
// a Redis entry.
func NewTokenStore(client *redis.Client, ttl time.Duration, static []string) *TokenStore {
	return &TokenStore{client: client, ttl: ttl, static: static}
}

// Issue mints a new token bound to a subject and stores its digest.
func (s *TokenStore) Issue(ctx context.Context, subject string) (string, error) {
	if s == nil || s.client == nil {
		return "", errors.New("auth: token store not configured")
	}
	if subject == "" {
		return "", errors.New("auth: subject required")
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, s.redisKey(token), subject, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Validate resolves a token to its subject. Static tokens resolve to the
// subject "service".
func (s *TokenStore) Validate(ctx context.Context, token string) (string, error) {
	if s == nil || token == "" {
		return "", ErrTokenInvalid
	}
	for _, candidate := range s.static {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
			return "service", nil
		}
	}
	if s.client == nil {
		return "", ErrTokenInvalid
	}
	subject, err := s.client.Get(ctx, s.redisKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenInvalid
		}
		return "", fmt.Errorf("auth: lookup token: %w", err)
	}
	return subject, nil
}

// Revoke removes a token immediately.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.redisKey(token)).Err()
}

// redisKey stores digests rather than raw tokens so a Redis dump does not
// leak usable credentials.
func (s *TokenStore) redisKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:token:" + hex.EncodeToString(sum[:])
}
