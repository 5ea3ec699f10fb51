// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/constants"
)

// RedisTokenRepository implements [TokenRepository] using Redis, with keys
// partitioned by a configurable prefix so reset and verification tokens
// live in separate keyspaces.
type RedisTokenRepository struct {
	client *redis.Client
	prefix string
}

// NewResetTokenRepository creates a Redis-backed store for password reset tokens.
func NewResetTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixResetToken}
}

// NewVerificationTokenRepository creates a Redis-backed store for email verification tokens.
func NewVerificationTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixVerifyToken}
}

/*
Set stores a token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {
	key := repository.prefix + token

	if err := repository.client.Set(context, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the userID for a given token.

Description: Returns apperr.NotFound if the token is absent or expired,
which the flows above treat as an invalid token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Original UserID
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisTokenRepository) Get(context context.Context, token string) (string, error) {
	key := repository.prefix + token

	userID, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Token")
		}
		return "", fmt.Errorf("redis_token_get_failed: %w", err)
	}

	return userID, nil
}

/*
Delete removes the token from Redis after a successful single use.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisTokenRepository) Delete(context context.Context, token string) error {
	key := repository.prefix + token

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_token_delete_failed: %w", err)
	}

	return nil
}
