package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"denuncia/backend/internal/config"
	"denuncia/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// EventsChannel is the Redis Pub/Sub channel carrying every CaseEvent.
const EventsChannel = "case:events"

func followerKey(caseID uint) string {
	return "case:follower:" + strconv.FormatUint(uint64(caseID), 10)
}

func revokedKey(sessionID string) string {
	return "session:revoked:" + sessionID
}

// PublishEvent publishes ev on EventsChannel.
func (s *Service) PublishEvent(ctx context.Context, ev models.CaseEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(ctx, EventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish case event: %w", err)
	}
	return nil
}

// SubscribeEvents subscribes to EventsChannel. The caller closes the PubSub.
func (s *Service) SubscribeEvents(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, EventsChannel)
}

// SetFollower records follower as the administrator currently following the
// case and returns whoever was recorded before. It is informational: nothing
// prevents another administrator from taking over.
func (s *Service) SetFollower(ctx context.Context, caseID uint, follower string) (string, error) {
	prev, err := s.Redis.SetArgs(ctx, followerKey(caseID), follower, redis.SetArgs{
		TTL: config.FollowerTTL,
		Get: true,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("set follower: %w", err)
	}
	return prev, nil
}

func (s *Service) GetFollower(ctx context.Context, caseID uint) (string, error) {
	follower, err := s.Redis.Get(ctx, followerKey(caseID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get follower: %w", err)
	}
	return follower, nil
}

// RevokeSession marks a session id as signed out until its token would have expired.
func (s *Service) RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.Redis.Set(ctx, revokedKey(sessionID), "1", ttl).Err()
}

// IsSessionRevoked checks the revocation marker in Redis.
func (s *Service) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.Redis.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
