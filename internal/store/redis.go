package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

// ErrUnavailable is returned when the message store cannot be reached.
var ErrUnavailable = errors.New("message store unavailable")

const (
	messageRetention = 90 * 24 * time.Hour

	// totalMessagesKey counts every message ever appended, across rooms.
	// Room sets expire; this counter does not.
	totalMessagesKey = "chat:messages:total"
)

// RedisStore is the document store for chat messages, plus rate-limit
// counters. Messages live in a sorted set per room, scored by creation time.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Client exposes the underlying client for the rate-limit middleware.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// roomMessagesKey returns the key for a room's message sorted set.
func roomMessagesKey(room string) string {
	return fmt.Sprintf("chat:room:%s:messages", room)
}

// Append stores a chat message, assigning its ID and timestamp.
func (s *RedisStore) Append(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = ulid.Make().String()
	}
	if msg.CreatedAt == 0 {
		msg.CreatedAt = time.Now().UnixMilli()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := roomMessagesKey(msg.Room)

	err = s.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(msg.CreatedAt),
		Member: string(data),
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.client.Expire(ctx, key, messageRetention)
	s.client.Incr(ctx, totalMessagesKey)

	return nil
}

// History retrieves messages from a room, newest first, paged by limit and
// offset.
func (s *RedisStore) History(ctx context.Context, room string, limit, offset int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	key := roomMessagesKey(room)

	results, err := s.client.ZRevRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	messages := make([]models.ChatMessage, 0, len(results))
	for _, data := range results {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// CountMessages returns the number of currently stored messages in a room.
func (s *RedisStore) CountMessages(ctx context.Context, room string) (int64, error) {
	count, err := s.client.ZCard(ctx, roomMessagesKey(room)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}

// CountAllMessages returns the number of messages ever sent.
func (s *RedisStore) CountAllMessages(ctx context.Context) (int64, error) {
	count, err := s.client.Get(ctx, totalMessagesKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}

// rateLimitKey returns the key for a rate limit counter.
func rateLimitKey(bucket, id string) string {
	return fmt.Sprintf("ratelimit:%s:%s", bucket, id)
}

// IncrRateLimit increments a rate-limit counter inside its window and
// returns the new count.
func (s *RedisStore) IncrRateLimit(ctx context.Context, bucket, id string, window time.Duration) (int64, error) {
	key := rateLimitKey(bucket, id)

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
