// store/redis.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Robino0aashu/SagaForge/game"
)

// RedisStore keeps room snapshots in Redis under room:{id}. Rooms are
// ephemeral by design and disappear when their TTL lapses.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 房间存储并验证连接
func NewRedisStore(host string, port int, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func roomKey(roomID string) string {
	return "room:" + roomID
}

func (s *RedisStore) Get(ctx context.Context, roomID string) (*game.Room, error) {
	data, err := s.client.Get(ctx, roomKey(roomID)).Bytes()
	if err == redis.Nil {
		return nil, game.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get room %s: %w", roomID, err)
	}

	var room game.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("unmarshal room %s: %w", roomID, err)
	}
	return &room, nil
}

func (s *RedisStore) Put(ctx context.Context, room *game.Room, ttl time.Duration) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", room.ID, err)
	}

	if err := s.client.Set(ctx, roomKey(room.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set room %s: %w", room.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, roomID string) error {
	return s.client.Del(ctx, roomKey(roomID)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
