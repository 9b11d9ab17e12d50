// store/store.go
package store

import (
	"context"
	"time"

	"github.com/Robino0aashu/SagaForge/game"
)

// RoomStore 房间快照存储接口
//
// The contract is plain read-then-write: the store provides no atomicity, so
// all transitions for one room must be serialized by the caller (the engine
// funnels them through a per-room goroutine).
type RoomStore interface {
	// Get returns game.ErrRoomNotFound when no live snapshot exists.
	Get(ctx context.Context, roomID string) (*game.Room, error)
	// Put writes the full snapshot and resets its expiry.
	Put(ctx context.Context, room *game.Room, ttl time.Duration) error
	Delete(ctx context.Context, roomID string) error
	Close() error
}
