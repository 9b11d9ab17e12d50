// store/memory.go
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Robino0aashu/SagaForge/game"
)

// MemoryStore is an in-process RoomStore used by tests and single-node
// development runs. Snapshots are stored serialized so reads hand back
// independent copies, exactly like the Redis store does.
type MemoryStore struct {
	mutex sync.RWMutex
	rooms map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, roomID string) (*game.Room, error) {
	s.mutex.RLock()
	entry, exists := s.rooms[roomID]
	s.mutex.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		return nil, game.ErrRoomNotFound
	}

	var room game.Room
	if err := json.Unmarshal(entry.data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *MemoryStore) Put(ctx context.Context, room *game.Room, ttl time.Duration) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.rooms[room.ID] = memoryEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, roomID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.rooms, roomID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
