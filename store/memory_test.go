package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Robino0aashu/SagaForge/game"
)

func TestMemoryStore_PutGetRoundtrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	room := game.NewRoom("ROOM1", "host-id", "Aashu", "prompt", 3)
	if err := s.Put(ctx, room, time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	loaded, err := s.Get(ctx, "ROOM1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.ID != "ROOM1" || len(loaded.Players) != 1 {
		t.Errorf("Unexpected snapshot: %+v", loaded)
	}
}

func TestMemoryStore_GetReturnsIndependentCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	room := game.NewRoom("ROOM1", "host-id", "Aashu", "prompt", 3)
	if err := s.Put(ctx, room, time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	first, _ := s.Get(ctx, "ROOM1")
	first.Players[0].Name = "Mallory"

	second, _ := s.Get(ctx, "ROOM1")
	if second.Players[0].Name != "Aashu" {
		t.Error("Mutating a read snapshot must not leak into the store")
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "NOPE")
	if !errors.Is(err, game.ErrRoomNotFound) {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	room := game.NewRoom("ROOM1", "host-id", "Aashu", "prompt", 3)
	if err := s.Put(ctx, room, 10*time.Millisecond); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, err := s.Get(ctx, "ROOM1")
	if !errors.Is(err, game.ErrRoomNotFound) {
		t.Errorf("Expected expired room to be gone, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	room := game.NewRoom("ROOM1", "host-id", "Aashu", "prompt", 3)
	if err := s.Put(ctx, room, time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Delete(ctx, "ROOM1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := s.Get(ctx, "ROOM1")
	if !errors.Is(err, game.ErrRoomNotFound) {
		t.Errorf("Expected deleted room to be gone, got %v", err)
	}
}
