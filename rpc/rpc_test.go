package rpc

import (
	"context"
	"testing"
	"time"

	"github.com/Robino0aashu/SagaForge/game"
	"github.com/Robino0aashu/SagaForge/persistence"
	"github.com/Robino0aashu/SagaForge/services"
	"github.com/Robino0aashu/SagaForge/store"
)

// stubDatabase serves a fixed story count.
type stubDatabase struct {
	stories int64
}

func (d *stubDatabase) SaveStory(ctx context.Context, record *persistence.StoryRecord) error {
	return nil
}

func (d *stubDatabase) GetStoryByShareToken(ctx context.Context, token string) (*persistence.StoryRecord, error) {
	return nil, persistence.ErrStoryNotFound
}

func (d *stubDatabase) ListPublicStories(ctx context.Context, limit int) ([]*persistence.StoryRecord, error) {
	return nil, nil
}

func (d *stubDatabase) CountStories(ctx context.Context) (int64, error) {
	return d.stories, nil
}

func (d *stubDatabase) Close() error { return nil }

type stubRooms struct{ n int }

func (s stubRooms) ActiveRooms() int { return s.n }

type stubSessions struct{ n int }

func (s stubSessions) Count() int { return s.n }

func newTestAdmin(stories int64) (*AdminService, *store.MemoryStore) {
	st := store.NewMemoryStore()
	svc := services.NewStoryService(&stubDatabase{stories: stories})
	return NewAdminService(st, svc, stubRooms{n: 2}, stubSessions{n: 5}), st
}

func TestAdminService_RoomStats(t *testing.T) {
	admin, st := newTestAdmin(0)

	room := game.NewRoom("ROOM1", "host-id", "Aashu", "A haunted lighthouse", 3)
	room.Players[0].SessionID = "sess-host"
	if err := st.Put(context.Background(), room, time.Hour); err != nil {
		t.Fatalf("Failed to seed room: %v", err)
	}

	var reply RoomStatsReply
	if err := admin.RoomStats(&RoomStatsArgs{RoomID: "ROOM1"}, &reply); err != nil {
		t.Fatalf("RoomStats failed: %v", err)
	}
	if reply.Status != string(game.StatusWaiting) || reply.NumberOfRounds != 3 {
		t.Errorf("Unexpected reply: %+v", reply)
	}
	if reply.PlayerCount != 1 || reply.ConnectedPlayers != 1 {
		t.Errorf("Unexpected player counts: %+v", reply)
	}

	if err := admin.RoomStats(&RoomStatsArgs{RoomID: "NOPE"}, &reply); err == nil {
		t.Error("Expected an error for an unknown room")
	}
}

func TestAdminService_ServerStats(t *testing.T) {
	admin, _ := newTestAdmin(0)

	var reply ServerStatsReply
	if err := admin.ServerStats(&ServerStatsArgs{}, &reply); err != nil {
		t.Fatalf("ServerStats failed: %v", err)
	}
	if reply.ActiveRooms != 2 || reply.ConnectedSessions != 5 {
		t.Errorf("Unexpected reply: %+v", reply)
	}
}

func TestAdminService_StoryStats(t *testing.T) {
	admin, _ := newTestAdmin(4)

	var reply StoryStatsReply
	if err := admin.StoryStats(&StoryStatsArgs{}, &reply); err != nil {
		t.Fatalf("StoryStats failed: %v", err)
	}
	if reply.ArchivedStories != 4 {
		t.Errorf("Expected 4 archived stories, got %d", reply.ArchivedStories)
	}
}
