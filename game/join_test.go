package game

import (
	"testing"
)

func newTestRoom() *Room {
	return NewRoom("ROOM1", "host-id", "Aashu", "A haunted lighthouse", 3)
}

func TestResolveJoin_NewPlayer(t *testing.T) {
	room := newTestRoom()

	result, err := ResolveJoin(room, "Bob", "", "sess-bob", false)
	if err != nil {
		t.Fatalf("ResolveJoin failed: %v", err)
	}

	if result.Kind != JoinNew {
		t.Error("Expected a new join")
	}
	if result.Player.ID == "" {
		t.Error("New player should get a generated id")
	}
	if result.Player.IsHost {
		t.Error("Second player should not become host")
	}
	if len(room.Players) != 2 {
		t.Errorf("Expected 2 players, got %d", len(room.Players))
	}
}

func TestResolveJoin_FirstPlayerInEmptyRoomIsHost(t *testing.T) {
	room := newTestRoom()
	room.Players = nil

	result, err := ResolveJoin(room, "Bob", "", "sess-bob", false)
	if err != nil {
		t.Fatalf("ResolveJoin failed: %v", err)
	}
	if !result.Player.IsHost {
		t.Error("First player in an empty room should be host")
	}
}

func TestResolveJoin_ReconnectKeepsIdentityAndHost(t *testing.T) {
	room := newTestRoom()

	result, err := ResolveJoin(room, "Aashu", "host-id", "sess-new", false)
	if err != nil {
		t.Fatalf("ResolveJoin failed: %v", err)
	}

	if result.Kind != JoinReconnect {
		t.Error("Expected a reconnect")
	}
	if result.Player.ID != "host-id" {
		t.Errorf("Reconnect must not change the player id, got %s", result.Player.ID)
	}
	if !result.Player.IsHost {
		t.Error("Reconnect must not change host status")
	}
	if result.Player.SessionID != "sess-new" {
		t.Error("Reconnect should rebind the session")
	}
	if len(room.Players) != 1 {
		t.Errorf("Reconnect must not create a duplicate player, got %d players", len(room.Players))
	}
}

func TestResolveJoin_UnknownPlayerID(t *testing.T) {
	room := newTestRoom()

	_, err := ResolveJoin(room, "Ghost", "no-such-id", "sess-x", false)
	if err != ErrUnknownPlayer {
		t.Errorf("Expected ErrUnknownPlayer, got %v", err)
	}
	if len(room.Players) != 1 {
		t.Error("Failed join must not mutate the player list")
	}
}

func TestResolveJoin_DuplicateName(t *testing.T) {
	room := newTestRoom()

	_, err := ResolveJoin(room, "Aashu", "", "sess-x", false)
	if err != ErrDuplicateName {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}
}

func TestResolveJoin_DuplicateNameAllowedByPolicy(t *testing.T) {
	room := newTestRoom()

	result, err := ResolveJoin(room, "Aashu", "", "sess-x", true)
	if err != nil {
		t.Fatalf("ResolveJoin failed: %v", err)
	}
	if result.Kind != JoinNew {
		t.Error("Expected a new join under the permissive policy")
	}
	if result.Player.ID == "host-id" {
		t.Error("Same name must still mean a distinct player")
	}
}

func TestPromoteHost_FirstConnectedPlayerWins(t *testing.T) {
	room := newTestRoom()
	host := room.Players[0]
	host.SessionID = ""

	second := &Player{ID: "p2", Name: "Bob", SessionID: "sess-2"}
	third := &Player{ID: "p3", Name: "Cleo", SessionID: "sess-3"}
	room.Players = append(room.Players, second, third)

	promoted := PromoteHost(room, host)
	if promoted != second {
		t.Fatal("Expected the first connected player in join order to be promoted")
	}
	if host.IsHost {
		t.Error("Old host should be demoted")
	}
	if !second.IsHost {
		t.Error("Promoted player should be host")
	}
	if third.IsHost {
		t.Error("Exactly one player may be host")
	}
}

func TestPromoteHost_NobodyConnectedKeepsHost(t *testing.T) {
	room := newTestRoom()
	host := room.Players[0]
	host.SessionID = ""

	if promoted := PromoteHost(room, host); promoted != nil {
		t.Fatal("No promotion possible with everyone offline")
	}
	if !host.IsHost {
		t.Error("Host should be retained when nobody else is connected")
	}
}
