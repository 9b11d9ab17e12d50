package game

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRoom_HostPresentButOffline(t *testing.T) {
	room := newTestRoom()

	if room.Status != StatusWaiting {
		t.Errorf("Expected waiting status, got %s", room.Status)
	}
	if len(room.Players) != 1 {
		t.Fatalf("Expected 1 player, got %d", len(room.Players))
	}

	host := room.Players[0]
	if !host.IsHost {
		t.Error("Creator should be host")
	}
	if host.Connected() {
		t.Error("Creator starts disconnected")
	}
}

func TestView_OmitsVotes(t *testing.T) {
	room := newTestRoom()
	room.Status = StatusVoting
	room.CurrentChoices = []string{"A", "B", "C"}
	room.Votes = map[string]int{"host-id": 2}

	data, err := json.Marshal(room.View())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "votes") {
		t.Error("Public view must not reveal in-progress votes")
	}
}

func TestView_OmitsSessionIDs(t *testing.T) {
	room := newTestRoom()
	room.Players[0].SessionID = "sess-secret"

	data, err := json.Marshal(room.View())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "sess-secret") {
		t.Error("Public view must not expose session ids")
	}

	if !room.View().Players[0].Connected {
		t.Error("View should report connection liveness")
	}
}

func TestAllConnectedVoted(t *testing.T) {
	room := newTestRoom()
	room.Players[0].SessionID = "sess-host"
	room.Players = append(room.Players,
		&Player{ID: "p2", Name: "Bob", SessionID: "sess-2"},
		&Player{ID: "p3", Name: "Cleo"}, // offline
	)

	room.Votes = map[string]int{"host-id": 0}
	if room.AllConnectedVoted() {
		t.Error("Bob has not voted yet")
	}

	room.Votes["p2"] = 1
	if !room.AllConnectedVoted() {
		t.Error("Both connected players voted; offline Cleo must not count")
	}
}

func TestAllConnectedVoted_NobodyConnected(t *testing.T) {
	room := newTestRoom()
	if room.AllConnectedVoted() {
		t.Error("A room with no live connections cannot close a round")
	}
}

func TestAppendEntry_TagsCurrentRound(t *testing.T) {
	room := newTestRoom()
	room.CurrentRound = 2
	room.AppendEntry(EntryNarrative, "The fog thickens.")

	if len(room.Story) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(room.Story))
	}
	entry := room.Story[0]
	if entry.Kind != EntryNarrative || entry.Round != 2 {
		t.Errorf("Unexpected entry: %+v", entry)
	}
}
