package session

import (
	"net"
	"testing"

	"github.com/Robino0aashu/SagaForge/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(event string, payload interface{}) error { return nil }
func (m *MockConnection) ReadEnvelope() (*network.Envelope, error)     { return nil, nil }
func (m *MockConnection) Ping() error                                  { return nil }
func (m *MockConnection) Close() error                                 { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                         { return &net.TCPAddr{} }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_GetByRoomID(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConnection{})
	sess1.Bind("player1", "ROOM1")

	sess2 := NewSession("session2", &MockConnection{})
	sess2.Bind("player2", "ROOM2")

	sess3 := NewSession("session3", &MockConnection{})
	sess3.Bind("player3", "ROOM1")

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)

	room1Sessions := manager.GetByRoomID("ROOM1")
	if len(room1Sessions) != 2 {
		t.Errorf("Expected 2 sessions in ROOM1, got %d", len(room1Sessions))
	}

	room2Sessions := manager.GetByRoomID("ROOM2")
	if len(room2Sessions) != 1 {
		t.Errorf("Expected 1 session in ROOM2, got %d", len(room2Sessions))
	}

	if unbound := manager.GetByRoomID("ROOM3"); len(unbound) != 0 {
		t.Errorf("Expected 0 sessions in ROOM3, got %d", len(unbound))
	}
}

func TestSession_Bind(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})

	playerID, roomID := sess.Binding()
	if playerID != "" || roomID != "" {
		t.Error("A fresh session should be unbound")
	}

	sess.Bind("player1", "ROOM1")

	playerID, roomID = sess.Binding()
	if playerID != "player1" || roomID != "ROOM1" {
		t.Errorf("Unexpected binding: player=%q room=%q", playerID, roomID)
	}
}
