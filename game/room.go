// game/room.go
package game

import (
	"time"
)

// SchemaVersion is stamped on every snapshot written to the room store so
// stored rooms can be migrated if the layout changes.
const SchemaVersion = 1

// RoomStatus 表示房间的业务状态
type RoomStatus string

const (
	StatusWaiting   RoomStatus = "waiting"
	StatusVoting    RoomStatus = "voting"
	StatusCompleted RoomStatus = "completed"
)

// EntryKind tags a story entry.
type EntryKind string

const (
	EntryPrompt     EntryKind = "prompt"
	EntryNarrative  EntryKind = "narrative"
	EntryChoice     EntryKind = "choice"
	EntryConclusion EntryKind = "conclusion"
)

// StoryEntry is immutable once appended to Room.Story.
type StoryEntry struct {
	Kind    EntryKind `json:"kind"`
	Content string    `json:"content"`
	Round   int       `json:"round"`
}

// Player is a participant. ID is stable across reconnects; SessionID is the
// current connection reference and empty means offline.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SessionID string `json:"sessionId"`
	IsHost    bool   `json:"isHost"`
}

// Connected reports whether the player has a live connection.
func (p *Player) Connected() bool {
	return p.SessionID != ""
}

// Room 是一次游戏会话的全部状态，整体序列化到房间存储
type Room struct {
	SchemaVersion  int            `json:"schemaVersion"`
	ID             string         `json:"id"`
	Status         RoomStatus     `json:"status"`
	StoryPrompt    string         `json:"storyPrompt"`
	NumberOfRounds int            `json:"numberOfRounds"`
	CurrentRound   int            `json:"currentRound"`
	Story          []StoryEntry   `json:"story"`
	CurrentChoices []string       `json:"currentChoices"`
	Votes          map[string]int `json:"votes"`
	Players        []*Player      `json:"players"`
	FinalStory     string         `json:"finalStory"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// NewRoom 创建一个新房间，房主已加入但尚未连接
func NewRoom(id, hostPlayerID, hostName, storyPrompt string, numberOfRounds int) *Room {
	return &Room{
		SchemaVersion:  SchemaVersion,
		ID:             id,
		Status:         StatusWaiting,
		StoryPrompt:    storyPrompt,
		NumberOfRounds: numberOfRounds,
		Story:          []StoryEntry{},
		Votes:          make(map[string]int),
		Players: []*Player{{
			ID:     hostPlayerID,
			Name:   hostName,
			IsHost: true,
		}},
		CreatedAt: time.Now(),
	}
}

// FindPlayer 按玩家ID查找
func (r *Room) FindPlayer(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// FindPlayerBySession resolves the player that owns a connection.
func (r *Room) FindPlayerBySession(sessionID string) *Player {
	if sessionID == "" {
		return nil
	}
	for _, p := range r.Players {
		if p.SessionID == sessionID {
			return p
		}
	}
	return nil
}

// ConnectedPlayers returns the players with a live connection, in join order.
func (r *Room) ConnectedPlayers() []*Player {
	var out []*Player
	for _, p := range r.Players {
		if p.Connected() {
			out = append(out, p)
		}
	}
	return out
}

// AllConnectedVoted reports whether every currently connected player has a
// vote recorded for the open round. False when nobody is connected.
func (r *Room) AllConnectedVoted() bool {
	connected := r.ConnectedPlayers()
	if len(connected) == 0 {
		return false
	}
	for _, p := range connected {
		if _, ok := r.Votes[p.ID]; !ok {
			return false
		}
	}
	return true
}

// AppendEntry 追加一条故事记录，只增不改
func (r *Room) AppendEntry(kind EntryKind, content string) {
	r.Story = append(r.Story, StoryEntry{
		Kind:    kind,
		Content: content,
		Round:   r.CurrentRound,
	})
}

// View is the public shape of a room, broadcast to clients. Votes are
// omitted so in-progress tallies are never revealed.
type View struct {
	ID             string       `json:"id"`
	Status         RoomStatus   `json:"status"`
	StoryPrompt    string       `json:"storyPrompt"`
	NumberOfRounds int          `json:"numberOfRounds"`
	CurrentRound   int          `json:"currentRound"`
	Story          []StoryEntry `json:"story"`
	CurrentChoices []string     `json:"currentChoices"`
	Players        []PlayerView `json:"players"`
	FinalStory     string       `json:"finalStory,omitempty"`
}

// PlayerView omits the session reference.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	IsHost    bool   `json:"isHost"`
}

// View 生成去掉投票信息的公开视图
func (r *Room) View() View {
	players := make([]PlayerView, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Connected: p.Connected(),
			IsHost:    p.IsHost,
		})
	}
	return View{
		ID:             r.ID,
		Status:         r.Status,
		StoryPrompt:    r.StoryPrompt,
		NumberOfRounds: r.NumberOfRounds,
		CurrentRound:   r.CurrentRound,
		Story:          r.Story,
		CurrentChoices: r.CurrentChoices,
		Players:        players,
		FinalStory:     r.FinalStory,
	}
}
