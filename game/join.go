// game/join.go
package game

import (
	"github.com/google/uuid"
)

// JoinKind 标识一次加入请求的判定结果
type JoinKind int

const (
	JoinNew JoinKind = iota
	JoinReconnect
)

// JoinResult is the outcome of resolving a join request against the room.
type JoinResult struct {
	Kind   JoinKind
	Player *Player
}

// ResolveJoin applies the join decision table:
//
//	playerID given, matches a player  -> reconnect, rebind the session
//	playerID given, matches nobody    -> ErrUnknownPlayer
//	no playerID, name already present -> ErrDuplicateName (unless allowed)
//	no playerID, name free            -> new player appended
//
// A reconnect never touches identity or host status. A brand-new player is
// host only when the room had no players at all.
func ResolveJoin(room *Room, playerName, playerID, sessionID string, allowDuplicateNames bool) (JoinResult, error) {
	if playerID != "" {
		existing := room.FindPlayer(playerID)
		if existing == nil {
			return JoinResult{}, ErrUnknownPlayer
		}
		existing.SessionID = sessionID
		return JoinResult{Kind: JoinReconnect, Player: existing}, nil
	}

	if !allowDuplicateNames {
		for _, p := range room.Players {
			if p.Name == playerName {
				return JoinResult{}, ErrDuplicateName
			}
		}
	}

	player := &Player{
		ID:        uuid.New().String(),
		Name:      playerName,
		SessionID: sessionID,
		IsHost:    len(room.Players) == 0,
	}
	room.Players = append(room.Players, player)
	return JoinResult{Kind: JoinNew, Player: player}, nil
}

// PromoteHost demotes the given player and makes the first connected player
// the new host. Returns the promoted player, or nil if nobody is connected.
func PromoteHost(room *Room, leaving *Player) *Player {
	leaving.IsHost = false
	for _, p := range room.Players {
		if p.Connected() {
			p.IsHost = true
			return p
		}
	}
	// Nobody left online. The leaving player keeps host on reconnect
	// grounds: the room would otherwise have no host at all.
	leaving.IsHost = true
	return nil
}
