// game/errors.go
package game

import "errors"

// Taxonomy of request-terminal errors. Each one aborts the single requesting
// action with no state mutation; the requester gets an error event and no
// other connection is notified.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrUnknownPlayer  = errors.New("player id not found in this room")
	ErrDuplicateName  = errors.New("player name already taken")
	ErrNotHost        = errors.New("only the host can start the game")
	ErrNotVoting      = errors.New("no voting round is open")
	ErrPlayerNotFound = errors.New("connection does not belong to a player in this room")
)
