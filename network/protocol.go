package network

// Inbound event names.
const (
	EventJoinRoom  = "join-room"
	EventStartGame = "start-game"
	EventVote      = "vote"
)

// Outbound event names.
const (
	EventJoinedRoom    = "joined-room"
	EventRoomUpdated   = "room-updated"
	EventGameStarted   = "game-started"
	EventVotingStarted = "voting-started"
	EventVotingEnded   = "voting-ended"
	EventVoteRecorded  = "vote-recorded"
	EventGameCompleted = "game-completed"
	EventError         = "error"
)
