package server

import (
	"context"
	"encoding/json"

	"github.com/Robino0aashu/SagaForge/game"
	"github.com/Robino0aashu/SagaForge/network"
	"github.com/Robino0aashu/SagaForge/session"
)

type joinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	PlayerID   string `json:"playerId,omitempty"`
}

type startGameRequest struct {
	RoomID string `json:"roomId"`
}

type voteRequest struct {
	RoomID      string `json:"roomId"`
	ChoiceIndex int    `json:"choiceIndex"`
}

type joinedRoomResponse struct {
	Success  bool      `json:"success"`
	PlayerID string    `json:"playerId"`
	RoomData game.View `json:"roomData"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// sendError notifies only the requester; a failed single-player action never
// disturbs the rest of the room.
func (s *GameServer) sendError(sess *session.Session, err error) {
	_ = sess.Send(network.EventError, errorResponse{Message: err.Error()})
}

func (s *GameServer) handleJoinRoom(sess *session.Session, envelope *network.Envelope) {
	var req joinRoomRequest
	if err := json.Unmarshal(envelope.Data, &req); err != nil || req.RoomID == "" || req.PlayerName == "" {
		_ = sess.Send(network.EventError, errorResponse{Message: "Room ID and player name are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	reply, err := s.engine.Join(ctx, req.RoomID, req.PlayerName, req.PlayerID, sess.GetID())
	if err != nil {
		s.sendError(sess, err)
		return
	}

	// Bind before acking so every later broadcast reaches the joiner.
	sess.Bind(reply.PlayerID, req.RoomID)
	_ = sess.Send(network.EventJoinedRoom, joinedRoomResponse{
		Success:  true,
		PlayerID: reply.PlayerID,
		RoomData: reply.View,
	})
}

func (s *GameServer) handleStartGame(sess *session.Session, envelope *network.Envelope) {
	var req startGameRequest
	if err := json.Unmarshal(envelope.Data, &req); err != nil || req.RoomID == "" {
		_ = sess.Send(network.EventError, errorResponse{Message: "Room ID is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := s.engine.Start(ctx, req.RoomID, sess.GetID()); err != nil {
		s.sendError(sess, err)
	}
}

func (s *GameServer) handleVote(sess *session.Session, envelope *network.Envelope) {
	var req voteRequest
	if err := json.Unmarshal(envelope.Data, &req); err != nil || req.RoomID == "" {
		_ = sess.Send(network.EventError, errorResponse{Message: "Room ID is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := s.engine.Vote(ctx, req.RoomID, sess.GetID(), req.ChoiceIndex); err != nil {
		s.sendError(sess, err)
	}
}
