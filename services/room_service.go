// services/room_service.go
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Robino0aashu/SagaForge/game"
	"github.com/Robino0aashu/SagaForge/store"
)

// RoomService creates rooms and serves read-only room views. All mutating
// game traffic goes through the engine instead.
type RoomService struct {
	store     store.RoomStore
	roomTTL   time.Duration
	minRounds int
	maxRounds int
}

func NewRoomService(st store.RoomStore, roomTTL time.Duration, minRounds, maxRounds int) *RoomService {
	return &RoomService{
		store:     st,
		roomTTL:   roomTTL,
		minRounds: minRounds,
		maxRounds: maxRounds,
	}
}

// CreatedRoom 创建房间的结果
type CreatedRoom struct {
	RoomID       string `json:"roomId"`
	HostPlayerID string `json:"hostPlayerId"`
}

// CreateRoom validates the round bounds, generates the room code and host
// identity, and writes the initial waiting snapshot. The host is present in
// the player list but not yet connected; they attach through a join with
// their player id.
func (s *RoomService) CreateRoom(ctx context.Context, hostName, storyPrompt string, numberOfRounds int) (*CreatedRoom, error) {
	if strings.TrimSpace(hostName) == "" {
		return nil, errors.New("player name is required")
	}
	if strings.TrimSpace(storyPrompt) == "" {
		return nil, errors.New("story prompt is required")
	}
	if numberOfRounds < s.minRounds || numberOfRounds > s.maxRounds {
		return nil, fmt.Errorf("number of rounds must be between %d and %d", s.minRounds, s.maxRounds)
	}

	roomID, err := s.uniqueRoomCode(ctx)
	if err != nil {
		return nil, err
	}

	hostPlayerID := uuid.New().String()
	room := game.NewRoom(roomID, hostPlayerID, hostName, storyPrompt, numberOfRounds)

	if err := s.store.Put(ctx, room, s.roomTTL); err != nil {
		return nil, err
	}

	return &CreatedRoom{RoomID: roomID, HostPlayerID: hostPlayerID}, nil
}

// GetRoomView 读取房间的公开视图
func (s *RoomService) GetRoomView(ctx context.Context, roomID string) (game.View, error) {
	room, err := s.store.Get(ctx, roomID)
	if err != nil {
		return game.View{}, err
	}
	return room.View(), nil
}

// uniqueRoomCode generates a short uppercase hex code and retries on the
// unlikely collision with a live room.
func (s *RoomService) uniqueRoomCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		code := strings.ToUpper(hex.EncodeToString(buf))

		_, err := s.store.Get(ctx, code)
		if errors.Is(err, game.ErrRoomNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not generate a unique room code")
}
