package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Robino0aashu/SagaForge/game"
	"github.com/Robino0aashu/SagaForge/persistence"
)

type createRoomRequest struct {
	PlayerName     string `json:"playerName"`
	StoryPrompt    string `json:"storyPrompt"`
	NumberOfRounds int    `json:"numberOfRounds"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": message})
}

func (s *GameServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "Server Running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *GameServer) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	created, err := s.roomService.CreateRoom(ctx, req.PlayerName, req.StoryPrompt, req.NumberOfRounds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"roomId":       created.RoomID,
		"hostPlayerId": created.HostPlayerID,
	})
}

func (s *GameServer) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := s.roomService.GetRoomView(ctx, roomID)
	if errors.Is(err, game.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load room")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "roomData": view})
}

func (s *GameServer) handlePublicStories(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	stories, err := s.storyService.ListPublicStories(ctx, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list stories")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "stories": stories})
}

func (s *GameServer) handleSharedStory(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("shareToken")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	story, err := s.storyService.GetSharedStory(ctx, token)
	if errors.Is(err, persistence.ErrStoryNotFound) {
		writeError(w, http.StatusNotFound, "Story not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load story")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "story": story})
}
