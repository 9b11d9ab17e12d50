// services/story_service.go
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Robino0aashu/SagaForge/game"
	"github.com/Robino0aashu/SagaForge/persistence"
)

// StoryService archives completed stories and serves them back by share
// token or public listing.
type StoryService struct {
	db persistence.Database
}

func NewStoryService(db persistence.Database) *StoryService {
	return &StoryService{db: db}
}

// SaveCompletedStory implements engine.Archiver. Called once per room, right
// after the completion broadcast.
func (s *StoryService) SaveCompletedStory(ctx context.Context, room *game.Room) error {
	names := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		names = append(names, p.Name)
	}

	entries := make([]persistence.StoryEntry, 0, len(room.Story))
	for _, entry := range room.Story {
		entries = append(entries, persistence.StoryEntry{
			Kind:    string(entry.Kind),
			Content: entry.Content,
			Round:   entry.Round,
		})
	}

	return s.db.SaveStory(ctx, &persistence.StoryRecord{
		RoomID:      room.ID,
		StoryPrompt: room.StoryPrompt,
		FinalStory:  room.FinalStory,
		Rounds:      room.NumberOfRounds,
		Entries:     entries,
		PlayerNames: names,
		ShareToken:  uuid.New().String(),
		Public:      true,
	})
}

func (s *StoryService) GetSharedStory(ctx context.Context, token string) (*persistence.StoryRecord, error) {
	return s.db.GetStoryByShareToken(ctx, token)
}

func (s *StoryService) ListPublicStories(ctx context.Context, limit int) ([]*persistence.StoryRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.db.ListPublicStories(ctx, limit)
}

// CountArchivedStories 返回归档故事总数
func (s *StoryService) CountArchivedStories(ctx context.Context) (int64, error) {
	return s.db.CountStories(ctx)
}
