// persistence/interface.go
package persistence

import (
	"context"
	"fmt"
)

// StoryRecord is a completed story as archived in Postgres.
type StoryRecord struct {
	RoomID      string       `json:"roomId"`
	StoryPrompt string       `json:"storyPrompt"`
	FinalStory  string       `json:"finalStory"`
	Rounds      int          `json:"rounds"`
	Entries     []StoryEntry `json:"entries"`
	PlayerNames []string     `json:"playerNames"`
	ShareToken  string       `json:"shareToken"`
	Public      bool         `json:"public"`
}

// StoryEntry is one line of the archived transcript. Kept separate from the
// live game model so the archive schema does not move with it.
type StoryEntry struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Round   int    `json:"round"`
}

// Database 已完成故事的持久化接口
//
// Rooms themselves live in the expiring room store; only completed stories
// are written here, after the completion broadcast, best-effort.
type Database interface {
	SaveStory(ctx context.Context, record *StoryRecord) error
	GetStoryByShareToken(ctx context.Context, token string) (*StoryRecord, error)
	ListPublicStories(ctx context.Context, limit int) ([]*StoryRecord, error)
	CountStories(ctx context.Context) (int64, error)
	Close() error
}

// 错误定义
var ErrStoryNotFound = fmt.Errorf("story not found")
