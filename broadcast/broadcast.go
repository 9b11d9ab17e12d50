// broadcast/broadcast.go
package broadcast

import (
	"github.com/Robino0aashu/SagaForge/session"
)

// 广播接口
//
// Delivery is best-effort: a failed send to one session never blocks the
// others, and no retry is attempted.
type Broadcaster interface {
	ToRoom(roomID string, event string, payload interface{})
	ToSession(sessionID string, event string, payload interface{})
}

// 基于会话管理器的房间广播器
type RoomBroadcaster struct {
	sessionManager *session.Manager
}

func NewRoomBroadcaster(sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{sessionManager: sessionManager}
}

func (b *RoomBroadcaster) ToRoom(roomID string, event string, payload interface{}) {
	for _, s := range b.sessionManager.GetByRoomID(roomID) {
		if err := s.Send(event, payload); err != nil {
			// 发送失败交给连接层的读循环去发现并断开
			continue
		}
	}
}

func (b *RoomBroadcaster) ToSession(sessionID string, event string, payload interface{}) {
	s, exists := b.sessionManager.Get(sessionID)
	if !exists {
		return
	}
	_ = s.Send(event, payload)
}
