package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Robino0aashu/SagaForge/engine"
	"github.com/Robino0aashu/SagaForge/logger"
	"github.com/Robino0aashu/SagaForge/monitor"
	"github.com/Robino0aashu/SagaForge/network"
	"github.com/Robino0aashu/SagaForge/services"
	"github.com/Robino0aashu/SagaForge/session"
)

const requestTimeout = 30 * time.Second

// GameServer is the connection gateway: it upgrades websockets, maps inbound
// events to engine calls and forwards connection drops as disconnect events.
type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	engine         *engine.Engine
	sessionManager *session.Manager
	roomService    *services.RoomService
	storyService   *services.StoryService
	monitor        *monitor.Monitor
	shutdownChan   chan struct{}
}

func NewGameServer(addr string, eng *engine.Engine, sessions *session.Manager,
	rooms *services.RoomService, stories *services.StoryService, mon *monitor.Monitor) *GameServer {
	return &GameServer{
		addr:           addr,
		engine:         eng,
		sessionManager: sessions,
		roomService:    rooms,
		storyService:   stories,
		monitor:        mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}
}

func (s *GameServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/games/create-room", s.handleCreateRoom)
	mux.HandleFunc("GET /api/games/room/{roomId}", s.handleGetRoom)
	mux.HandleFunc("GET /api/games/stories/public", s.handlePublicStories)
	mux.HandleFunc("GET /api/games/story/share/{shareToken}", s.handleSharedStory)

	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(network.NewWSConnection(conn))
}

func (s *GameServer) handleConnection(conn network.Connection) {
	sess := session.NewSession(uuid.New().String(), conn)
	s.sessionManager.Add(sess)
	if s.monitor != nil {
		s.monitor.IncConnectedPlayers()
	}

	logger.Log.Infof("New connection from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())

	go s.keepAlive(conn, network.PingInterval)

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())
		// Forward the drop as a disconnect event before forgetting the
		// session, so the room can reassign the host and re-check the round.
		if _, roomID := sess.Binding(); roomID != "" {
			s.engine.Disconnect(roomID, sess.GetID())
		}
		s.sessionManager.Remove(sess.GetID())
		if s.monitor != nil {
			s.monitor.DecConnectedPlayers()
		}
		conn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			envelope, err := conn.ReadEnvelope()
			if err != nil {
				return
			}
			s.handleEvent(sess, envelope)
		}
	}
}

// keepAlive pings until the connection dies or the server shuts down. The
// pong handler on the connection extends its read deadline, so an
// unresponsive peer fails its read promptly and is treated as disconnected.
func (s *GameServer) keepAlive(conn network.Connection, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				return
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *GameServer) handleEvent(sess *session.Session, envelope *network.Envelope) {
	start := time.Now()
	if s.monitor != nil {
		s.monitor.IncEventsReceived()
		defer func() {
			s.monitor.ObserveEventLatency(time.Since(start))
		}()
	}

	switch envelope.Event {
	case network.EventJoinRoom:
		s.handleJoinRoom(sess, envelope)
	case network.EventStartGame:
		s.handleStartGame(sess, envelope)
	case network.EventVote:
		s.handleVote(sess, envelope)
	default:
		logger.Log.Infof("Unknown event %q from session %s", envelope.Event, sess.GetID())
	}
}
