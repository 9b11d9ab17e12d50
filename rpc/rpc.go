package rpc

import (
	"context"
	"net"
	"net/rpc"
	"time"

	"github.com/Robino0aashu/SagaForge/logger"
	"github.com/Robino0aashu/SagaForge/services"
	"github.com/Robino0aashu/SagaForge/store"
)

// Server manages the RPC listener for the admin surface.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// RoomCounter reports live coordinator state; implemented by the engine.
type RoomCounter interface {
	ActiveRooms() int
}

// SessionCounter reports live connection state; implemented by the session
// manager.
type SessionCounter interface {
	Count() int
}

// AdminService exposes operational queries over net/rpc.
type AdminService struct {
	store        store.RoomStore
	storyService *services.StoryService
	rooms        RoomCounter
	sessions     SessionCounter
}

func NewAdminService(st store.RoomStore, stories *services.StoryService, rooms RoomCounter, sessions SessionCounter) *AdminService {
	return &AdminService{
		store:        st,
		storyService: stories,
		rooms:        rooms,
		sessions:     sessions,
	}
}

type RoomStatsArgs struct {
	RoomID string
}

type RoomStatsReply struct {
	Status           string
	CurrentRound     int
	NumberOfRounds   int
	PlayerCount      int
	ConnectedPlayers int
}

// RoomStats is a read-only snapshot lookup; it does not go through the
// room's serialization point because it performs no read-modify-write.
func (a *AdminService) RoomStats(args *RoomStatsArgs, reply *RoomStatsReply) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	room, err := a.store.Get(ctx, args.RoomID)
	if err != nil {
		return err
	}

	reply.Status = string(room.Status)
	reply.CurrentRound = room.CurrentRound
	reply.NumberOfRounds = room.NumberOfRounds
	reply.PlayerCount = len(room.Players)
	reply.ConnectedPlayers = len(room.ConnectedPlayers())
	return nil
}

type ServerStatsArgs struct{}

type ServerStatsReply struct {
	ActiveRooms       int
	ConnectedSessions int
}

func (a *AdminService) ServerStats(args *ServerStatsArgs, reply *ServerStatsReply) error {
	reply.ActiveRooms = a.rooms.ActiveRooms()
	reply.ConnectedSessions = a.sessions.Count()
	return nil
}

type StoryStatsArgs struct{}

type StoryStatsReply struct {
	ArchivedStories int64
}

func (a *AdminService) StoryStats(args *StoryStatsArgs, reply *StoryStatsReply) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := a.storyService.CountArchivedStories(ctx)
	if err != nil {
		return err
	}
	reply.ArchivedStories = count
	return nil
}
