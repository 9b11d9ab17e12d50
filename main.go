package main

import (
	gonetrpc "net/rpc"

	"github.com/Robino0aashu/SagaForge/broadcast"
	"github.com/Robino0aashu/SagaForge/config"
	"github.com/Robino0aashu/SagaForge/engine"
	"github.com/Robino0aashu/SagaForge/logger"
	"github.com/Robino0aashu/SagaForge/monitor"
	"github.com/Robino0aashu/SagaForge/narrative"
	"github.com/Robino0aashu/SagaForge/persistence"
	sagarpc "github.com/Robino0aashu/SagaForge/rpc"
	"github.com/Robino0aashu/SagaForge/server"
	"github.com/Robino0aashu/SagaForge/services"
	"github.com/Robino0aashu/SagaForge/session"
	"github.com/Robino0aashu/SagaForge/store"
	"github.com/Robino0aashu/SagaForge/timer"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Room snapshots live in Redis with a TTL; rooms are ephemeral.
	roomStore, err := store.NewRedisStore(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to Redis: %v", err)
	}
	logger.Log.Info("Redis connection successful.")

	// Completed stories are archived to Postgres.
	db, err := persistence.NewGormPostgreSQL(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Log.Info("Database connection successful.")

	mon := monitor.NewMonitor("sagaforge")
	mon.StartServer(cfg.Server.MetricsAddress)

	sessionManager := session.NewManager()
	broadcaster := broadcast.NewRoomBroadcaster(sessionManager)
	scheduler := timer.NewScheduler()
	generator := narrative.NewMistralGenerator(cfg.Mistral.APIKey, cfg.Mistral.Model, cfg.Mistral.Timeout())

	storyService := services.NewStoryService(db)
	roomService := services.NewRoomService(roomStore, cfg.Game.RoomTTL(), cfg.Game.MinRounds, cfg.Game.MaxRounds)

	eng := engine.NewEngine(roomStore, broadcaster, generator, scheduler, storyService, mon, engine.Config{
		RoomTTL:             cfg.Game.RoomTTL(),
		VotingTimeout:       cfg.Game.VotingTimeout(),
		RoundDelay:          cfg.Game.RoundDelay(),
		GeneratorTimeout:    cfg.Mistral.Timeout(),
		EnforceVoteTimeout:  cfg.Game.EnforceVoteTimeout,
		AllowDuplicateNames: cfg.Game.AllowDuplicateNames,
	})

	// Admin surface over net/rpc.
	rpcServer, err := sagarpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	adminService := sagarpc.NewAdminService(roomStore, storyService, eng, sessionManager)
	if err := gonetrpc.RegisterName("Admin", adminService); err != nil {
		logger.Log.Fatalf("Failed to register RPC service: %v", err)
	}
	go rpcServer.Start()

	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, eng, sessionManager, roomService, storyService, mon)

	logger.Log.Infof("Starting SagaForge server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
