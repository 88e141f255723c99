package main

import (
	"chat-rooms/auth"
	natsserver "chat-rooms/infrastructure/nats/server"
	"chat-rooms/repositories"
	"chat-rooms/services"
	"chat-rooms/sink"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/nats-io/nats.go"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (database close, connection
// drain) executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Realtime transport (NATS)
	nc, err := nats.Connect(config.NatsURL, nats.Name("chat-rooms"))
	if err != nil {
		return fmt.Errorf("nats connection failed: %w", err)
	}
	defer nc.Close()

	// 4. Repositories & Services
	roomRepository := repositories.NewRoomRepository(db, log)
	messageRepository := repositories.NewMessageRepository(db, log)
	bus := sink.NewNatsBus(nc, log)
	roomValidator := services.NewRoomValidator(roomRepository)
	broadcaster := services.NewRoomBroadcaster(bus, messageRepository, log)
	roomService := services.NewRoomService(
		roomRepository, messageRepository, roomValidator, broadcaster,
		log, config.HistoryPageSize,
	)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. RPC surface
	tokens := auth.NewTokens(config.TokenSecret, config.TokenDuration)
	server := natsserver.NewRoomServer(log, nc, roomService, tokens)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("room server failed to start: %w", err)
	}

	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	server.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
