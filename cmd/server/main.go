package main

import (
	"chat-live/auth"
	"chat-live/infrastructure/grpc/server"
	"chat-live/infrastructure/nats"
	"chat-live/infrastructure/rest"
	"chat-live/infrastructure/ws"
	"chat-live/internal"
	"chat-live/repositories"
	"chat-live/runtime"
	"chat-live/runtime/workers"
	"chat-live/services"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat-live terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a server failure.
// Returning instead of exiting lets the deferred cleanups run.
func run() (int, error) {
	// 1. Configuration & Logger
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return exitConfig, fmt.Errorf("failed to read .env: %w", err)
	}
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)
	if config.NodeID == "" {
		config.NodeID = uuid.NewString()
	}

	// 2. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		url := fmt.Sprintf("http://localhost:%d%s", config.DebugInspectorPort, endpoint)
		logger.Info("Debug Badger inspector available", "url", url)
		database.StartDebugServer(db, config.DebugInspectorPort, endpoint, repositories.InspectMapper)
	}

	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	roomRepository := repositories.NewRoomRepository(db)
	userRepository := repositories.NewUserRepository(db)
	tokens := auth.NewTokens(config.JWTSecret, config.AuthTokenDuration)

	// 4. Setup Supervision & Orchestration
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	registry := runtime.NewRegistry()
	presence := runtime.NewPresence()
	dispatcher := runtime.NewDispatcher(logger, registry, config.SinkTimeout)
	orchestrator := runtime.NewOrchestrator(logger, sup, registry, presence, dispatcher, config.MetricInterval)

	if config.RelayEnabled() {
		relay, err := nats.Connect(logger, config.NatsURL, config.NatsSubject, config.NodeID)
		if err != nil {
			return exitRuntime, err
		}
		orchestrator.WithRelay(relay)
		logger.Info("Cluster relay enabled", "url", config.NatsURL, "node_id", config.NodeID)
	}

	chatService := services.NewChatService(logger, messageRepository, roomRepository, userRepository, dispatcher, config.EditWindow)
	presenceService := services.NewPresenceService(logger, presence, registry, dispatcher)
	signalService := services.NewSignalService(dispatcher)
	authService := services.NewAuthService(logger, userRepository, tokens)

	websocket := ws.NewHandler(logger, presenceService,
		ws.NewRouter(logger, chatService, presenceService, signalService, dispatcher),
		ws.Options{
			BufferSize:     config.ConnectionBufferSize,
			MaxMessageSize: config.MaxMessageSize,
			AllowedOrigins: config.Origins(),
		})
	api := rest.NewRouter(logger, authService, chatService, tokens)

	errChan := make(chan error, 3)

	// 5. Start the Engine (Workers and Relay)
	go func() {
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()

	// 6. Admin gRPC Server (health + reflection)
	adminAddress := fmt.Sprintf("%s:%d", config.Host, config.AdminPort)
	adminListener, err := net.Listen("tcp", adminAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", adminAddress, err)
	}
	admin := server.NewAdminServer(logger)
	go func() {
		logger.Info("Starting gRPC admin server", "address", adminAddress)
		if err := admin.Serve(adminListener); err != nil {
			errChan <- fmt.Errorf("gRPC admin server error: %w", err)
		}
	}()

	// 7. HTTP Server (REST + WebSocket)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           api.Handler(websocket),
		ReadHeaderTimeout: 10 * time.Second,
		// Sockets live as long as the process context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		logger.Info("🚀 Server running", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	admin.SetServing(true)

	// 8. Wait for Stop or Error
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		logger.Error("Server failure", "error", runErr)
	}

	// 9. Graceful Shutdown
	logger.Info("Shutting down gracefully...")
	admin.SetServing(false)
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server did not stop in time", "error", err)
	}
	admin.GracefulStop()
	orchestrator.Stop()

	if runErr != nil {
		return exitRuntime, runErr
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
