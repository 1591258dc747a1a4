package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-maze-runner/api"
	"github.com/beka-birhanu/vinom-maze-runner/config"
	"github.com/beka-birhanu/vinom-maze-runner/service"
	"github.com/beka-birhanu/vinom-maze-runner/service/i"
	"google.golang.org/grpc"
)

// Global variables for dependencies
var (
	grpcConnListener   net.Listener
	grpcServer         *grpc.Server
	httpServer         *http.Server
	webSocketHub       *api.WebSocketHub
	gameSessionManager i.GameSessionManager
	appLogger          general_i.Logger
)

func initWebSocketHub() {
	wsLogger, err := logger.New("WEBSOCKET", config.ColorBlue, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating websocket logger: %v", err))
		os.Exit(1)
	}
	webSocketHub = api.NewWebSocketHub(wsLogger)
	appLogger.Info("WebSocket hub initialized")
}

func initGameSessionManager() {
	gameLogger, err := logger.New("GAME-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game session manager logger: %v", err))
		os.Exit(1)
	}
	manager, err := service.NewGameSessionManager(
		&service.Config{
			Sink:         webSocketHub,
			MazeSize:     config.Envs.MazeSize,
			TimeLimit:    config.Envs.TimeLimit,
			TickInterval: time.Duration(config.Envs.TickIntervalMs) * time.Millisecond,
			SessionTTL:   time.Duration(config.Envs.SessionTTLMinutes) * time.Minute,
			Seed:         config.Envs.MazeSeed,
			Logger:       gameLogger,
		},
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game session manager: %v", err))
		os.Exit(1)
	}
	gameSessionManager = manager
	webSocketHub.SetSessionManager(manager)
	appLogger.Info("Game Session Manager initialized")
}

func initSessionManagerController() {
	grpcLogger, err := logger.New("GRPC", config.ColorPurple, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating gRPC logger: %v", err))
		os.Exit(1)
	}
	grpcServer = grpc.NewServer()
	err = api.RegisterNewGameSessionManager(grpcServer, gameSessionManager, grpcLogger)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating and Registering session manager controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session controller initialized")
}

func initHTTPServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", webSocketHub.Handle)
	httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.WsPort),
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 30 * time.Second,
	}
	appLogger.Info("HTTP server initialized")
}

// handleSignals stops every session and both servers on SIGINT or SIGTERM.
func handleSignals() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	appLogger.Info("Received shutdown signal")

	// Ending the sessions first lets WebSocket clients receive their close frames.
	gameSessionManager.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("HTTP server shutdown: %v", err))
	}
	grpcServer.GracefulStop()
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	initWebSocketHub()
	initGameSessionManager()
	initSessionManagerController()
	initHTTPServer()

	defer gameSessionManager.StopAll()

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Serving websocket: %v", err))
			os.Exit(1)
		}
	}()
	appLogger.Info(fmt.Sprintf("Serving websocket at: %s", httpServer.Addr))

	var err error
	addr := fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.GrpcPort)
	grpcConnListener, err = net.Listen("tcp", addr)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Listening tcp: %v", err))
		os.Exit(1)
	}
	defer func() {
		_ = grpcConnListener.Close()
	}()

	go handleSignals()

	appLogger.Info(fmt.Sprintf("Serving gRPC at: %s", addr))
	if err := grpcServer.Serve(grpcConnListener); err != nil {
		appLogger.Error(fmt.Sprintf("Serving gRPC: %v", err))
		os.Exit(1)
	}
}
