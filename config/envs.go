package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP   string // Host IP the servers listen on
	GrpcPort int    // Port for the gRPC control server
	WsPort   int    // Port for the WebSocket server

	MazeSize          int    // Side length of generated mazes
	TimeLimit         int    // Seconds per game
	TickIntervalMs    int    // Countdown poll interval (in milliseconds)
	SessionTTLMinutes int    // Lifetime of a session (in minutes)
	MazeSeed          uint64 // Seed for reproducible mazes, 0 for random
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:   getEnv("HOST_IP", "0.0.0.0"),
		GrpcPort: getEnvAsInt("GRPC_PORT", 50051),
		WsPort:   getEnvAsInt("WS_PORT", 8080),

		MazeSize:          getEnvAsInt("MAZE_SIZE", 15),
		TimeLimit:         mustBePositive("TIME_LIMIT", getEnvAsInt("TIME_LIMIT", 120)),
		TickIntervalMs:    mustBePositive("TICK_INTERVAL_MS", getEnvAsInt("TICK_INTERVAL_MS", 100)),
		SessionTTLMinutes: mustBePositive("SESSION_TTL_MINUTES", getEnvAsInt("SESSION_TTL_MINUTES", 30)),
		MazeSeed:          getEnvAsUint64("MAZE_SEED", 0),
	}
}

// getEnv retrieves the value of an environment variable or returns fallback if not set.
func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Printf("[APP] [INFO] Environment variable %s is not set, using %q", key, fallback)
		return fallback
	}
	return value
}

// getEnvAsInt retrieves the value of an environment variable as an integer or
// returns fallback if not set. A value that cannot be parsed is fatal.
func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		log.Printf("[APP] [INFO] Environment variable %s is not set, using %d", key, fallback)
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("%s[APP]%s %s[FATAL]%s Environment variable %s must be an integer: %v", ColorGreen, ColorReset, ColorRed, ColorReset, key, err)
	}
	return value
}

// getEnvAsUint64 retrieves the value of an environment variable as an unsigned
// integer or returns fallback if not set. Negative or unparsable values are fatal.
func getEnvAsUint64(key string, fallback uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		log.Printf("[APP] [INFO] Environment variable %s is not set, using %d", key, fallback)
		return fallback
	}
	value, err := parseUint64(valueStr)
	if err != nil {
		log.Fatalf("%s[APP]%s %s[FATAL]%s Environment variable %s: %v", ColorGreen, ColorReset, ColorRed, ColorReset, key, err)
	}
	return value
}

func parseUint64(s string) (uint64, error) {
	value, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("must be a non-negative integer: %w", err)
	}
	return value, nil
}

// mustBePositive returns value, exiting if it is zero or negative.
func mustBePositive(key string, value int) int {
	if err := checkPositive(value); err != nil {
		log.Fatalf("%s[APP]%s %s[FATAL]%s Environment variable %s: %v", ColorGreen, ColorReset, ColorRed, ColorReset, key, err)
	}
	return value
}

func checkPositive(value int) error {
	if value <= 0 {
		return fmt.Errorf("must be greater than 0, got %d", value)
	}
	return nil
}
