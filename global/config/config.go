package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig carries everything main needs to wire the process. Values come
// from the environment with development defaults, so a bare `go run .`
// against local Mongo/Redis works.
type AppConfig struct {
	HTTPAddr string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  []byte
	SessionTTL time.Duration

	AllowedOrigin string

	// Per-connection outbound queue size for the realtime gateway.
	SendQueueSize int
}

// Load reads .env (if present) and assembles the AppConfig.
func Load() *AppConfig {
	_ = godotenv.Load()

	return &AppConfig{
		HTTPAddr:      getEnv("DEVCONNECT_ADDR", ":5000"),
		MongoURI:      getEnv("DEVCONNECT_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("DEVCONNECT_MONGO_DB", "devconnect"),
		RedisAddr:     getEnv("DEVCONNECT_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("DEVCONNECT_REDIS_PASSWORD"),
		RedisDB:       getEnvInt("DEVCONNECT_REDIS_DB", 0),
		JWTSecret:     []byte(getEnv("DEVCONNECT_JWT_SECRET", "dev-only-secret-change-me")),
		SessionTTL:    getEnvDuration("DEVCONNECT_SESSION_TTL", 7*24*time.Hour),
		AllowedOrigin: getEnv("DEVCONNECT_FRONTEND_URL", "http://localhost:5173"),
		SendQueueSize: getEnvInt("DEVCONNECT_WS_QUEUE", 256),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
