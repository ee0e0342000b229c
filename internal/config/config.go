package config

import (
	"os"
	"strconv"
	"time"
)

const defaultGameDuration = 90

type Config struct {
	Port         string
	DatabaseURL  string
	GameDuration int // seconds
	LogFile      string
	LogLevel     string
	RoomIdleTTL  time.Duration
	EntityTTL    time.Duration
	MessageRate  float64 // frames per second per connection
	MessageBurst int
}

func Load() Config {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GameDuration: getEnvInt("GAME_DURATION", defaultGameDuration),
		LogFile:      os.Getenv("LOG_FILE"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		RoomIdleTTL:  getEnvDuration("ROOM_IDLE_TTL", 10*time.Minute),
		EntityTTL:    getEnvDuration("ENTITY_TTL", 30*time.Second),
		MessageRate:  getEnvFloat("MESSAGE_RATE", 60),
		MessageBurst: getEnvInt("MESSAGE_BURST", 120),
	}
	if cfg.GameDuration <= 0 {
		cfg.GameDuration = defaultGameDuration
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
