package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Host         string
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		IdleTimeout  time.Duration
	}
	Database struct {
		Path string
	}
	Redis struct {
		URL             string
		ReminderChannel string
	}
	JWT struct {
		Secret string
		Expiry time.Duration
	}
	HolidayFile string
	LogLevel    string
}

func Load() *Config {
	// Best effort: a missing .env file is fine, env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server configuration
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", "10s")
	cfg.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", "10s")
	cfg.Server.IdleTimeout = getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s")

	// Database configuration
	cfg.Database.Path = getEnv("DB_PATH", "./data/warm_calendar.db")

	// Redis configuration
	cfg.Redis.URL = getEnv("REDIS_URL", "redis://localhost:6379")
	cfg.Redis.ReminderChannel = getEnv("REMINDER_CHANNEL", "calendar-reminders")

	// Auth configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", "dev-secret-change-me")
	cfg.JWT.Expiry = getEnvAsDuration("JWT_EXPIRY", "24h")

	// Holiday labels for the calendar grids
	cfg.HolidayFile = getEnv("HOLIDAY_FILE", "./configs/holidays.yaml")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	val := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(val)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsInt(key string, defaultValue int) int {
	val := getEnv(key, strconv.Itoa(defaultValue))
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return intVal
}
