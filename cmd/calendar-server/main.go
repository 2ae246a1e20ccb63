package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/GiangQuan/warm-calendar/internal/config"
	"github.com/GiangQuan/warm-calendar/internal/database"
	"github.com/GiangQuan/warm-calendar/internal/handlers"
	"github.com/GiangQuan/warm-calendar/internal/holiday"
	"github.com/GiangQuan/warm-calendar/internal/notify"
	"github.com/GiangQuan/warm-calendar/internal/repository"
	"github.com/GiangQuan/warm-calendar/internal/server"
	"github.com/GiangQuan/warm-calendar/internal/session"
)

func main() {
	// Initialize logger with console writer for better formatting in containers
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().
		Timestamp().
		Logger()

	// Load configuration
	cfg := config.Load()

	switch cfg.LogLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		gin.SetMode(gin.DebugMode)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	zerolog.DefaultContextLogger = &logger

	// Initialize database
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error parsing Redis URL")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("url", cfg.Redis.URL).Msg("Connected to Redis")

	// Holiday labels for the grids
	holidays, err := holiday.Load(cfg.HolidayFile)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.HolidayFile).Msg("Failed to load holiday file")
	}

	// Repositories and collaborators
	userRepo := repository.NewUserRepository(db.DB(), logger)
	eventRepo := repository.NewEventRepository(db.DB(), logger)
	sessions := session.NewStore(redisClient, cfg.JWT.Expiry)

	// Reminder scheduler publishing to Redis
	reminders := notify.NewScheduler(
		eventRepo,
		&notify.RedisPublisher{Client: redisClient},
		cfg.Redis.ReminderChannel,
		logger,
	)
	if err := reminders.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start reminder scheduler")
	}
	defer reminders.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, sessions, cfg.JWT.Secret, cfg.JWT.Expiry, logger)
	eventHandler := handlers.NewEventHandler(eventRepo, logger)
	viewHandler := handlers.NewViewHandler(eventRepo, holidays, logger)

	// Create and start server
	srv := server.New(server.Options{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, authHandler, eventHandler, viewHandler, logger)

	// Channel to listen for errors from server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for an error or interrupt signal
	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server error")
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	// Attempt graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server stopped")
}
