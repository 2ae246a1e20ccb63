package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/GiangQuan/warm-calendar/internal/handlers"
)

type Server struct {
	Server *http.Server
	log    zerolog.Logger
}

// Options carries the HTTP server timeouts.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func New(opts Options, auth *handlers.AuthHandler, events *handlers.EventHandler, views *handlers.ViewHandler, log zerolog.Logger) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(requestLogger(log))

	setupRoutes(r, auth, events, views)

	return &Server{
		Server: &http.Server{
			Addr:         opts.Addr,
			Handler:      r,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
		log: log,
	}
}

func setupRoutes(r *gin.Engine, auth *handlers.AuthHandler, events *handlers.EventHandler, views *handlers.ViewHandler) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Auth routes
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/logout", auth.Logout)

	// Everything below requires a session
	authed := api.Group("")
	authed.Use(auth.RequireAuth())

	authed.GET("/auth/me", auth.Me)
	authed.PUT("/auth/profile", auth.UpdateProfile)

	// Event routes
	authed.GET("/events", events.List)
	authed.POST("/events", events.Create)
	authed.PUT("/events/:id", events.Update)
	authed.DELETE("/events/:id", events.Delete)
	authed.POST("/events/:id/move", events.Move)
	authed.GET("/events/export.ics", events.ExportICS)

	// View projections
	authed.GET("/view/month", views.Month)
	authed.GET("/view/week", views.Week)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("address", s.Server.Addr).Msg("Starting server")
	return s.Server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info().Msg("Shutting down server")
	return s.Server.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestLogger logs all incoming requests
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
