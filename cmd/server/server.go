package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/voxus/internal/config"
	"github.com/thereayou/voxus/internal/database"
	"github.com/thereayou/voxus/internal/handlers"
	"github.com/thereayou/voxus/internal/jobs"
	"github.com/thereayou/voxus/internal/logger"
	"github.com/thereayou/voxus/internal/services"
	"github.com/thereayou/voxus/internal/storage"
	"github.com/thereayou/voxus/internal/typing"
	"github.com/thereayou/voxus/internal/websocket"
	"github.com/thereayou/voxus/pkg/auth"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg        *config.Config
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *websocket.Hub
	Events     *handlers.EventHandler
	Service    *services.Service
}

func NewServer(cfg *config.Config) (*Server, error) {
	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.Database.URL); err != nil {
		return nil, err
	}
	// no connection survives a restart
	if err := dbConn.ResetConnections(context.Background()); err != nil {
		return nil, err
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	files, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	jwtMgr := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	hub := websocket.NewHub()
	svc := services.NewService(dbConn, files, cfg.Limits)
	events := handlers.NewEventHandler(svc, hub, typing.NewCache())

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	APIEndpoints(router, Handlers{
		Auth:      handlers.NewAuthHandler(services.NewAuthService(dbConn, jwtMgr, rdb)),
		User:      handlers.NewUserHandler(svc),
		Message:   handlers.NewHTTPMessageHandler(svc, files),
		WebSocket: handlers.NewWebSocketHandler(hub, events, cfg.Server.AllowedOrigins),
	}, jwtMgr, rdb)

	return &Server{
		cfg:        cfg,
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		Events:     events,
		Service:    svc,
	}, nil
}

// Run serves until SIGINT/SIGTERM, then drains HTTP, closes every socket and stops the job.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler, err := s.startJobs(ctx)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:    ":" + s.cfg.Server.Port,
		Handler: s.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", s.cfg.Server.Port, "env", s.cfg.Server.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = httpServer.Shutdown(shutdownCtx)
	s.Hub.Stop()
	if closeErr := s.Redis.Close(); closeErr != nil {
		logger.Warn("redis close failed", "err", closeErr)
	}
	return err
}

func (s *Server) startJobs(ctx context.Context) (*gocron.Scheduler, error) {
	job := jobs.NewPresenceJob(s.Service, s.Hub, s.Events)
	return job.Start(ctx, s.cfg.Presence.ReconcileInterval)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
