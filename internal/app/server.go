// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"skills_portfolio_backend/internal/auth"
	"skills_portfolio_backend/internal/config"
	"skills_portfolio_backend/internal/directory"
	"skills_portfolio_backend/internal/firebase"
	"skills_portfolio_backend/internal/jobs"
	"skills_portfolio_backend/internal/middleware"
	"skills_portfolio_backend/internal/notification"
	"skills_portfolio_backend/internal/platform/database"
	"skills_portfolio_backend/internal/platform/elasticsearch"
	"skills_portfolio_backend/internal/session"
	"skills_portfolio_backend/internal/skill"
	"skills_portfolio_backend/internal/user"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config

	AppLogger *zap.Logger
	ESClient  *elasticsearch.ESClientWrapper

	sessionMachine      *session.Machine
	directoryReindexJob *jobs.DirectoryReindexJob
	db                  *gorm.DB
}

// NewServer wires the router, middleware chain and module routes.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	firebaseService *firebase.Service,
	userService *user.Service,
	sessionMachine *session.Machine,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	skillHandler *skill.Handler,
	directoryHandler *directory.Handler,
	notificationHandler *notification.Handler,
	directoryReindexJob *jobs.DirectoryReindexJob,
	esClient *elasticsearch.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(firebaseService, userService, logger)

	// --- Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Skills Portfolio API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1, authMW)
	userHandler.RegisterRoutes(v1, authMW)
	skillHandler.RegisterRoutes(v1, authMW, middleware.ViewGuard(session.ViewSkills))
	directoryHandler.RegisterRoutes(v1, authMW, middleware.ViewGuard(session.ViewAdmin))
	notificationHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:          httpServer,
		router:              router,
		cfg:                 cfg,
		AppLogger:           logger,
		ESClient:            esClient,
		sessionMachine:      sessionMachine,
		directoryReindexJob: directoryReindexJob,
		db:                  db,
	}, nil
}

// Start runs schema migration, starts background jobs and serves HTTP.
func (s *Server) Start() error {
	if err := s.migrate(); err != nil {
		s.AppLogger.Error("Database migration failed", zap.Error(err))
		return err
	}

	if s.sessionMachine != nil {
		s.sessionMachine.Subscribe(func(state session.State) {
			s.AppLogger.Info("Session state changed", zap.String("status", string(state.Status)))
		})
		s.sessionMachine.Start()
	}

	if s.directoryReindexJob != nil {
		if err := s.directoryReindexJob.SetupAndStart(); err != nil {
			s.AppLogger.Error("Failed to setup and start directory reindex job", zap.Error(err))
		}
	}

	s.AppLogger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.AppLogger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.AppLogger.Info("HTTP Server stopped")
	return nil
}

// Shutdown stops jobs and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.AppLogger.Info("Attempting graceful server shutdown...")
	if s.sessionMachine != nil {
		s.sessionMachine.Stop()
	}
	if s.directoryReindexJob != nil {
		s.directoryReindexJob.Stop()
	}
	err := s.httpServer.Shutdown(ctx)
	database.CloseGORMDB(s.db)
	return err
}

func (s *Server) migrate() error {
	return s.db.AutoMigrate(
		&user.Profile{},
		&skill.Skill{},
		&skill.Certification{},
		&notification.Notification{},
	)
}
