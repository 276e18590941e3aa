// File: cmd/server/providers.go
package main

import (
	"log"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"skills_portfolio_backend/internal/config"
	"skills_portfolio_backend/internal/filestorage"
	"skills_portfolio_backend/internal/identity"
	"skills_portfolio_backend/internal/platform/database"
	"skills_portfolio_backend/internal/session"
	"skills_portfolio_backend/internal/user"
)

// provideFileStorage creates the certification blob store from config.
func provideFileStorage(cfg *config.Config, logger *zap.Logger) (*filestorage.Service, error) {
	return filestorage.NewService(cfg.CertificationStoragePath, cfg.UploadTimeout, logger)
}

// provideSessionMachine builds the authorization state machine that tracks
// provider identity events for the lifetime of the server.
func provideSessionMachine(provider identity.Provider, users *user.Service, cfg *config.Config, logger *zap.Logger) *session.Machine {
	return session.NewMachine(provider, users, cfg.AuthReadyTimeout, logger)
}

// provideCleanup closes resources the injector opened.
func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
