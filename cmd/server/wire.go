// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"skills_portfolio_backend/internal/app"
	"skills_portfolio_backend/internal/auth"
	"skills_portfolio_backend/internal/config"
	"skills_portfolio_backend/internal/directory"
	"skills_portfolio_backend/internal/firebase"
	"skills_portfolio_backend/internal/identity"
	"skills_portfolio_backend/internal/jobs"
	"skills_portfolio_backend/internal/notification"
	"skills_portfolio_backend/internal/platform/database"
	"skills_portfolio_backend/internal/platform/elasticsearch"
	"skills_portfolio_backend/internal/platform/logger"
	"skills_portfolio_backend/internal/skill"
	"skills_portfolio_backend/internal/user"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		elasticsearch.NewClient,
		provideFileStorage,
		provideCleanup,

		// Firebase / identity
		firebase.NewService,
		firebase.NewProvider,
		wire.Bind(new(identity.Provider), new(*firebase.Provider)),

		// Session machine
		provideSessionMachine,

		// Profiles
		user.NewGORMRepository,
		user.NewService,
		user.NewHandler,

		// Auth boundary
		auth.NewService,
		auth.NewHandler,

		// Notifications
		notification.NewGORMRepository,
		notification.NewService,
		notification.NewHandler,
		wire.Bind(new(skill.Notifier), new(*notification.Service)),
		wire.Bind(new(directory.Messenger), new(*notification.Service)),

		// Skills portfolio
		skill.NewGORMRepository,
		skill.NewService,
		skill.NewHandler,

		// Admin directory
		directory.NewGORMRepository,
		directory.NewService,
		directory.NewHandler,

		// Jobs
		jobs.NewDirectoryReindexJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
