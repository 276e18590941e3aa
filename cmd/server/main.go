// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"skills_portfolio_backend/internal/config"
	"skills_portfolio_backend/internal/directory"
	"skills_portfolio_backend/internal/platform/database"
	platformElasticsearch "skills_portfolio_backend/internal/platform/elasticsearch"
	"skills_portfolio_backend/internal/platform/logger"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "sync-directory" {
		runDirectorySync()
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if server.ESClient != nil {
		if err := platformElasticsearch.CreateDirectoryIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch directory index", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not initialized, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runDirectorySync performs a one-shot bulk sync of the directory roster
// into Elasticsearch.
func runDirectorySync() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
	}
	db, err := database.NewGORM(cfg)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to initialize database for sync", zap.Error(err))
	}
	defer database.CloseGORMDB(db)

	esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
	}
	if esClient == nil {
		appLogger.Fatal("FATAL: ELASTICSEARCH_URL must be set for sync-directory.")
	}

	if err := platformElasticsearch.CreateDirectoryIndexIfNotExists(esClient, appLogger); err != nil {
		appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
	}

	ctx := context.Background()
	entries, err := directory.NewGORMRepository(db).ListEntries(ctx)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to load directory roster for sync", zap.Error(err))
	}

	indexed, err := platformElasticsearch.SyncDirectory(ctx, esClient, entries, appLogger)
	if err != nil {
		appLogger.Fatal("FATAL: Directory synchronization failed", zap.Error(err))
	}
	appLogger.Info("Directory synchronization completed successfully.", zap.Int("entries_indexed", indexed))
}
