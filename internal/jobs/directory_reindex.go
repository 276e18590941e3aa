// File: internal/jobs/directory_reindex.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/config"
	"skills_portfolio_backend/internal/directory"
	"skills_portfolio_backend/internal/platform/elasticsearch"
)

// DirectoryReindexJob periodically rebuilds the Elasticsearch directory
// index from the roster. When Elasticsearch is not configured the job is
// inert.
type DirectoryReindexJob struct {
	roster        directory.Repository
	esClient      *elasticsearch.ESClientWrapper
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewDirectoryReindexJob creates a new DirectoryReindexJob.
func NewDirectoryReindexJob(
	roster directory.Repository,
	esClient *elasticsearch.ESClientWrapper,
	logger *zap.Logger,
	cfg *config.Config,
) *DirectoryReindexJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &DirectoryReindexJob{
		roster:        roster,
		esClient:      esClient,
		logger:        logger.Named("DirectoryReindexJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *DirectoryReindexJob) SetupAndStart() error {
	if j.esClient == nil {
		j.logger.Info("Elasticsearch not configured. Directory reindex job will not run.")
		return nil
	}

	jobSpec := j.cfg.DirectoryReindexJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Directory reindex schedule not defined (DIRECTORY_REINDEX_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule directory reindex job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Directory reindex job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *DirectoryReindexJob) runJob() {
	j.logger.Info("Starting directory reindex run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	entries, err := j.roster.ListEntries(ctx)
	if err != nil {
		j.logger.Error("Directory reindex run failed loading roster", zap.Error(err))
		return
	}

	indexed, err := elasticsearch.SyncDirectory(ctx, j.esClient, entries, j.logger)
	if err != nil {
		j.logger.Error("Directory reindex run failed", zap.Error(err))
		return
	}
	j.logger.Info("Directory reindex run completed", zap.Int("entries_indexed", indexed))
}

// Stop gracefully stops the cron scheduler.
func (j *DirectoryReindexJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping directory reindex scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Directory reindex scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Directory reindex scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
