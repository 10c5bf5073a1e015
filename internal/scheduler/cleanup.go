package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/config"
	"github.com/tesseract-hub/directory-service/internal/repository"
)

// CleanupScheduler prunes old admin action logs and resolved abuse
// reports on a cron schedule
type CleanupScheduler struct {
	repo    repository.ModerationRepositoryInterface
	config  config.RetentionConfig
	logger  *logrus.Logger
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

// NewCleanupScheduler creates a new cleanup scheduler
func NewCleanupScheduler(repo repository.ModerationRepositoryInterface, cfg config.RetentionConfig, logger *logrus.Logger) *CleanupScheduler {
	return &CleanupScheduler{
		repo:   repo,
		config: cfg,
		logger: logger,
	}
}

// Start starts the cleanup scheduler
func (s *CleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if !s.config.CleanupEnabled {
		s.logger.Info("Retention cleanup is disabled")
		return nil
	}

	s.cron = cron.New(cron.WithSeconds())

	schedule := s.config.CleanupSchedule
	if schedule == "" {
		schedule = "0 0 3 * * *"
	}

	// Convert 5-field cron to 6-field (add seconds prefix)
	fields := strings.Fields(schedule)
	if len(fields) == 5 {
		schedule = "0 " + schedule
	}

	_, err := s.cron.AddFunc(schedule, s.runCleanup)
	if err != nil {
		s.logger.WithError(err).Error("Failed to schedule cleanup job")
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.WithFields(logrus.Fields{
		"schedule":        s.config.CleanupSchedule,
		"action_log_days": s.config.ActionLogDays,
		"report_days":     s.config.ReportDays,
	}).Info("Retention cleanup scheduler started")

	return nil
}

// Stop stops the cleanup scheduler and waits for a running job to finish
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.cron == nil {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("Retention cleanup scheduler stopped")
}

// RunNow triggers a cleanup pass outside the schedule
func (s *CleanupScheduler) RunNow() {
	s.runCleanup()
}

// runCleanup deletes expired action logs and resolved reports
func (s *CleanupScheduler) runCleanup() {
	ctx := context.Background()
	startTime := time.Now()

	s.logger.Info("Starting scheduled retention cleanup")

	logCutoff := time.Now().AddDate(0, 0, -s.config.ActionLogDays)
	logsDeleted, err := s.repo.DeleteActionLogsBefore(ctx, logCutoff, s.config.BatchSize)
	if err != nil {
		s.logger.WithError(err).Error("Failed to delete old action logs")
	}

	reportCutoff := time.Now().AddDate(0, 0, -s.config.ReportDays)
	reportsDeleted, err := s.repo.DeleteResolvedReportsBefore(ctx, reportCutoff)
	if err != nil {
		s.logger.WithError(err).Error("Failed to delete old resolved reports")
	}

	s.logger.WithFields(logrus.Fields{
		"action_logs_deleted": logsDeleted,
		"reports_deleted":     reportsDeleted,
		"duration":            time.Since(startTime).String(),
	}).Info("Retention cleanup completed")
}
