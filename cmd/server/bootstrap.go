package main

import (
	"context"

	"github.com/fundloop/fundloop/backend/internal/config"
	"github.com/fundloop/fundloop/backend/internal/handlers"
	"github.com/fundloop/fundloop/backend/internal/models"
	"github.com/fundloop/fundloop/backend/internal/services"
	"github.com/fundloop/fundloop/backend/internal/utils"
	"github.com/fundloop/fundloop/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg             *config.Config
	notifyQueue     services.NotifyQueue
	reminderService *services.ReminderService
	auditCleanup    *cron.Cron

	authHandler *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Audit trail for write endpoints
	services.InitAuditLogger(models.GetDB())
	auditCleanup := services.StartAuditCleanupScheduler(models.GetDB(), cfg.Audit.RetentionDays)

	// Notification queue (uses Redis if enabled, otherwise in-process)
	notifyQueue := services.InitNotifyQueue(cfg)
	if syncQueue, ok := notifyQueue.(*services.SyncNotifyQueue); ok {
		syncQueue.SetProcessor(deliverNotification)
	}

	// Daily payment reminders
	reminderService := services.NewReminderService(models.GetDB(), &cfg.Reminder)
	if err := reminderService.Start(); err != nil {
		logger.Warn().Err(err).Msg("Failed to start reminder scheduler")
	}

	// Create default admin user
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		cfg:             cfg,
		notifyQueue:     notifyQueue,
		reminderService: reminderService,
		auditCleanup:    auditCleanup,
		authHandler:     authHandler,
	}
}

// deliverNotification handles queued notifications when running without a
// dedicated worker. Mail transport is not wired yet; tasks are logged so the
// pipeline stays observable.
// TODO: plug in an SMTP sender once the mail provider is chosen.
func deliverNotification(ctx context.Context, task *services.NotificationTask) error {
	logger.Info().
		Str("type", task.Type).
		Str("email", task.Email).
		Uint("project_id", task.ProjectID).
		Str("due_date", task.DueDate).
		Msg("notification delivered")
	return nil
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.reminderService != nil {
		s.reminderService.Stop()
	}
	if s.auditCleanup != nil {
		s.auditCleanup.Stop()
	}
	if s.notifyQueue != nil {
		s.notifyQueue.Close()
	}
	logger.Info().Msg("All schedulers stopped")
}
