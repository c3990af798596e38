package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/fundloop/fundloop/backend/internal/config"
	"github.com/fundloop/fundloop/backend/internal/models"
	"github.com/fundloop/fundloop/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderService finds projects whose latest billing period has lapsed and
// enqueues a payment reminder to the owner's primary email.
type ReminderService struct {
	db       *gorm.DB
	contacts *ContactService
	payments *PaymentService
	dueDates *DueDateService
	cfg      *config.ReminderConfig

	scheduler *cron.Cron
}

func NewReminderService(db *gorm.DB, cfg *config.ReminderConfig) *ReminderService {
	return &ReminderService{
		db:       db,
		contacts: NewContactService(db),
		payments: NewPaymentService(db),
		dueDates: NewDueDateService(),
		cfg:      cfg,
	}
}

// Start schedules the daily reminder run at the configured time.
func (s *ReminderService) Start() error {
	if !s.cfg.Enabled {
		logger.Info().Msg("payment reminder scheduler disabled")
		return nil
	}

	parts := strings.SplitN(s.cfg.Time, ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid reminder time %q, expected HH:MM", s.cfg.Time)
	}
	cronExpr := fmt.Sprintf("%s %s * * *", parts[1], parts[0])

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(cronExpr, func() {
		if err := s.Run(time.Now()); err != nil {
			logger.Error().Err(err).Msg("payment reminder run failed")
		}
	}); err != nil {
		return err
	}
	s.scheduler.Start()
	logger.Info().Str("time", s.cfg.Time).Msg("payment reminder scheduler started")
	return nil
}

// Stop halts the scheduler.
func (s *ReminderService) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Run enqueues reminders for every active project whose next period has
// already ended and has no payment recorded for it.
func (s *ReminderService) Run(now time.Time) error {
	var projects []models.Project
	if err := s.db.Where("is_active = ?", true).Find(&projects).Error; err != nil {
		return wrapStoreErr(err)
	}

	queue := GetNotifyQueue()
	reminded := 0

	for i := range projects {
		project := &projects[i]

		lastEnd, err := s.payments.lastPeriodEnd(project.ID)
		if err != nil {
			logger.Error().Err(err).Uint("project_id", project.ID).Msg("reminder: payment history lookup failed")
			continue
		}

		period := ComputeDefaultPeriod(project, lastEnd, now)
		if !period.End.Before(DateOnly(now)) {
			// The default period is still running; nothing owed yet.
			continue
		}

		emails, err := s.contacts.List(project.OwnerID, models.ContactKindEmail)
		if err != nil || len(emails) == 0 {
			continue
		}

		due := s.dueDates.DueDate(period.End, s.cfg.GraceDays, project.Country)
		task := &NotificationTask{
			Type:      TaskTypePaymentReminder,
			UserID:    project.OwnerID,
			ProjectID: project.ID,
			Email:     emails[0].Value, // primary-first ordering
			DueDate:   due.Format("2006-01-02"),
		}
		if queue != nil {
			if err := queue.Enqueue(task); err != nil {
				logger.Error().Err(err).Uint("project_id", project.ID).Msg("reminder enqueue failed")
				continue
			}
		}
		reminded++
	}

	logger.Info().Int("projects", len(projects)).Int("reminded", reminded).Msg("payment reminder run complete")
	return nil
}
