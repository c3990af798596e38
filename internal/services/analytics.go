package services

import (
	"time"

	"github.com/fundloop/fundloop/backend/internal/models"
	"gorm.io/gorm"
)

// AnalyticsService aggregates payment data for the public and admin
// dashboards. Presentation rounds money to 2 decimals; the queries return
// full precision.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type OverviewStats struct {
	TotalProjects    int64   `json:"total_projects"`
	TotalUsers       int64   `json:"total_users"`
	ConfirmedTotal   float64 `json:"confirmed_total"`
	PendingTotal     float64 `json:"pending_total"`
	ConfirmedCount   int64   `json:"confirmed_count"`
	AwaitingCount    int64   `json:"awaiting_count"`
	AvgPledgePercent float64 `json:"avg_pledge_percent"`
}

type MonthlyTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type ProjectTotal struct {
	ProjectID   uint    `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Total       float64 `json:"total"`
	Count       int64   `json:"count"`
}

func (s *AnalyticsService) Overview() (*OverviewStats, error) {
	stats := &OverviewStats{}

	s.db.Model(&models.Project{}).Where("is_active = ?", true).Count(&stats.TotalProjects)
	s.db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.TotalUsers)

	s.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusConfirmed).
		Select("COALESCE(SUM(payment_amount), 0)").
		Row().Scan(&stats.ConfirmedTotal)

	s.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusAwaiting).
		Select("COALESCE(SUM(payment_amount), 0)").
		Row().Scan(&stats.PendingTotal)

	s.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusConfirmed).Count(&stats.ConfirmedCount)
	s.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusAwaiting).Count(&stats.AwaitingCount)

	s.db.Model(&models.Project{}).
		Where("is_active = ?", true).
		Select("COALESCE(AVG(payment_percentage), 0)").
		Row().Scan(&stats.AvgPledgePercent)

	return stats, nil
}

// MonthlyTrend returns confirmed payment totals bucketed by period_start
// month over the trailing window.
func (s *AnalyticsService) MonthlyTrend(months int) ([]MonthlyTotal, error) {
	if months <= 0 {
		months = 12
	}
	since := time.Now().AddDate(0, -months, 0)

	var rows []struct {
		PeriodStart   time.Time
		PaymentAmount float64
	}

	err := s.db.Model(&models.Payment{}).
		Select("period_start, payment_amount").
		Where("status = ?", models.PaymentStatusConfirmed).
		Where("period_start >= ?", since).
		Order("period_start ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	// Month bucketing happens here instead of SQL; the date-formatting
	// functions differ across the supported drivers.
	buckets := make(map[string]*MonthlyTotal)
	var order []string
	for _, r := range rows {
		month := r.PeriodStart.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &MonthlyTotal{Month: month}
			buckets[month] = b
			order = append(order, month)
		}
		b.Total += r.PaymentAmount
		b.Count++
	}

	result := make([]MonthlyTotal, 0, len(order))
	for _, month := range order {
		result = append(result, *buckets[month])
	}
	return result, nil
}

// TopProjects returns the projects with the highest confirmed totals.
func (s *AnalyticsService) TopProjects(limit int) ([]ProjectTotal, error) {
	if limit <= 0 {
		limit = 10
	}

	var totals []ProjectTotal
	err := s.db.Model(&models.Payment{}).
		Select(`
			project_id,
			COALESCE(SUM(payment_amount), 0) as total,
			COUNT(*) as count
		`).
		Where("status = ?", models.PaymentStatusConfirmed).
		Group("project_id").
		Order("total DESC").
		Limit(limit).
		Scan(&totals).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	for i := range totals {
		var project models.Project
		if err := s.db.First(&project, totals[i].ProjectID).Error; err == nil {
			totals[i].ProjectName = project.Name
		}
	}

	return totals, nil
}
