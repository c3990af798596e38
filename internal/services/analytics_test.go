package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/fundloop/fundloop/backend/internal/models"
	"gorm.io/gorm"
)

func seedPayment(t *testing.T, db *gorm.DB, projectID uint, status string, amount float64, periodStart time.Time) {
	t.Helper()

	payment := &models.Payment{
		ProjectID:         projectID,
		PeriodStart:       periodStart,
		PeriodEnd:         periodStart.AddDate(0, 0, 29),
		Revenue:           amount * 100,
		PaymentAmount:     amount,
		PaymentPercentage: 1.0,
		PaymentMethod:     models.PaymentMethodBankTransfer,
		Status:            status,
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
}

func TestOverview(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnalyticsService(db)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, 2.0)

	now := time.Now()
	seedPayment(t, db, project.ID, models.PaymentStatusConfirmed, 100, now.AddDate(0, -1, 0))
	seedPayment(t, db, project.ID, models.PaymentStatusConfirmed, 50, now.AddDate(0, -2, 0))
	seedPayment(t, db, project.ID, models.PaymentStatusAwaiting, 30, now)
	seedPayment(t, db, project.ID, models.PaymentStatusDraft, 999, now)

	stats, err := svc.Overview()
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}

	if stats.TotalProjects != 1 {
		t.Errorf("TotalProjects = %d, expected 1", stats.TotalProjects)
	}
	if stats.ConfirmedTotal != 150 {
		t.Errorf("ConfirmedTotal = %v, expected 150", stats.ConfirmedTotal)
	}
	if stats.PendingTotal != 30 {
		t.Errorf("PendingTotal = %v, expected 30", stats.PendingTotal)
	}
	if stats.ConfirmedCount != 2 {
		t.Errorf("ConfirmedCount = %d, expected 2", stats.ConfirmedCount)
	}
	if stats.AwaitingCount != 1 {
		t.Errorf("AwaitingCount = %d, expected 1", stats.AwaitingCount)
	}
	if stats.AvgPledgePercent != 2.0 {
		t.Errorf("AvgPledgePercent = %v, expected 2.0", stats.AvgPledgePercent)
	}
}

func TestMonthlyTrend_BucketsByMonth(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnalyticsService(db)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, 2.0)

	lastMonth := time.Now().AddDate(0, -1, 0)
	first := time.Date(lastMonth.Year(), lastMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	seedPayment(t, db, project.ID, models.PaymentStatusConfirmed, 100, first)
	seedPayment(t, db, project.ID, models.PaymentStatusConfirmed, 25, first.AddDate(0, 0, 1))
	// Drafts never show up in the trend.
	seedPayment(t, db, project.ID, models.PaymentStatusDraft, 999, first)

	trend, err := svc.MonthlyTrend(6)
	if err != nil {
		t.Fatalf("MonthlyTrend() error = %v", err)
	}
	if len(trend) != 1 {
		t.Fatalf("buckets = %d, expected 1", len(trend))
	}
	if trend[0].Month != first.Format("2006-01") {
		t.Errorf("Month = %q, expected %q", trend[0].Month, first.Format("2006-01"))
	}
	if trend[0].Total != 125 {
		t.Errorf("Total = %v, expected 125", trend[0].Total)
	}
	if trend[0].Count != 2 {
		t.Errorf("Count = %d, expected 2", trend[0].Count)
	}
}

func TestTopProjects(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnalyticsService(db)
	user := createTestUser(t, db, "alice")

	var projects []*models.Project
	for i := 0; i < 3; i++ {
		p := &models.Project{
			Name:               fmt.Sprintf("Project %d", i),
			Slug:               fmt.Sprintf("project-%d", i),
			Country:            "US",
			PaymentPercentage:  1.0,
			PaymentPeriodicity: models.PeriodicityMonth,
			OwnerID:            user.ID,
			IsActive:           true,
		}
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("create project: %v", err)
		}
		projects = append(projects, p)
	}

	now := time.Now()
	seedPayment(t, db, projects[0].ID, models.PaymentStatusConfirmed, 10, now)
	seedPayment(t, db, projects[1].ID, models.PaymentStatusConfirmed, 300, now)
	seedPayment(t, db, projects[2].ID, models.PaymentStatusConfirmed, 50, now)

	totals, err := svc.TopProjects(2)
	if err != nil {
		t.Fatalf("TopProjects() error = %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("totals = %d, expected 2", len(totals))
	}
	if totals[0].ProjectID != projects[1].ID || totals[0].Total != 300 {
		t.Errorf("unexpected leader: %+v", totals[0])
	}
	if totals[0].ProjectName != "Project 1" {
		t.Errorf("ProjectName = %q, expected Project 1", totals[0].ProjectName)
	}
}
