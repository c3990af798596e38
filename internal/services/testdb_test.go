package services

import (
	"fmt"
	"testing"

	"github.com/fundloop/fundloop/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens an isolated in-memory sqlite database migrated with the
// full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.UserEmail{},
		&models.WalletAccount{},
		&models.Project{},
		&models.Payment{},
		&models.InvitationCode{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Password: "x",
		Role:     "user",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, ownerID uint, percentage float64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:                 "Test Project",
		Slug:                 fmt.Sprintf("test-project-%d", ownerID),
		Country:              "US",
		PaymentPercentage:    percentage,
		PaymentPeriodicity:   models.PeriodicityMonth,
		DefaultPaymentMethod: models.PaymentMethodBankTransfer,
		OwnerID:              ownerID,
		IsActive:             true,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create test project: %v", err)
	}
	return project
}
