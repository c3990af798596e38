package models

import (
	"fmt"

	"github.com/fundloop/fundloop/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	if err := DB.AutoMigrate(
		&User{},
		&RefreshToken{},
		&UserEmail{},
		&WalletAccount{},
		&Project{},
		&Payment{},
		&InvitationCode{},
		&Organization{},
		&OrganizationMember{},
		&AuditLog{},
	); err != nil {
		return err
	}

	return createPartialIndexes()
}

// createPartialIndexes adds partial unique indexes guaranteeing at most one
// primary non-removed contact record per owner. Postgres only; other drivers
// rely on the transactional guard in the contact service.
func createPartialIndexes() error {
	if DB.Dialector.Name() != "postgres" {
		return nil
	}

	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_emails_one_primary
			ON user_emails (owner_id) WHERE is_primary AND NOT is_removed`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_wallet_accounts_one_primary
			ON wallet_accounts (owner_id) WHERE is_primary AND NOT is_removed`,
	}
	for _, stmt := range stmts {
		if err := DB.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
