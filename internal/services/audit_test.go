package services

import (
	"testing"
	"time"

	"github.com/fundloop/fundloop/backend/internal/models"
)

func TestAuditList_Filters(t *testing.T) {
	db := openTestDB(t)
	InitAuditLogger(db)
	defer InitAuditLogger(nil)
	svc := NewAuditService(db)

	userID := uint(7)
	AuditInfo("Projects", "Create", "created project", &userID, "127.0.0.1", "test", nil)
	AuditWarning("Payments", "Update", "suspicious amount", nil, "127.0.0.1", "test", nil)

	all, err := svc.List(&AuditListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if all.Total != 2 {
		t.Errorf("Total = %d, expected 2", all.Total)
	}

	warnings, _ := svc.List(&AuditListRequest{Level: "warning"})
	if warnings.Total != 1 || warnings.Items[0].Module != "Payments" {
		t.Errorf("unexpected warning entries: %+v", warnings.Items)
	}

	byUser, _ := svc.List(&AuditListRequest{UserID: &userID})
	if byUser.Total != 1 {
		t.Errorf("entries for user = %d, expected 1", byUser.Total)
	}
}

func TestAuditCleanup(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuditService(db)

	old := &models.AuditLog{
		Level:     "info",
		Module:    "Projects",
		Action:    "Create",
		Message:   "stale entry",
		CreatedAt: time.Now().AddDate(0, 0, -100),
	}
	fresh := &models.AuditLog{
		Level:     "info",
		Module:    "Projects",
		Action:    "Create",
		Message:   "recent entry",
		CreatedAt: time.Now(),
	}
	db.Create(old)
	db.Create(fresh)

	deleted, err := svc.Cleanup(90)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, expected 1", deleted)
	}

	var remaining int64
	db.Model(&models.AuditLog{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("remaining = %d, expected 1", remaining)
	}
}
