package services

import (
	"errors"
	"strings"
	"time"

	"github.com/fundloop/fundloop/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvitationService gates signup and join flows on invitation codes.
type InvitationService struct {
	db *gorm.DB
}

func NewInvitationService(db *gorm.DB) *InvitationService {
	return &InvitationService{db: db}
}

// Validate checks a code in order: existence, expiry, usage cap. It returns
// the full record on success so callers can attribute the inviter.
func (s *InvitationService) Validate(code string) (*models.InvitationCode, error) {
	var invitation models.InvitationCode
	err := s.db.Where("code = ?", code).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("invitation code not found")
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	if invitation.ExpiresAt != nil && invitation.ExpiresAt.Before(time.Now()) {
		return nil, &ExpiredError{Message: "invitation code has expired"}
	}
	if invitation.MaxUses != nil && invitation.UsageCount >= *invitation.MaxUses {
		return nil, &ExhaustedError{Message: "invitation code has no uses left"}
	}

	return &invitation, nil
}

// Consume increments the usage count after a successful signup. The increment
// is a single guarded statement, so concurrent signups can never push the
// count past max_uses.
func (s *InvitationService) Consume(code string) error {
	query := s.db.Model(&models.InvitationCode{}).
		Where("code = ?", code).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Where("max_uses IS NULL OR usage_count < max_uses")

	result := query.Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish the failure for the caller.
		_, err := s.Validate(code)
		if err != nil {
			return err
		}
		return &ExhaustedError{Message: "invitation code has no uses left"}
	}
	return nil
}

// Generate returns the creator's existing code, or creates one. The UI keeps
// at most one active code per user.
func (s *InvitationService) Generate(ownerID uint) (*models.InvitationCode, error) {
	var existing models.InvitationCode
	err := s.db.Where("created_by = ?", ownerID).
		Order("created_at DESC").
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStoreErr(err)
	}

	invitation := models.InvitationCode{
		Code:      newCodeToken(),
		CreatedBy: ownerID,
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &invitation, nil
}

// GetByCreator returns a user's code without creating one.
func (s *InvitationService) GetByCreator(ownerID uint) (*models.InvitationCode, error) {
	var invitation models.InvitationCode
	err := s.db.Where("created_by = ?", ownerID).
		Order("created_at DESC").
		First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("no invitation code yet")
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &invitation, nil
}

// newCodeToken derives a short shareable token from a v4 UUID.
func newCodeToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
