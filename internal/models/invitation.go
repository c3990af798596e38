package models

import (
	"time"
)

// InvitationCode gates signup and join flows. A code is valid while it is
// neither expired nor exhausted. Codes are never deleted.
type InvitationCode struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Code       string     `gorm:"uniqueIndex;size:64;not null" json:"code"`
	CreatedBy  uint       `gorm:"index;not null" json:"created_by"`
	UsageCount int        `gorm:"not null;default:0" json:"usage_count"`
	MaxUses    *int       `json:"max_uses"`   // nil = unlimited
	ExpiresAt  *time.Time `json:"expires_at"` // nil = never expires
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (InvitationCode) TableName() string { return "invitation_codes" }
