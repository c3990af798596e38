package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization groups users that manage projects together.
type Organization struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Website     string         `gorm:"size:500" json:"website"`
	LogoURL     string         `gorm:"size:500" json:"logo_url"`
	CreatedBy   uint           `gorm:"index;not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrganizationMember links a user to an organization with a role.
type OrganizationMember struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"index:idx_org_member,unique;not null" json:"organization_id"`
	UserID         uint           `gorm:"index:idx_org_member,unique;not null" json:"user_id"`
	Role           string         `gorm:"size:50;default:member" json:"role"` // owner, admin, member
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Organization) TableName() string       { return "organizations" }
func (OrganizationMember) TableName() string { return "organization_members" }
