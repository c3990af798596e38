package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered FundLoop user.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password    string         `gorm:"size:255" json:"-"` // bcrypt hash
	DisplayName string         `gorm:"size:100" json:"display_name"`
	Avatar      string         `gorm:"size:500" json:"avatar"`
	Bio         string         `gorm:"size:1000" json:"bio"`
	Role        string         `gorm:"size:50;default:user" json:"role"` // admin, user
	InvitedBy   *uint          `json:"invited_by"`                       // user who created the invitation code used at signup
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLogin   *time.Time     `json:"last_login"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// RefreshToken stores a hashed long-lived token for session renewal.
type RefreshToken struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"index;not null" json:"user_id"`
	TokenHash         string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt         time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt         *time.Time `json:"revoked_at"`
	ReplacedByTokenID *uint      `json:"replaced_by_token_id"`
	CreatedByIP       string     `gorm:"size:50" json:"created_by_ip"`
	UserAgent         string     `gorm:"size:500" json:"user_agent"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (User) TableName() string         { return "users" }
func (RefreshToken) TableName() string { return "refresh_tokens" }
