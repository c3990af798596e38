package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment statuses. A payment only moves forward:
// draft -> awaiting_confirmation -> confirmed, with failed reachable from any
// non-terminal state.
const (
	PaymentStatusDraft     = "draft"
	PaymentStatusAwaiting  = "awaiting_confirmation"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusFailed    = "failed"
)

// Payment is one revenue-share payment for a project's billing period.
// PaymentPercentage is a snapshot taken at creation time and is deliberately
// decoupled from the project's current setting.
type Payment struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ProjectID         uint           `gorm:"index;not null" json:"project_id"`
	Project           *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	PeriodStart       time.Time      `gorm:"not null;index" json:"period_start"`
	PeriodEnd         time.Time      `gorm:"not null;index" json:"period_end"`
	Revenue           float64        `gorm:"not null" json:"revenue"`
	PaymentAmount     float64        `gorm:"not null" json:"payment_amount"`
	PaymentPercentage float64        `gorm:"not null" json:"payment_percentage"`
	PaymentMethod     string         `gorm:"size:50" json:"payment_method"`
	Status            string         `gorm:"size:50;default:draft;index" json:"status"`
	PaidAt            *time.Time     `json:"paid_at"`
	ConfirmedAt       *time.Time     `json:"confirmed_at"`
	Notes             string         `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payment) TableName() string { return "payments" }

// IsTerminal reports whether the payment can no longer change status.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusConfirmed || p.Status == PaymentStatusFailed
}
