package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment periodicity options for a project's revenue share.
const (
	PeriodicityWeek   = "week"
	PeriodicityMonth  = "month"
	PeriodicityCustom = "custom"
)

// Payment methods offered on the platform.
const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCrypto       = "crypto"
	PaymentMethodCard         = "card"
)

// MinPledgePercentage is the platform minimum revenue pledge. Values below it
// are accepted by the planner but flagged, not rejected.
const MinPledgePercentage = 1.0

// Project is a registered project pledging a share of its revenue.
type Project struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Name                 string         `gorm:"size:200;not null" json:"name"`
	Slug                 string         `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Description          string         `gorm:"type:text" json:"description"`
	Website              string         `gorm:"size:500" json:"website"`
	LogoURL              string         `gorm:"size:500" json:"logo_url"`
	Country              string         `gorm:"size:10;default:US" json:"country"` // ISO code, used for business-day due dates
	PaymentPercentage    float64        `gorm:"not null" json:"payment_percentage"`
	PaymentPeriodicity   string         `gorm:"size:20;default:month" json:"payment_periodicity"` // week, month, custom
	PaymentCustomDays    *int           `json:"payment_custom_days"`                              // required iff periodicity = custom
	DefaultPaymentMethod string         `gorm:"size:50;default:bank_transfer" json:"default_payment_method"`
	OwnerID              uint           `gorm:"index;not null" json:"owner_id"`
	OrganizationID       *uint          `gorm:"index" json:"organization_id"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
