package models

import (
	"time"
)

// Contact record kinds handled by the primary-record engine.
const (
	ContactKindEmail  = "email"
	ContactKindWallet = "wallet"
)

// Wallet address types with format validation.
const (
	WalletTypeEthereum = "ethereum"
	WalletTypeBitcoin  = "bitcoin"
	WalletTypeSolana   = "solana"
)

// SoftRemovable is implemented by records that are deactivated with an
// is_removed marker instead of being physically deleted. Queries over these
// tables must always filter on is_removed = false.
type SoftRemovable interface {
	IsActive() bool
	MarkRemoved(at time.Time)
}

// UserEmail is an email address attached to a user. Among a user's
// non-removed emails exactly one is primary. Rows are never deleted; removal
// sets IsRemoved so history and identity links stay intact.
type UserEmail struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	OwnerID   uint       `gorm:"index;not null" json:"owner_id"`
	Email     string     `gorm:"size:255;not null" json:"email"`
	Verified  bool       `gorm:"default:false" json:"verified"`
	IsPrimary bool       `gorm:"default:false" json:"is_primary"`
	IsRemoved bool       `gorm:"default:false;index" json:"is_removed"`
	RemovedAt *time.Time `json:"removed_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// WalletAccount is a crypto wallet attached to a user, same invariant shape
// as UserEmail.
type WalletAccount struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OwnerID     uint       `gorm:"index;not null" json:"owner_id"`
	Address     string     `gorm:"size:255;not null" json:"address"`
	AddressType string     `gorm:"size:50;not null" json:"address_type"` // ethereum, bitcoin, solana, other
	DisplayName string     `gorm:"size:100" json:"display_name"`
	IsPrimary   bool       `gorm:"default:false" json:"is_primary"`
	IsRemoved   bool       `gorm:"default:false;index" json:"is_removed"`
	RemovedAt   *time.Time `json:"removed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (UserEmail) TableName() string     { return "user_emails" }
func (WalletAccount) TableName() string { return "wallet_accounts" }

func (e *UserEmail) IsActive() bool { return !e.IsRemoved }

func (e *UserEmail) MarkRemoved(at time.Time) {
	e.IsRemoved = true
	e.RemovedAt = &at
}

func (w *WalletAccount) IsActive() bool { return !w.IsRemoved }

func (w *WalletAccount) MarkRemoved(at time.Time) {
	w.IsRemoved = true
	w.RemovedAt = &at
}
