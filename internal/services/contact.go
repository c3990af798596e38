package services

import (
	"errors"
	"strings"
	"time"

	"github.com/fundloop/fundloop/backend/internal/models"
	"gorm.io/gorm"
)

// ContactService maintains the "exactly one primary, non-removed contact
// record per owner" invariant for user emails and wallet accounts. Both kinds
// share the same rule shape; operations are parametrized by kind.
//
// Every mutating operation runs in a single transaction, so a concurrent pair
// of Adds cannot both observe an empty set and both become primary. On
// Postgres a partial unique index backs the same invariant at the store level.
type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

// ContactRecord is the kind-neutral view of a user email or wallet account.
type ContactRecord struct {
	ID          uint      `json:"id"`
	OwnerID     uint      `json:"owner_id"`
	Kind        string    `json:"kind"`
	Value       string    `json:"value"`
	Verified    bool      `json:"verified,omitempty"`     // email only
	AddressType string    `json:"address_type,omitempty"` // wallet only
	DisplayName string    `json:"display_name,omitempty"` // wallet only
	IsPrimary   bool      `json:"is_primary"`
	CreatedAt   time.Time `json:"created_at"`
}

type AddContactRequest struct {
	Value       string `json:"value" binding:"required"`
	AddressType string `json:"address_type"` // wallet only
	DisplayName string `json:"display_name"` // wallet only
}

type ContactMetadataPatch struct {
	DisplayName *string `json:"display_name"` // wallet only
	Verified    *bool   `json:"verified"`     // email only
}

// RemoveResult reports whether the owner is left without a primary record and
// must follow up with SetPrimary.
type RemoveResult struct {
	PrimaryRequired bool `json:"primary_required"`
}

func emailToRecord(e *models.UserEmail) ContactRecord {
	return ContactRecord{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		Kind:      models.ContactKindEmail,
		Value:     e.Email,
		Verified:  e.Verified,
		IsPrimary: e.IsPrimary,
		CreatedAt: e.CreatedAt,
	}
}

func walletToRecord(w *models.WalletAccount) ContactRecord {
	return ContactRecord{
		ID:          w.ID,
		OwnerID:     w.OwnerID,
		Kind:        models.ContactKindWallet,
		Value:       w.Address,
		AddressType: w.AddressType,
		DisplayName: w.DisplayName,
		IsPrimary:   w.IsPrimary,
		CreatedAt:   w.CreatedAt,
	}
}

// activeScope filters to the owner's non-removed records of the given kind.
// Omitting the is_removed filter anywhere in this service is a correctness
// bug, not an optimization choice.
func (s *ContactService) activeScope(tx *gorm.DB, ownerID uint, kind string) *gorm.DB {
	switch kind {
	case models.ContactKindWallet:
		return tx.Model(&models.WalletAccount{}).Where("owner_id = ? AND is_removed = ?", ownerID, false)
	default:
		return tx.Model(&models.UserEmail{}).Where("owner_id = ? AND is_removed = ?", ownerID, false)
	}
}

// List returns the owner's non-removed records, primary first, then newest
// first.
func (s *ContactService) List(ownerID uint, kind string) ([]ContactRecord, error) {
	records := []ContactRecord{}

	switch kind {
	case models.ContactKindWallet:
		var wallets []models.WalletAccount
		err := s.activeScope(s.db, ownerID, kind).
			Order("is_primary DESC, created_at DESC").
			Find(&wallets).Error
		if err != nil {
			return nil, wrapStoreErr(err)
		}
		for i := range wallets {
			records = append(records, walletToRecord(&wallets[i]))
		}
	default:
		var emails []models.UserEmail
		err := s.activeScope(s.db, ownerID, kind).
			Order("is_primary DESC, created_at DESC").
			Find(&emails).Error
		if err != nil {
			return nil, wrapStoreErr(err)
		}
		for i := range emails {
			records = append(records, emailToRecord(&emails[i]))
		}
	}

	return records, nil
}

// Add inserts a new contact record. The first non-removed record of a kind
// becomes primary automatically. Duplicate values (case-insensitive among the
// owner's non-removed records) and malformed values are rejected before any
// write. The optional link callback runs inside the same transaction; if it
// fails, the insert is rolled back so no orphaned row is left behind.
func (s *ContactService) Add(ownerID uint, kind string, req *AddContactRequest, link func(tx *gorm.DB, rec *ContactRecord) error) (*ContactRecord, error) {
	value := strings.TrimSpace(req.Value)

	switch kind {
	case models.ContactKindWallet:
		if req.AddressType == "" {
			return nil, NewValidationError("wallet address type is required")
		}
		if !IsValidWalletAddress(value, req.AddressType) {
			return nil, NewValidationError("invalid %s wallet address", req.AddressType)
		}
	default:
		if !IsValidEmail(value) {
			return nil, NewValidationError("invalid email address")
		}
	}

	var record ContactRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := s.activeScope(tx, ownerID, kind).Count(&existing).Error; err != nil {
			return wrapStoreErr(err)
		}

		var duplicates int64
		valueColumn := "email"
		if kind == models.ContactKindWallet {
			valueColumn = "address"
		}
		if err := s.activeScope(tx, ownerID, kind).
			Where("LOWER("+valueColumn+") = LOWER(?)", value).
			Count(&duplicates).Error; err != nil {
			return wrapStoreErr(err)
		}
		if duplicates > 0 {
			return NewValidationError("%s already exists", kindLabel(kind))
		}

		isPrimary := existing == 0

		switch kind {
		case models.ContactKindWallet:
			wallet := models.WalletAccount{
				OwnerID:     ownerID,
				Address:     value,
				AddressType: req.AddressType,
				DisplayName: strings.TrimSpace(req.DisplayName),
				IsPrimary:   isPrimary,
			}
			if err := tx.Create(&wallet).Error; err != nil {
				return wrapStoreErr(err)
			}
			record = walletToRecord(&wallet)
		default:
			email := models.UserEmail{
				OwnerID:   ownerID,
				Email:     value,
				IsPrimary: isPrimary,
			}
			if err := tx.Create(&email).Error; err != nil {
				return wrapStoreErr(err)
			}
			record = emailToRecord(&email)
		}

		if link != nil {
			if err := link(tx, &record); err != nil {
				// Roll back the insert rather than leaving an unlinked row.
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// SetPrimary promotes the target record. The previous primary is demoted in
// the same transaction. Promoting the current primary is a no-op.
func (s *ContactService) SetPrimary(ownerID uint, kind string, recordID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		current, err := s.loadOwned(tx, ownerID, kind, recordID)
		if err != nil {
			return err
		}
		if current.IsPrimary {
			return nil
		}

		// Demote first so the partial unique index never sees two primaries.
		if err := s.activeScope(tx, ownerID, kind).
			Where("is_primary = ?", true).
			Update("is_primary", false).Error; err != nil {
			return wrapStoreErr(err)
		}

		if err := s.updateRecord(tx, kind, recordID, map[string]interface{}{"is_primary": true}); err != nil {
			return wrapStoreErr(err)
		}
		return nil
	})
}

// Remove soft-deletes a record. The owner's last non-removed record of a kind
// can never be removed. Removing the current primary is allowed but leaves no
// primary; the result flags that a SetPrimary call is required.
func (s *ContactService) Remove(ownerID uint, kind string, recordID uint) (*RemoveResult, error) {
	result := &RemoveResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		current, err := s.loadOwned(tx, ownerID, kind, recordID)
		if err != nil {
			return err
		}

		var active int64
		if err := s.activeScope(tx, ownerID, kind).Count(&active).Error; err != nil {
			return wrapStoreErr(err)
		}
		if active <= 1 {
			return NewInvariantViolationError("cannot remove the only %s", kindLabel(kind))
		}

		now := time.Now()
		if err := s.updateRecord(tx, kind, recordID, map[string]interface{}{
			"is_removed": true,
			"removed_at": now,
			"is_primary": false,
		}); err != nil {
			return wrapStoreErr(err)
		}

		result.PrimaryRequired = current.IsPrimary
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateMetadata mutates non-identity metadata: a wallet's display name or an
// email's verified flag. Identity fields (the value itself) never change.
func (s *ContactService) UpdateMetadata(ownerID uint, kind string, recordID uint, patch *ContactMetadataPatch) (*ContactRecord, error) {
	var record ContactRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadOwned(tx, ownerID, kind, recordID); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		switch kind {
		case models.ContactKindWallet:
			if patch.DisplayName != nil {
				updates["display_name"] = strings.TrimSpace(*patch.DisplayName)
			}
		default:
			if patch.Verified != nil {
				updates["verified"] = *patch.Verified
			}
		}

		if len(updates) > 0 {
			if err := s.updateRecord(tx, kind, recordID, updates); err != nil {
				return wrapStoreErr(err)
			}
		}

		rec, err := s.loadOwned(tx, ownerID, kind, recordID)
		if err != nil {
			return err
		}
		record = *rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// loadOwned fetches a record by id, verifying ownership and that it is not
// removed. Missing, foreign and removed records all surface as NotFound.
func (s *ContactService) loadOwned(tx *gorm.DB, ownerID uint, kind string, recordID uint) (*ContactRecord, error) {
	switch kind {
	case models.ContactKindWallet:
		var wallet models.WalletAccount
		err := tx.Where("id = ? AND owner_id = ? AND is_removed = ?", recordID, ownerID, false).
			First(&wallet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("wallet not found")
		}
		if err != nil {
			return nil, wrapStoreErr(err)
		}
		rec := walletToRecord(&wallet)
		return &rec, nil
	default:
		var email models.UserEmail
		err := tx.Where("id = ? AND owner_id = ? AND is_removed = ?", recordID, ownerID, false).
			First(&email).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("email not found")
		}
		if err != nil {
			return nil, wrapStoreErr(err)
		}
		rec := emailToRecord(&email)
		return &rec, nil
	}
}

func (s *ContactService) updateRecord(tx *gorm.DB, kind string, recordID uint, updates map[string]interface{}) error {
	switch kind {
	case models.ContactKindWallet:
		return tx.Model(&models.WalletAccount{}).Where("id = ?", recordID).Updates(updates).Error
	default:
		return tx.Model(&models.UserEmail{}).Where("id = ?", recordID).Updates(updates).Error
	}
}

func kindLabel(kind string) string {
	if kind == models.ContactKindWallet {
		return "wallet"
	}
	return "email address"
}
