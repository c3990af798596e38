package services

import (
	"regexp"
	"strings"

	"github.com/fundloop/fundloop/backend/internal/models"
)

var (
	// local part: no whitespace, no @; domain: no whitespace, at least one dot
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	ethAddressPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	btcLegacyPattern     = regexp.MustCompile(`^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$`)
	btcBech32Pattern     = regexp.MustCompile(`^bc1[a-z0-9]{25,59}$`)
	solanaAddressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

// IsValidEmail reports whether s has a plausible local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsValidWalletAddress validates an address against its declared type.
// Unknown types accept any non-empty trimmed string.
func IsValidWalletAddress(address, addressType string) bool {
	address = strings.TrimSpace(address)
	if address == "" {
		return false
	}

	switch addressType {
	case models.WalletTypeEthereum:
		return ethAddressPattern.MatchString(address)
	case models.WalletTypeBitcoin:
		return btcLegacyPattern.MatchString(address) || btcBech32Pattern.MatchString(address)
	case models.WalletTypeSolana:
		return solanaAddressPattern.MatchString(address)
	default:
		return true
	}
}
