package services

import (
	"testing"

	"github.com/fundloop/fundloop/backend/internal/models"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"test@example.com", true},
		{"user.name+tag@sub.domain.org", true},
		{"invalid", false},
		{"test@", false},
		{"@example.com", false},
		{"no space@example.com", false},
		{"test@example", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, expected %v", tt.email, got, tt.want)
		}
	}
}

func TestIsValidWalletAddress_Ethereum(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},
		{"0xAbCdEf1234567890aBcDeF1234567890AbCdEf12", true},
		{"0x123", false},
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"0xgggggggggggggggggggggggggggggggggggggggg", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidWalletAddress(tt.address, models.WalletTypeEthereum); got != tt.want {
			t.Errorf("IsValidWalletAddress(%q, ethereum) = %v, expected %v", tt.address, got, tt.want)
		}
	}
}

func TestIsValidWalletAddress_Bitcoin(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", true},
		{"3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", true},
		{"bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", true},
		{"0x1111111111111111111111111111111111111111", false},
		{"1short", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidWalletAddress(tt.address, models.WalletTypeBitcoin); got != tt.want {
			t.Errorf("IsValidWalletAddress(%q, bitcoin) = %v, expected %v", tt.address, got, tt.want)
		}
	}
}

func TestIsValidWalletAddress_Solana(t *testing.T) {
	if !IsValidWalletAddress("4Nd1mY5jjENTfxrYrqBh3TWQ5pF7a4V9s2XpJ3kTqMch", models.WalletTypeSolana) {
		t.Error("valid solana address rejected")
	}
	if IsValidWalletAddress("0OIl", models.WalletTypeSolana) {
		t.Error("base58 forbids 0, O, I and l")
	}
}

func TestIsValidWalletAddress_UnknownType(t *testing.T) {
	// Unknown chains only require a non-empty value.
	if !IsValidWalletAddress("anything-goes", "dogecoin") {
		t.Error("unknown address type should accept non-empty values")
	}
	if IsValidWalletAddress("   ", "dogecoin") {
		t.Error("unknown address type should reject blank values")
	}
}
