package services

import (
	"errors"
	"testing"

	"github.com/fundloop/fundloop/backend/internal/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"FundLoop", "fundloop"},
		{"My Great Project", "my-great-project"},
		{"  spaced  out  ", "spaced-out"},
		{"Ümlauts & Symbols!", "mlauts-symbols"},
	}

	for _, tt := range tests {
		if got := slugify(tt.name); got != tt.want {
			t.Errorf("slugify(%q) = %q, expected %q", tt.name, got, tt.want)
		}
	}
}

func TestValidatePaymentConfig(t *testing.T) {
	days := 14
	zero := 0

	tests := []struct {
		name        string
		percentage  float64
		periodicity string
		customDays  *int
		ok          bool
	}{
		{"monthly at minimum", 1.0, models.PeriodicityMonth, nil, true},
		{"weekly", 5.0, models.PeriodicityWeek, nil, true},
		{"empty periodicity defaults", 2.0, "", nil, true},
		{"custom with days", 2.0, models.PeriodicityCustom, &days, true},
		{"below minimum", 0.5, models.PeriodicityMonth, nil, false},
		{"custom without days", 2.0, models.PeriodicityCustom, nil, false},
		{"custom with zero days", 2.0, models.PeriodicityCustom, &zero, false},
		{"unknown periodicity", 2.0, "fortnight", nil, false},
	}

	for _, tt := range tests {
		err := validatePaymentConfig(tt.percentage, tt.periodicity, tt.customDays)
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestProjectCreate_RejectsDuplicateSlug(t *testing.T) {
	db := openTestDB(t)
	svc := NewProjectService(db)
	user := createTestUser(t, db, "alice")

	req := &CreateProjectRequest{Name: "My App", PaymentPercentage: 2.0}
	if _, err := svc.Create(req, user.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Different casing, same slug.
	_, err := svc.Create(&CreateProjectRequest{Name: "my app", PaymentPercentage: 2.0}, user.ID)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError for duplicate slug, got %v", err)
	}
}

func TestProjectCreate_Defaults(t *testing.T) {
	db := openTestDB(t)
	svc := NewProjectService(db)
	user := createTestUser(t, db, "alice")

	project, err := svc.Create(&CreateProjectRequest{Name: "Defaults", PaymentPercentage: 1.5}, user.ID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if project.PaymentPeriodicity != models.PeriodicityMonth {
		t.Errorf("PaymentPeriodicity = %q, expected month", project.PaymentPeriodicity)
	}
	if project.DefaultPaymentMethod != models.PaymentMethodBankTransfer {
		t.Errorf("DefaultPaymentMethod = %q, expected bank_transfer", project.DefaultPaymentMethod)
	}
	if project.Country != "US" {
		t.Errorf("Country = %q, expected US", project.Country)
	}
	if !project.IsActive {
		t.Error("new projects should be active")
	}
}

func TestProjectUpdate_RevalidatesConfig(t *testing.T) {
	db := openTestDB(t)
	svc := NewProjectService(db)
	user := createTestUser(t, db, "alice")

	project, _ := svc.Create(&CreateProjectRequest{Name: "App", PaymentPercentage: 2.0}, user.ID)

	low := 0.5
	_, err := svc.Update(project.ID, &UpdateProjectRequest{PaymentPercentage: &low})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError for percentage below minimum, got %v", err)
	}
}

func TestIsOwner(t *testing.T) {
	db := openTestDB(t)
	svc := NewProjectService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	project, _ := svc.Create(&CreateProjectRequest{Name: "App", PaymentPercentage: 2.0}, alice.ID)

	if owner, _ := svc.IsOwner(project.ID, alice.ID); !owner {
		t.Error("alice owns the project")
	}
	if owner, _ := svc.IsOwner(project.ID, bob.ID); owner {
		t.Error("bob does not own the project")
	}
}
