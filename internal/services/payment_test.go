package services

import (
	"errors"
	"testing"
	"time"

	"github.com/fundloop/fundloop/backend/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlyProject(t *testing.T) *models.Project {
	t.Helper()
	return &models.Project{
		PaymentPercentage:  1.5,
		PaymentPeriodicity: models.PeriodicityMonth,
	}
}

func TestComputePaymentAmount(t *testing.T) {
	tests := []struct {
		revenue    float64
		percentage float64
		want       float64
	}{
		{25000, 1.5, 375},
		{100, 1, 1},
		{0, 5, 0},
		{1000, 100, 1000},
	}

	for _, tt := range tests {
		if got := ComputePaymentAmount(tt.revenue, tt.percentage); got != tt.want {
			t.Errorf("ComputePaymentAmount(%v, %v) = %v, expected %v", tt.revenue, tt.percentage, got, tt.want)
		}
	}
}

func TestBelowMinimumPledge(t *testing.T) {
	if BelowMinimumPledge(1.0) {
		t.Error("1%% is the minimum, not below it")
	}
	if !BelowMinimumPledge(0.999) {
		t.Error("0.999%% is below the minimum")
	}
}

func TestComputeDefaultPeriod_ContinuesFromHistory(t *testing.T) {
	project := monthlyProject(t)
	lastEnd := date(2023, 3, 31)

	period := ComputeDefaultPeriod(project, &lastEnd, date(2023, 5, 20))

	if !period.Start.Equal(date(2023, 4, 1)) {
		t.Errorf("Start = %v, expected 2023-04-01", period.Start)
	}
	// Months are approximated as 30 days.
	if !period.End.Equal(date(2023, 5, 1)) {
		t.Errorf("End = %v, expected 2023-05-01", period.End)
	}
}

func TestComputeDefaultPeriod_WeekFromHistory(t *testing.T) {
	project := &models.Project{PaymentPeriodicity: models.PeriodicityWeek}
	lastEnd := date(2023, 3, 31)

	period := ComputeDefaultPeriod(project, &lastEnd, date(2023, 4, 20))

	if !period.Start.Equal(date(2023, 4, 1)) {
		t.Errorf("Start = %v, expected 2023-04-01", period.Start)
	}
	if !period.End.Equal(date(2023, 4, 7)) {
		t.Errorf("End = %v, expected 2023-04-07", period.End)
	}
}

func TestComputeDefaultPeriod_CustomFromHistory(t *testing.T) {
	days := 14
	project := &models.Project{
		PaymentPeriodicity: models.PeriodicityCustom,
		PaymentCustomDays:  &days,
	}
	lastEnd := date(2023, 3, 31)

	period := ComputeDefaultPeriod(project, &lastEnd, date(2023, 4, 20))

	if !period.Start.Equal(date(2023, 4, 1)) {
		t.Errorf("Start = %v, expected 2023-04-01", period.Start)
	}
	if !period.End.Equal(date(2023, 4, 14)) {
		t.Errorf("End = %v, expected 2023-04-14", period.End)
	}
}

func TestComputeDefaultPeriod_NoHistoryWeek(t *testing.T) {
	project := &models.Project{PaymentPeriodicity: models.PeriodicityWeek}

	// Wednesday 2023-04-12; the prior week's Monday is 2023-04-03.
	period := ComputeDefaultPeriod(project, nil, date(2023, 4, 12))

	if !period.Start.Equal(date(2023, 4, 3)) {
		t.Errorf("Start = %v, expected 2023-04-03", period.Start)
	}
	if !period.End.Equal(date(2023, 4, 9)) {
		t.Errorf("End = %v, expected 2023-04-09", period.End)
	}
}

func TestComputeDefaultPeriod_NoHistoryMonth(t *testing.T) {
	project := monthlyProject(t)

	// 30 days before 2023-04-15 is 2023-03-16, so the period anchors to the
	// first of March.
	period := ComputeDefaultPeriod(project, nil, date(2023, 4, 15))

	if !period.Start.Equal(date(2023, 3, 1)) {
		t.Errorf("Start = %v, expected 2023-03-01", period.Start)
	}
	if !period.End.Equal(date(2023, 3, 31)) {
		t.Errorf("End = %v, expected 2023-03-31", period.End)
	}
}

func TestComputeDefaultPeriod_NoHistoryCustom(t *testing.T) {
	days := 10
	project := &models.Project{
		PaymentPeriodicity: models.PeriodicityCustom,
		PaymentCustomDays:  &days,
	}

	period := ComputeDefaultPeriod(project, nil, date(2023, 4, 30))

	if !period.Start.Equal(date(2023, 4, 10)) {
		t.Errorf("Start = %v, expected 2023-04-10", period.Start)
	}
	if !period.End.Equal(date(2023, 4, 19)) {
		t.Errorf("End = %v, expected 2023-04-19", period.End)
	}
}

func TestComputeDefaultPeriod_CustomWithoutDaysFallsBack(t *testing.T) {
	project := &models.Project{PaymentPeriodicity: models.PeriodicityCustom}
	lastEnd := date(2023, 3, 31)

	period := ComputeDefaultPeriod(project, &lastEnd, date(2023, 4, 20))

	// Behaves as monthly when custom days are missing.
	if !period.End.Equal(date(2023, 5, 1)) {
		t.Errorf("End = %v, expected 2023-05-01", period.End)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.PaymentStatusDraft, models.PaymentStatusAwaiting, true},
		{models.PaymentStatusDraft, models.PaymentStatusFailed, true},
		{models.PaymentStatusAwaiting, models.PaymentStatusConfirmed, true},
		{models.PaymentStatusAwaiting, models.PaymentStatusFailed, true},
		{models.PaymentStatusDraft, models.PaymentStatusConfirmed, false},
		{models.PaymentStatusAwaiting, models.PaymentStatusDraft, false},
		{models.PaymentStatusConfirmed, models.PaymentStatusAwaiting, false},
		{models.PaymentStatusConfirmed, models.PaymentStatusFailed, false},
		{models.PaymentStatusFailed, models.PaymentStatusDraft, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, expected %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidateRow(t *testing.T) {
	negative := -5.0
	tests := []struct {
		name string
		req  CreatePaymentRequest
		ok   bool
	}{
		{"valid", CreatePaymentRequest{PeriodStart: "2023-04-01", PeriodEnd: "2023-04-30", Revenue: 100}, true},
		{"bad start", CreatePaymentRequest{PeriodStart: "04/01/2023", PeriodEnd: "2023-04-30", Revenue: 100}, false},
		{"bad end", CreatePaymentRequest{PeriodStart: "2023-04-01", PeriodEnd: "nope", Revenue: 100}, false},
		{"end before start", CreatePaymentRequest{PeriodStart: "2023-04-30", PeriodEnd: "2023-04-01", Revenue: 100}, false},
		{"zero revenue", CreatePaymentRequest{PeriodStart: "2023-04-01", PeriodEnd: "2023-04-30"}, false},
		{"negative override", CreatePaymentRequest{PeriodStart: "2023-04-01", PeriodEnd: "2023-04-30", Revenue: 100, PaymentAmount: &negative}, false},
	}

	for _, tt := range tests {
		_, _, err := validateRow(&tt.req)
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestCreate_SnapshotsPercentage(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, 1.5)

	result, err := svc.Create(project.ID, &CreatePaymentRequest{
		PeriodStart: "2023-04-01",
		PeriodEnd:   "2023-04-30",
		Revenue:     25000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p := result.Payment
	if p.PaymentAmount != 375 {
		t.Errorf("PaymentAmount = %v, expected 375", p.PaymentAmount)
	}
	if p.PaymentPercentage != 1.5 {
		t.Errorf("PaymentPercentage = %v, expected 1.5", p.PaymentPercentage)
	}
	if p.Status != models.PaymentStatusDraft {
		t.Errorf("Status = %q, expected draft", p.Status)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	// Later percentage changes must not rewrite recorded payments.
	db.Model(project).Update("payment_percentage", 5.0)
	stored, _ := svc.GetByID(p.ID)
	if stored.PaymentPercentage != 1.5 {
		t.Errorf("stored percentage = %v, expected snapshot 1.5", stored.PaymentPercentage)
	}
}

func TestCreate_ManualOverrideWarnsBelowMinimum(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, 1.5)

	override := 50.0 // 0.2% of revenue
	result, err := svc.Create(project.ID, &CreatePaymentRequest{
		PeriodStart:   "2023-04-01",
		PeriodEnd:     "2023-04-30",
		Revenue:       25000,
		PaymentAmount: &override,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Payment.PaymentAmount != 50 {
		t.Errorf("PaymentAmount = %v, expected override 50", result.Payment.PaymentAmount)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected a below-minimum warning, got %v", result.Warnings)
	}
}

func TestSubmitBatch_AllOrNothing(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, 1.5)

	rows := []CreatePaymentRequest{
		{PeriodStart: "2023-01-01", PeriodEnd: "2023-01-31", Revenue: 1000},
		{PeriodStart: "2023-02-01", PeriodEnd: "2023-02-28"}, // missing revenue
		{PeriodStart: "bogus", PeriodEnd: "2023-03-31", Revenue: 1000},
	}

	_, err := svc.SubmitBatch(project.ID, rows)
	var batchErr *BatchValidationError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected BatchValidationError, got %v", err)
	}
	if len(batchErr.Rows) != 2 {
		t.Errorf("invalid rows = %d, expected 2", len(batchErr.Rows))
	}
	if batchErr.Rows[0].Index != 1 || batchErr.Rows[1].Index != 2 {
		t.Errorf("unexpected row indexes: %+v", batchErr.Rows)
	}

	var count int64
	db.Model(&models.Payment{}).Count(&count)
	if count != 0 {
		t.Errorf("no payments should be persisted, found %d", count)
	}
}

func TestSubmitBatch_Valid(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, 2.0)

	rows := []CreatePaymentRequest{
		{PeriodStart: "2023-01-01", PeriodEnd: "2023-01-31", Revenue: 1000},
		{PeriodStart: "2023-02-01", PeriodEnd: "2023-02-28", Revenue: 2000},
	}

	results, err := svc.SubmitBatch(project.ID, rows)
	if err != nil {
		t.Fatalf("SubmitBatch() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, expected 2", len(results))
	}
	if results[1].Payment.PaymentAmount != 40 {
		t.Errorf("PaymentAmount = %v, expected 40", results[1].Payment.PaymentAmount)
	}
}

func TestTransitions_StampTimestamps(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, 1.5)

	result, err := svc.Create(project.ID, &CreatePaymentRequest{
		PeriodStart: "2023-04-01",
		PeriodEnd:   "2023-04-30",
		Revenue:     1000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id := result.Payment.ID

	paid, err := svc.MarkPaid(id)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if paid.Status != models.PaymentStatusAwaiting {
		t.Errorf("Status = %q, expected awaiting_confirmation", paid.Status)
	}
	if paid.PaidAt == nil {
		t.Error("PaidAt should be stamped")
	}

	confirmed, err := svc.Confirm(id)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if confirmed.ConfirmedAt == nil {
		t.Error("ConfirmedAt should be stamped")
	}
	if !confirmed.IsTerminal() {
		t.Error("confirmed payments are terminal")
	}
}

func TestTransitions_RejectInvalid(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, 1.5)

	result, _ := svc.Create(project.ID, &CreatePaymentRequest{
		PeriodStart: "2023-04-01",
		PeriodEnd:   "2023-04-30",
		Revenue:     1000,
	})
	id := result.Payment.ID

	// Draft payments cannot be confirmed directly.
	_, err := svc.Confirm(id)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}

	if _, err := svc.Fail(id); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}

	// Failed is terminal.
	if _, err := svc.MarkPaid(id); err == nil {
		t.Error("failed payments must not transition")
	}
}

func TestDefaultPeriod_UsesHistory(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, 1.5)

	if _, err := svc.Create(project.ID, &CreatePaymentRequest{
		PeriodStart: "2023-03-01",
		PeriodEnd:   "2023-03-31",
		Revenue:     1000,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	period, err := svc.DefaultPeriod(project.ID)
	if err != nil {
		t.Fatalf("DefaultPeriod() error = %v", err)
	}
	if !period.Start.Equal(date(2023, 4, 1)) {
		t.Errorf("Start = %v, expected 2023-04-01", period.Start)
	}
}

func TestDefaultPeriod_ProjectNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db)

	_, err := svc.DefaultPeriod(999)
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
