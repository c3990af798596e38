package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/fundloop/fundloop/backend/internal/models"
	"gorm.io/gorm"
)

// PaymentService computes default billing periods and payment amounts for a
// project's revenue share, and drives the payment status state machine.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// Period is a calendar date range, inclusive on both ends. Times are
// truncated to midnight UTC.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DateOnly truncates t to a calendar date (midnight UTC).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// startOfISOWeek returns the Monday of t's ISO week.
func startOfISOWeek(t time.Time) time.Time {
	t = DateOnly(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// ComputeDefaultPeriod returns the next billing period for a project.
//
// With history, the new period starts the day after the latest period_end.
// Without history, the start is derived from "the period just prior to today"
// anchored to the periodicity. Months are approximated as 30 days throughout;
// this is intentionally not calendar-accurate to stay consistent with
// previously recorded periods.
func ComputeDefaultPeriod(project *models.Project, lastPeriodEnd *time.Time, today time.Time) Period {
	today = DateOnly(today)

	periodicity := project.PaymentPeriodicity
	customDays := 0
	if project.PaymentCustomDays != nil {
		customDays = *project.PaymentCustomDays
	}
	if periodicity == models.PeriodicityCustom && customDays <= 0 {
		periodicity = models.PeriodicityMonth
	}

	var start time.Time
	if lastPeriodEnd != nil {
		start = DateOnly(*lastPeriodEnd).AddDate(0, 0, 1)
	} else {
		switch periodicity {
		case models.PeriodicityWeek:
			start = startOfISOWeek(today.AddDate(0, 0, -7))
		case models.PeriodicityCustom:
			start = today.AddDate(0, 0, -2*customDays)
		default: // month, or unrecognized periodicity
			anchor := today.AddDate(0, 0, -30)
			start = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		}
	}

	var end time.Time
	switch periodicity {
	case models.PeriodicityWeek:
		end = start.AddDate(0, 0, 6)
	case models.PeriodicityCustom:
		end = start.AddDate(0, 0, customDays-1)
	default:
		end = start.AddDate(0, 0, 30)
	}

	return Period{Start: start, End: end}
}

// ComputePaymentAmount returns revenue × percentage / 100 at full precision.
// Rounding to currency precision happens at presentation time only.
func ComputePaymentAmount(revenue, percentage float64) float64 {
	return revenue * percentage / 100
}

// BelowMinimumPledge reports whether a percentage is under the 1% platform
// minimum. Such values are flagged with a warning, never rejected.
func BelowMinimumPledge(percentage float64) bool {
	return percentage < models.MinPledgePercentage
}

// DefaultPeriod computes the next period for a stored project from its
// payment history.
func (s *PaymentService) DefaultPeriod(projectID uint) (*Period, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("project not found")
		}
		return nil, wrapStoreErr(err)
	}

	lastEnd, err := s.lastPeriodEnd(projectID)
	if err != nil {
		return nil, err
	}

	period := ComputeDefaultPeriod(&project, lastEnd, time.Now())
	return &period, nil
}

func (s *PaymentService) lastPeriodEnd(projectID uint) (*time.Time, error) {
	var last models.Payment
	err := s.db.Where("project_id = ?", projectID).
		Order("period_end DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	end := last.PeriodEnd
	return &end, nil
}

type CreatePaymentRequest struct {
	PeriodStart   string   `json:"period_start" binding:"required"` // YYYY-MM-DD
	PeriodEnd     string   `json:"period_end" binding:"required"`
	Revenue       float64  `json:"revenue"`
	PaymentAmount *float64 `json:"payment_amount"` // manual override; computed when nil
	PaymentMethod string   `json:"payment_method"`
	Notes         string   `json:"notes"`
}

type PaymentResponse struct {
	Payment  *models.Payment `json:"payment"`
	Warnings []string        `json:"warnings,omitempty"`
}

// validateRow checks one payment row independently of the store.
func validateRow(req *CreatePaymentRequest) (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return start, end, NewValidationError("invalid period start date")
	}
	end, err = time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return start, end, NewValidationError("invalid period end date")
	}
	if end.Before(start) {
		return start, end, NewValidationError("period end must not be before period start")
	}
	if req.Revenue <= 0 {
		return start, end, NewValidationError("revenue must be greater than zero")
	}
	if req.PaymentAmount != nil && *req.PaymentAmount <= 0 {
		return start, end, NewValidationError("payment amount must be greater than zero")
	}
	return start, end, nil
}

// Create records a single draft payment for a project. The project's current
// percentage is snapshotted onto the payment.
func (s *PaymentService) Create(projectID uint, req *CreatePaymentRequest) (*PaymentResponse, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("project not found")
		}
		return nil, wrapStoreErr(err)
	}

	start, end, err := validateRow(req)
	if err != nil {
		return nil, err
	}

	payment := buildPayment(&project, req, start, end)
	if err := s.db.Create(payment).Error; err != nil {
		return nil, wrapStoreErr(err)
	}

	return &PaymentResponse{Payment: payment, Warnings: paymentWarnings(payment)}, nil
}

func buildPayment(project *models.Project, req *CreatePaymentRequest, start, end time.Time) *models.Payment {
	amount := ComputePaymentAmount(req.Revenue, project.PaymentPercentage)
	if req.PaymentAmount != nil {
		amount = *req.PaymentAmount
	}

	method := req.PaymentMethod
	if method == "" {
		method = project.DefaultPaymentMethod
	}

	return &models.Payment{
		ProjectID:         project.ID,
		PeriodStart:       DateOnly(start),
		PeriodEnd:         DateOnly(end),
		Revenue:           req.Revenue,
		PaymentAmount:     amount,
		PaymentPercentage: project.PaymentPercentage,
		PaymentMethod:     method,
		Status:            models.PaymentStatusDraft,
		Notes:             req.Notes,
	}
}

func paymentWarnings(p *models.Payment) []string {
	var warnings []string
	if p.Revenue > 0 {
		effective := p.PaymentAmount / p.Revenue * 100
		if BelowMinimumPledge(effective) {
			warnings = append(warnings, "effective payment percentage is below the 1% minimum pledge")
		}
	}
	return warnings
}

// BatchRowError pairs a row index with its validation failure.
type BatchRowError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BatchValidationError reports every invalid row in a batch. The batch is
// all-or-nothing: nothing is persisted while any row is invalid.
type BatchValidationError struct {
	Rows []BatchRowError
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("%d invalid payment rows", len(e.Rows))
}

// SubmitBatch validates every row independently, then persists the whole
// batch in one transaction.
func (s *PaymentService) SubmitBatch(projectID uint, rows []CreatePaymentRequest) ([]PaymentResponse, error) {
	if len(rows) == 0 {
		return nil, NewValidationError("batch must contain at least one payment row")
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("project not found")
		}
		return nil, wrapStoreErr(err)
	}

	type parsedRow struct {
		start, end time.Time
	}
	parsed := make([]parsedRow, len(rows))

	var rowErrors []BatchRowError
	for i := range rows {
		start, end, err := validateRow(&rows[i])
		if err != nil {
			rowErrors = append(rowErrors, BatchRowError{Index: i, Message: err.Error()})
			continue
		}
		parsed[i] = parsedRow{start: start, end: end}
	}
	if len(rowErrors) > 0 {
		return nil, &BatchValidationError{Rows: rowErrors}
	}

	responses := make([]PaymentResponse, 0, len(rows))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			payment := buildPayment(&project, &rows[i], parsed[i].start, parsed[i].end)
			if err := tx.Create(payment).Error; err != nil {
				return wrapStoreErr(err)
			}
			responses = append(responses, PaymentResponse{Payment: payment, Warnings: paymentWarnings(payment)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return responses, nil
}

// allowedTransitions maps each status to the statuses it may move to.
// Backward transitions are never allowed.
var allowedTransitions = map[string][]string{
	models.PaymentStatusDraft:    {models.PaymentStatusAwaiting, models.PaymentStatusFailed},
	models.PaymentStatusAwaiting: {models.PaymentStatusConfirmed, models.PaymentStatusFailed},
}

// CanTransition reports whether a payment may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *PaymentService) transition(paymentID uint, to string, stamp func(p *models.Payment, now time.Time)) (*models.Payment, error) {
	var payment models.Payment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("payment not found")
			}
			return wrapStoreErr(err)
		}

		if !CanTransition(payment.Status, to) {
			return NewValidationError("payment cannot move from %s to %s", payment.Status, to)
		}

		now := time.Now()
		payment.Status = to
		if stamp != nil {
			stamp(&payment, now)
		}
		if err := tx.Save(&payment).Error; err != nil {
			return wrapStoreErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// MarkPaid moves a draft payment to awaiting_confirmation and stamps paid_at.
func (s *PaymentService) MarkPaid(paymentID uint) (*models.Payment, error) {
	return s.transition(paymentID, models.PaymentStatusAwaiting, func(p *models.Payment, now time.Time) {
		p.PaidAt = &now
	})
}

// Confirm moves an awaiting payment to confirmed and stamps confirmed_at.
// Irreversible.
func (s *PaymentService) Confirm(paymentID uint) (*models.Payment, error) {
	return s.transition(paymentID, models.PaymentStatusConfirmed, func(p *models.Payment, now time.Time) {
		p.ConfirmedAt = &now
	})
}

// Fail marks a non-terminal payment as failed. Terminal.
func (s *PaymentService) Fail(paymentID uint) (*models.Payment, error) {
	return s.transition(paymentID, models.PaymentStatusFailed, nil)
}

// GetByID returns one payment.
func (s *PaymentService) GetByID(paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("payment not found")
		}
		return nil, wrapStoreErr(err)
	}
	return &payment, nil
}

type PaymentListRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	ProjectID *uint  `form:"project_id"`
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type PaymentListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Payment `json:"items"`
}

func (s *PaymentService) List(req *PaymentListRequest) (*PaymentListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Payment{})
	if req.ProjectID != nil {
		query = query.Where("project_id = ?", *req.ProjectID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.StartDate != "" {
		query = query.Where("period_start >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("period_end <= ?", req.EndDate)
	}

	var total int64
	query.Count(&total)

	var payments []models.Payment
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("period_start DESC").
		Find(&payments).Error; err != nil {
		return nil, wrapStoreErr(err)
	}

	return &PaymentListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    payments,
	}, nil
}
