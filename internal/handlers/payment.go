package handlers

import (
	"github.com/fundloop/fundloop/backend/internal/config"
	"github.com/fundloop/fundloop/backend/internal/middleware"
	"github.com/fundloop/fundloop/backend/internal/models"
	"github.com/fundloop/fundloop/backend/internal/services"
	"github.com/fundloop/fundloop/backend/pkg/logger"
	"github.com/fundloop/fundloop/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	projectService *services.ProjectService
	contactService *services.ContactService
	dueDateService *services.DueDateService
	reminderCfg    *config.ReminderConfig
}

func NewPaymentHandler(db *gorm.DB, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		paymentService: services.NewPaymentService(db),
		projectService: services.NewProjectService(db),
		contactService: services.NewContactService(db),
		dueDateService: services.NewDueDateService(),
		reminderCfg:    &cfg.Reminder,
	}
}

// List returns payments with pagination and filters
// GET /api/payments
func (h *PaymentHandler) List(c *gin.Context) {
	var req services.PaymentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.paymentService.List(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// Get returns one payment
// GET /api/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, payment)
}

// DefaultPeriod suggests the next billing period and its business-day due
// date for a project
// GET /api/projects/:id/payments/default-period
func (h *PaymentHandler) DefaultPeriod(c *gin.Context) {
	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	period, err := h.paymentService.DefaultPeriod(projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	project, err := h.projectService.GetByID(projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	due := h.dueDateService.DueDate(period.End, h.reminderCfg.GraceDays, project.Country)

	response.Success(c, gin.H{
		"period":   period,
		"due_date": due.Format("2006-01-02"),
	})
}

// Create records one draft payment for a project; owner or admin only
// POST /api/projects/:id/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if !h.canManage(c, projectID) {
		return
	}

	var req services.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.paymentService.Create(projectID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

type batchRequest struct {
	Rows []services.CreatePaymentRequest `json:"rows" binding:"required"`
}

// SubmitBatch records multiple payments in one transaction; all rows must be
// valid or nothing is persisted
// POST /api/projects/:id/payments/batch
func (h *PaymentHandler) SubmitBatch(c *gin.Context) {
	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if !h.canManage(c, projectID) {
		return
	}

	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	results, err := h.paymentService.SubmitBatch(projectID, req.Rows)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, results)
}

// MarkPaid moves a draft payment to awaiting_confirmation; owner or admin only
// POST /api/payments/:id/mark-paid
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if !h.canManagePayment(c, id) {
		return
	}

	payment, err := h.paymentService.MarkPaid(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, payment)
}

// Confirm finalizes an awaiting payment; admin only (enforced at the route)
// POST /api/payments/:id/confirm
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.Confirm(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.sendReceipt(payment)
	response.Success(c, payment)
}

// Fail marks a payment as failed; admin only (enforced at the route)
// POST /api/payments/:id/fail
func (h *PaymentHandler) Fail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.Fail(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, payment)
}

// sendReceipt enqueues a confirmation receipt to the project owner's primary
// email. Delivery is best effort; a failure never blocks the confirmation.
func (h *PaymentHandler) sendReceipt(payment *models.Payment) {
	queue := services.GetNotifyQueue()
	if queue == nil {
		return
	}

	project, err := h.projectService.GetByID(payment.ProjectID)
	if err != nil {
		return
	}
	emails, err := h.contactService.List(project.OwnerID, models.ContactKindEmail)
	if err != nil || len(emails) == 0 {
		return
	}

	task := &services.NotificationTask{
		Type:      services.TaskTypePaymentReceipt,
		UserID:    project.OwnerID,
		ProjectID: project.ID,
		PaymentID: payment.ID,
		Email:     emails[0].Value,
		Amount:    payment.PaymentAmount,
	}
	if err := queue.Enqueue(task); err != nil {
		logger.Error().Err(err).Uint("payment_id", payment.ID).Msg("receipt enqueue failed")
	}
}

func (h *PaymentHandler) canManage(c *gin.Context, projectID uint) bool {
	if middleware.GetRole(c) == "admin" {
		return true
	}

	owner, err := h.projectService.IsOwner(projectID, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return false
	}
	if !owner {
		response.Forbidden(c, "only the project owner can do this")
		return false
	}
	return true
}

func (h *PaymentHandler) canManagePayment(c *gin.Context, paymentID uint) bool {
	payment, err := h.paymentService.GetByID(paymentID)
	if err != nil {
		handleServiceError(c, err)
		return false
	}
	return h.canManage(c, payment.ProjectID)
}
