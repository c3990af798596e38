package handlers

import (
	"github.com/fundloop/fundloop/backend/internal/services"
	"github.com/fundloop/fundloop/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{
		auditService: services.NewAuditService(db),
	}
}

// List returns audit log entries with filters
// GET /api/admin/audit-logs
func (h *AuditHandler) List(c *gin.Context) {
	var req services.AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auditService.List(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, result)
}
