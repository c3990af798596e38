package handlers

import (
	"github.com/fundloop/fundloop/backend/internal/middleware"
	"github.com/fundloop/fundloop/backend/internal/services"
	"github.com/fundloop/fundloop/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(db *gorm.DB) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: services.NewOrganizationService(db),
	}
}

// List returns organizations with pagination
// GET /api/organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	var req services.OrganizationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.orgService.List(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// Get returns one organization
// GET /api/organizations/:id
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	org, err := h.orgService.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, org)
}

// Create registers an organization with the caller as owner
// POST /api/organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req services.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	org, err := h.orgService.Create(&req, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, org)
}

// Members lists an organization's members
// GET /api/organizations/:id/members
func (h *OrganizationHandler) Members(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	members, err := h.orgService.Members(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, members)
}

type addMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// AddMember joins a user to an organization
// POST /api/organizations/:id/members
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.orgService.AddMember(id, req.UserID, req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, member)
}

// RemoveMember removes a member; the last owner is protected
// DELETE /api/organizations/:id/members/:userID
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	userID, ok := parseUintParam(c, "userID")
	if !ok {
		return
	}

	if err := h.orgService.RemoveMember(id, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed"})
}
