package handlers

import (
	"github.com/fundloop/fundloop/backend/internal/middleware"
	"github.com/fundloop/fundloop/backend/internal/services"
	"github.com/fundloop/fundloop/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(db *gorm.DB) *InvitationHandler {
	return &InvitationHandler{
		invitationService: services.NewInvitationService(db),
	}
}

// Validate checks a code before the signup form is submitted. Public, rate
// limited.
// GET /api/invitations/:code/validate
func (h *InvitationHandler) Validate(c *gin.Context) {
	invitation, err := h.invitationService.Validate(c.Param("code"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// The creator's identity stays server-side.
	response.Success(c, gin.H{
		"valid": true,
		"code":  invitation.Code,
	})
}

// Generate returns the caller's shareable code, creating one on first use
// POST /api/me/invitation
func (h *InvitationHandler) Generate(c *gin.Context) {
	userID := middleware.GetUserID(c)

	invitation, err := h.invitationService.Generate(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, invitation)
}

// GetMine returns the caller's code without creating one
// GET /api/me/invitation
func (h *InvitationHandler) GetMine(c *gin.Context) {
	userID := middleware.GetUserID(c)

	invitation, err := h.invitationService.GetByCreator(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, invitation)
}
