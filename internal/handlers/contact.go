package handlers

import (
	"strconv"

	"github.com/fundloop/fundloop/backend/internal/middleware"
	"github.com/fundloop/fundloop/backend/internal/services"
	"github.com/fundloop/fundloop/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ContactHandler serves both /me/emails and /me/wallets; the kind is bound
// when routes are registered.
type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{
		contactService: services.NewContactService(db),
	}
}

// List returns the caller's non-removed records, primary first
// GET /api/me/emails, GET /api/me/wallets
func (h *ContactHandler) List(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)

		records, err := h.contactService.List(userID, kind)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		response.Success(c, records)
	}
}

// Add inserts a new record; the first of a kind becomes primary
// POST /api/me/emails, POST /api/me/wallets
func (h *ContactHandler) Add(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.AddContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		userID := middleware.GetUserID(c)
		record, err := h.contactService.Add(userID, kind, &req, nil)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		response.Created(c, record)
	}
}

// SetPrimary promotes a record to primary
// PUT /api/me/emails/:id/primary, PUT /api/me/wallets/:id/primary
func (h *ContactHandler) SetPrimary(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := parseIDParam(c)
		if !ok {
			return
		}

		userID := middleware.GetUserID(c)
		if err := h.contactService.SetPrimary(userID, kind, recordID); err != nil {
			handleServiceError(c, err)
			return
		}

		response.Success(c, gin.H{"message": "primary updated"})
	}
}

// Remove soft-removes a record; the last one of a kind is protected
// DELETE /api/me/emails/:id, DELETE /api/me/wallets/:id
func (h *ContactHandler) Remove(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := parseIDParam(c)
		if !ok {
			return
		}

		userID := middleware.GetUserID(c)
		result, err := h.contactService.Remove(userID, kind, recordID)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		response.Success(c, result)
	}
}

// UpdateMetadata patches non-identity fields
// PUT /api/me/emails/:id, PUT /api/me/wallets/:id
func (h *ContactHandler) UpdateMetadata(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := parseIDParam(c)
		if !ok {
			return
		}

		var patch services.ContactMetadataPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		userID := middleware.GetUserID(c)
		record, err := h.contactService.UpdateMetadata(userID, kind, recordID, &patch)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		response.Success(c, record)
	}
}

// parseIDParam reads the :id route parameter. On failure it writes the 400
// response itself and returns ok=false.
func parseIDParam(c *gin.Context) (uint, bool) {
	return parseUintParam(c, "id")
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
