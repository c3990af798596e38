package handlers

import (
	"github.com/fundloop/fundloop/backend/internal/middleware"
	"github.com/fundloop/fundloop/backend/internal/services"
	"github.com/fundloop/fundloop/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
	}
}

// List returns projects with pagination and filters
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.projectService.List(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// Get returns one project by ID
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, project)
}

// GetBySlug returns one project by its public slug
// GET /api/projects/slug/:slug
func (h *ProjectHandler) GetBySlug(c *gin.Context) {
	project, err := h.projectService.GetBySlug(c.Param("slug"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, project)
}

// Create registers a project owned by the caller
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.projectService.Create(&req, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, project)
}

// Update modifies a project; owner or admin only
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if !h.canManage(c, id) {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, project)
}

// Delete soft-deletes a project; owner or admin only
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if !h.canManage(c, id) {
		return
	}

	if err := h.projectService.Delete(id); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "project deleted"})
}

// canManage checks owner-or-admin access. On failure it writes the response
// itself and returns false.
func (h *ProjectHandler) canManage(c *gin.Context, projectID uint) bool {
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
