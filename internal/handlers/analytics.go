package handlers

import (
	"strconv"

	"github.com/fundloop/fundloop/backend/internal/services"
	"github.com/fundloop/fundloop/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: services.NewAnalyticsService(db),
	}
}

// Overview returns platform-wide totals
// GET /api/analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	stats, err := h.analyticsService.Overview()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, stats)
}

// MonthlyTrend returns confirmed totals per month
// GET /api/analytics/monthly?months=12
func (h *AnalyticsHandler) MonthlyTrend(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	trend, err := h.analyticsService.MonthlyTrend(months)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, trend)
}

// TopProjects returns the highest-earning projects
// GET /api/analytics/top-projects?limit=10
func (h *AnalyticsHandler) TopProjects(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	totals, err := h.analyticsService.TopProjects(limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, totals)
}
