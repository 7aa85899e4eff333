package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/services"
	"github.com/edustack/portal/internal/middleware"
)

// DashboardController serves the role-specific landing summaries.
type DashboardController struct {
	dashboardService *services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService *services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Admin returns the admin's college summary.
func (c *DashboardController) Admin(ctx *gin.Context) {
	resp, err := c.dashboardService.Admin(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// SuperAdmin returns the portal-wide summary.
func (c *DashboardController) SuperAdmin(ctx *gin.Context) {
	resp, err := c.dashboardService.SuperAdmin(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Teacher returns the teacher's college summary including the review queue.
func (c *DashboardController) Teacher(ctx *gin.Context) {
	resp, err := c.dashboardService.Teacher(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
