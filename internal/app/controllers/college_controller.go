package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/services"
	"github.com/edustack/portal/internal/middleware"
	"github.com/edustack/portal/internal/pkg/collegeid"
)

// CollegeController handles college tenant management.
type CollegeController struct {
	collegeService *services.CollegeService
}

// NewCollegeController creates a new CollegeController
func NewCollegeController(collegeService *services.CollegeService) *CollegeController {
	return &CollegeController{collegeService: collegeService}
}

// Create adds a new college tenant (Super Admin only).
func (c *CollegeController) Create(ctx *gin.Context) {
	var req dto.CreateCollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	college, err := c.collegeService.Create(ctx.Request.Context(), middleware.CurrentUser(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(c.collegeService.ToResponse(college)))
}

// Get resolves a college by its display code or numeric id. Public so the
// registration flow can validate a code before submitting.
func (c *CollegeController) Get(ctx *gin.Context) {
	id, err := collegeid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	college, err := c.collegeService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.collegeService.ToResponse(college)))
}

// List returns all colleges (Super Admin only).
func (c *CollegeController) List(ctx *gin.Context) {
	colleges, err := c.collegeService.List(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.CollegeResponse, 0, len(colleges))
	for _, college := range colleges {
		out = append(out, c.collegeService.ToResponse(college))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// Update renames a college (Super Admin only).
func (c *CollegeController) Update(ctx *gin.Context) {
	id, err := collegeid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateCollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	college, err := c.collegeService.Update(ctx.Request.Context(), middleware.CurrentUser(ctx), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.collegeService.ToResponse(college)))
}

// Delete removes a college and everything scoped to it (Super Admin only).
func (c *CollegeController) Delete(ctx *gin.Context) {
	id, err := collegeid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.collegeService.Delete(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "College deleted"}))
}
