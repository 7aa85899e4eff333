package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/services"
	"github.com/edustack/portal/internal/middleware"
	"github.com/edustack/portal/internal/pkg/collegeid"
	"github.com/edustack/portal/internal/pkg/logger"
)

// RegistryController manages a college's pre-admitted student registry.
type RegistryController struct {
	registryService *services.RegistryService
}

// NewRegistryController creates a new RegistryController
func NewRegistryController(registryService *services.RegistryService) *RegistryController {
	return &RegistryController{registryService: registryService}
}

// Add inserts a single registry seat.
func (c *RegistryController) Add(ctx *gin.Context) {
	collegeID, err := collegeid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.AddRegistryEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	entry, err := c.registryService.Add(ctx.Request.Context(), middleware.CurrentUser(ctx), collegeID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.RegistryEntryResponse{
		ID:             entry.ID,
		RegisterNumber: entry.RegisterNumber,
		Email:          entry.Email,
		CollegeID:      entry.CollegeID,
		IsRegistered:   entry.IsRegistered,
	}))
}

// Import bulk-loads registry seats from an uploaded CSV or XLSX file.
func (c *RegistryController) Import(ctx *gin.Context) {
	collegeID, err := collegeid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Import file is required").
			WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(detail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.registryService.ImportFile(ctx.Request.Context(), middleware.CurrentUser(ctx),
		collegeID, file, fileHeader.Filename)
	if err != nil {
		logger.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("Registry import failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Info().Int64("collegeId", collegeID).Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).Msg("Registry import completed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// List returns all registry seats of a college.
func (c *RegistryController) List(ctx *gin.Context) {
	collegeID, err := collegeid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	entries, err := c.registryService.List(ctx.Request.Context(), middleware.CurrentUser(ctx), collegeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.RegistryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.RegistryEntryResponse{
			ID:             entry.ID,
			RegisterNumber: entry.RegisterNumber,
			Email:          entry.Email,
			CollegeID:      entry.CollegeID,
			IsRegistered:   entry.IsRegistered,
		})
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}
