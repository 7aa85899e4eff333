package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/services"
	"github.com/edustack/portal/internal/middleware"
	"github.com/edustack/portal/internal/pkg/logger"
)

// VerificationController handles the user and note review workflows.
type VerificationController struct {
	verificationService *services.VerificationService
}

// NewVerificationController creates a new VerificationController
func NewVerificationController(verificationService *services.VerificationService) *VerificationController {
	return &VerificationController{verificationService: verificationService}
}

// PendingUsers lists the accounts awaiting the actor's decision: teachers
// of the admin's college, or admins portal-wide for Super Admins.
func (c *VerificationController) PendingUsers(ctx *gin.Context) {
	users, err := c.verificationService.PendingUsers(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(services.ToUserResponses(users)))
}

// ApproveUser verifies a pending teacher or admin account.
func (c *VerificationController) ApproveUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.verificationService.ApproveUser(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Info().Int64("userId", id).Msg("User account approved")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RejectUser rejects a pending account. The account is deleted, not
// flagged; the response says so.
func (c *VerificationController) RejectUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.verificationService.RejectUser(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Info().Int64("userId", id).Msg("User account rejected and removed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RemoveUser deletes a verified staff account: admins remove teachers of
// their college, Super Admins remove admins.
func (c *VerificationController) RemoveUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.verificationService.RemoveUser(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Info().Int64("userId", id).Msg("User account removed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ApproveNote marks a note as verified. Re-approval is idempotent.
func (c *VerificationController) ApproveNote(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.verificationService.ApproveNote(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RejectNote rejects a note with reviewer comments. The note is retained
// so the uploader can read the feedback.
func (c *VerificationController) RejectNote(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.RejectNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.verificationService.RejectNote(ctx.Request.Context(), middleware.CurrentUser(ctx), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
