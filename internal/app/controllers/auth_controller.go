// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/services"
	"github.com/edustack/portal/internal/middleware"
	"github.com/edustack/portal/internal/pkg/logger"
)

// AuthController handles registration, login and the token lifecycle.
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// RegisterStudent creates a student account against the college registry.
func (c *AuthController) RegisterStudent(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := c.authService.RegisterStudent(ctx.Request.Context(), req)
	if err != nil {
		logger.Warn().Err(err).Str("email", req.Email).Msg("Student registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Info().Str("email", user.Email).Int64("userID", user.ID).Msg("Student registered")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(services.ToUserResponse(user)))
}

// RegisterTeacher creates a teacher account pending Admin approval.
func (c *AuthController) RegisterTeacher(ctx *gin.Context) {
	c.registerStaff(ctx, c.authService.RegisterTeacher)
}

// RegisterAdmin creates an admin account pending Super Admin approval.
func (c *AuthController) RegisterAdmin(ctx *gin.Context) {
	c.registerStaff(ctx, c.authService.RegisterAdmin)
}

func (c *AuthController) registerStaff(
	ctx *gin.Context,
	register func(context.Context, dto.RegisterStaffRequest) (*models.User, error),
) {
	var req dto.RegisterStaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := register(ctx.Request.Context(), req)
	if err != nil {
		logger.Warn().Err(err).Str("email", req.Email).Msg("Staff registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(services.ToUserResponse(user)))
}

// RegisterSuperAdmin creates a college-less, pre-verified account.
func (c *AuthController) RegisterSuperAdmin(ctx *gin.Context) {
	var req dto.RegisterSuperAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := c.authService.RegisterSuperAdmin(ctx.Request.Context(), req)
	if err != nil {
		logger.Warn().Err(err).Str("email", req.Email).Msg("Super admin registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Info().Str("email", user.Email).Msg("Super admin registered")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(services.ToUserResponse(user)))
}

// Login authenticates a user and returns a token pair with the profile.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	user, tokens, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Info().Str("email", user.Email).Msg("User logged in")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AuthResponse{
		Token: *tokens,
		User:  services.ToUserResponse(user),
	}))
}

// Refresh exchanges a refresh token for a new token pair.
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	tokens, err := c.authService.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tokens))
}

// Logout revokes the refresh token.
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Logged out"}))
}

// Me returns the authenticated user's profile.
func (c *AuthController) Me(ctx *gin.Context) {
	actor := middleware.CurrentUser(ctx)
	if actor == nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorAPIResponse(detail))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(services.ToUserResponse(actor)))
}
