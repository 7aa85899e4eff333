package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/repositories"
	"github.com/edustack/portal/internal/app/services"
	"github.com/edustack/portal/internal/middleware"
	"github.com/edustack/portal/internal/pkg/apperrors"
)

// ActivityController exposes the activity log: per-user and per-role
// listings plus downloadable CSV reports. Who may see whose activity
// follows the permission table: admins see teachers, Super Admins see
// admins, teachers see students. Everyone sees their own log.
type ActivityController struct {
	activityService *services.ActivityService
	userRepo        *repositories.UserRepository
	guard           *auth.Guard
}

// NewActivityController creates a new ActivityController
func NewActivityController(activityService *services.ActivityService, userRepo *repositories.UserRepository, guard *auth.Guard) *ActivityController {
	return &ActivityController{
		activityService: activityService,
		userRepo:        userRepo,
		guard:           guard,
	}
}

// MyActivity returns the actor's own log.
func (c *ActivityController) MyActivity(ctx *gin.Context) {
	actor := middleware.CurrentUser(ctx)
	if actor == nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorAPIResponse(detail))
		return
	}

	entries, err := c.activityService.ForUser(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toActivityResponses(entries)))
}

// UserActivity returns one user's log. Allowed for the user themselves or
// for a role permitted to view the target's role.
func (c *ActivityController) UserActivity(ctx *gin.Context) {
	targetID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.authorizeUserView(ctx, targetID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	entries, err := c.activityService.ForUser(ctx.Request.Context(), targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toActivityResponses(entries)))
}

// UserActivityReport streams one user's log as a CSV attachment.
func (c *ActivityController) UserActivityReport(ctx *gin.Context) {
	targetID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.authorizeUserView(ctx, targetID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	setCSVHeaders(ctx, fmt.Sprintf("activity-user-%d", targetID))
	if err := c.activityService.WriteUserReportCSV(ctx.Request.Context(), ctx.Writer, targetID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
}

// RoleActivity returns the log of every user holding a role, scoped to the
// actor's college (Super Admins see all colleges).
func (c *ActivityController) RoleActivity(ctx *gin.Context) {
	roleName, scope, err := c.authorizeRoleView(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	entries, err := c.activityService.ForRole(ctx.Request.Context(), roleName, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toActivityResponses(entries)))
}

// RoleActivityReport streams a role's log as a CSV attachment.
func (c *ActivityController) RoleActivityReport(ctx *gin.Context) {
	roleName, scope, err := c.authorizeRoleView(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	setCSVHeaders(ctx, "activity-"+ctx.Param("role"))
	if err := c.activityService.WriteRoleReportCSV(ctx.Request.Context(), ctx.Writer, roleName, scope); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
}

func (c *ActivityController) authorizeUserView(ctx *gin.Context, targetID int64) error {
	actor := middleware.CurrentUser(ctx)
	if actor != nil && actor.ID == targetID {
		return nil
	}

	target, err := c.userRepo.GetByID(ctx.Request.Context(), targetID)
	if err != nil {
		return err
	}

	action, err := activityActionFor(target.RoleName())
	if err != nil {
		return err
	}

	if target.CollegeID == nil {
		return c.guard.Authorize(actor, action)
	}
	return c.guard.AuthorizeCollege(actor, action, *target.CollegeID)
}

func (c *ActivityController) authorizeRoleView(ctx *gin.Context) (models.RoleName, *int64, error) {
	actor := middleware.CurrentUser(ctx)

	roleName, err := parseRoleParam(ctx.Param("role"))
	if err != nil {
		return "", nil, err
	}

	action, err := activityActionFor(roleName)
	if err != nil {
		return "", nil, err
	}

	if err := c.guard.Authorize(actor, action); err != nil {
		return "", nil, err
	}

	// Non-global actors only see their own college.
	var scope *int64
	if !actor.IsSuperAdmin() {
		scope = actor.CollegeID
	}
	return roleName, scope, nil
}

// activityActionFor maps the target's role to the permission that viewing
// its activity requires.
func activityActionFor(roleName models.RoleName) (auth.Action, error) {
	switch roleName {
	case models.RoleTeacher:
		return auth.ActionViewTeacherActivity, nil
	case models.RoleAdmin:
		return auth.ActionViewAdminActivity, nil
	case models.RoleStudent, models.RoleSeniorStudent:
		return auth.ActionViewStudentActivity, nil
	default:
		return "", apperrors.ErrRoleMismatch
	}
}

func parseRoleParam(param string) (models.RoleName, error) {
	switch strings.ToLower(param) {
	case "teacher":
		return models.RoleTeacher, nil
	case "admin":
		return models.RoleAdmin, nil
	case "student":
		return models.RoleStudent, nil
	case "senior-student":
		return models.RoleSeniorStudent, nil
	default:
		return "", apperrors.NewValidationError("role", "unknown role name")
	}
}

func setCSVHeaders(ctx *gin.Context, baseName string) {
	filename := fmt.Sprintf("%s-%s.csv", baseName, time.Now().Format("2006-01-02"))
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
}

func toActivityResponses(entries []*models.ActivityLog) []dto.ActivityLogResponse {
	out := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		resp := dto.ActivityLogResponse{
			ID:        entry.ID,
			UserID:    entry.UserID,
			Action:    entry.Action,
			Details:   entry.Details,
			Timestamp: entry.Timestamp,
		}
		if entry.User != nil {
			resp.Username = entry.User.Username
		}
		out = append(out, resp)
	}
	return out
}
