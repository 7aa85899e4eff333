package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses. The three
// authorization denials each keep their own code so clients can tell a role
// problem from a pending account from a cross-college access.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", err)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", err)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", err)
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found", err)

	case errors.Is(err, apperrors.ErrRoleMismatch):
		respond(c, http.StatusForbidden, dto.ErrorCodeRoleMismatch, "Role not permitted for this action", err)
	case errors.Is(err, apperrors.ErrPendingVerification):
		respond(c, http.StatusForbidden, dto.ErrorCodePendingVerification, "Account or resource is pending verification", err)
	case errors.Is(err, apperrors.ErrCrossTenant):
		respond(c, http.StatusForbidden, dto.ErrorCodeCrossTenant, "Resource belongs to another college", err)

	case errors.Is(err, apperrors.ErrInvalidCollegeIDFormat):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidCollegeID, "Invalid college ID format", err)
	case errors.Is(err, apperrors.ErrRegistryMismatch):
		respond(c, http.StatusBadRequest, dto.ErrorCodeRegistryMismatch, "Register number or email not found in the college registry", err)
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		respond(c, http.StatusConflict, dto.ErrorCodeAlreadyRegistered, "This student is already registered", err)

	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrUsernameExists),
		errors.Is(err, apperrors.ErrCollegeAlreadyExists),
		errors.Is(err, apperrors.ErrDuplicateTitle),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err.Error(), err)

	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrCollegeNotFound),
		errors.Is(err, apperrors.ErrNoteNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrSemesterNotFound),
		errors.Is(err, apperrors.ErrSubjectNotFound),
		errors.Is(err, apperrors.ErrUnitNotFound),
		errors.Is(err, apperrors.ErrTopicNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err.Error(), err)

	case errors.Is(err, apperrors.ErrStorageFailure):
		respond(c, http.StatusInternalServerError, dto.ErrorCodeStorageFailure, "Storage backend failure", err)

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error(), err)

	default:
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorAPIResponse(detail))
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string, err error) {
	detail := dto.NewErrorDetail(code, message)

	// CustomError carries field-level context worth surfacing.
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Details != nil {
		detail = detail.WithDetails(custom.Details)
	}

	c.JSON(status, dto.NewErrorAPIResponse(detail))
}
