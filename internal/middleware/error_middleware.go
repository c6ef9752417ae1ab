package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to the standard error envelope.
// Controllers call this for any error coming back from the service layer.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")

	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")

	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrAccountPending):
		respondError(c, http.StatusForbidden, dto.ErrorCodeAccountPending, "Account is pending approval")

	case errors.Is(err, apperrors.ErrAccountRejected):
		respondError(c, http.StatusForbidden, dto.ErrorCodeAccountRestricted, "Account registration was rejected")

	case errors.Is(err, apperrors.ErrAccountDeactivated):
		respondError(c, http.StatusForbidden, dto.ErrorCodeAccountRestricted, "Account is deactivated")

	case errors.Is(err, apperrors.ErrAccountOnHold):
		respondError(c, http.StatusForbidden, dto.ErrorCodeAccountRestricted, "Account is on hold")

	case errors.Is(err, apperrors.ErrEnrollmentRequired):
		respondError(c, http.StatusForbidden, dto.ErrorCodeEnrollmentRequired, "Identity enrollment required")

	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrRequestNotFound),
		errors.Is(err, apperrors.ErrAdminNotFound),
		errors.Is(err, apperrors.ErrResetTokenNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already in use")

	case errors.Is(err, apperrors.ErrStudentNoExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Student number already registered")

	case errors.Is(err, apperrors.ErrUnknownAction):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeUnknownAction, "Unknown action")

	case errors.Is(err, apperrors.ErrUnsupportedDocument):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Unsupported document type")

	case errors.Is(err, apperrors.ErrResetTokenExpired):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeExpiredToken, "Reset token expired")

	case errors.Is(err, apperrors.ErrResetTokenUsed):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Reset token already used")

	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		var customErr *apperrors.CustomError
		if errors.As(err, &customErr) && customErr.Message != "" {
			detail = detail.WithDetails(customErr.Message)
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrAuditWrite):
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeAuditWrite, "Action not recorded; audit trail unavailable")

	default:
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, httpStatus int, code dto.ErrorCode, message string) {
	c.JSON(httpStatus, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
