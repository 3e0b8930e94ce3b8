package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/pkg/apperrors"
	"github.com/choirdinated/backend/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. Controllers call
// this instead of mapping statuses themselves.
func HandleAPIError(c *gin.Context, err error) {
	status, code := classify(err)

	message := err.Error()
	var details interface{}

	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if custom.Message != "" {
			message = custom.Message
		}
		if len(custom.Details) > 0 {
			details = custom.Details
		}
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Unhandled API error")
		// Internal details never leak to clients
		message = "Internal server error"
		details = nil
	}

	detail := dto.NewErrorDetail(code, message)
	if details != nil {
		detail = detail.WithDetails(details)
	}

	c.JSON(status, dto.APIResponse{Error: detail, Timestamp: time.Now()})
}

func classify(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.ErrorCodeTokenNotFound

	case errors.Is(err, apperrors.ErrNoMembership):
		return http.StatusForbidden, dto.ErrorCodeNoMembership
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden

	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrChoirNotFound),
		errors.Is(err, apperrors.ErrMemberNotFound),
		errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrLeaveNotFound),
		errors.Is(err, apperrors.ErrValueNotFound),
		errors.Is(err, apperrors.ErrAttendanceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound

	case errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrMemberAlreadyExists),
		errors.Is(err, apperrors.ErrOpenPeriodExists),
		errors.Is(err, apperrors.ErrNoOpenPeriod),
		errors.Is(err, apperrors.ErrLeaveAlreadyDecided),
		errors.Is(err, apperrors.ErrValueAlreadyExists),
		errors.Is(err, apperrors.ErrValueInUse):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidLeaveDates),
		errors.Is(err, apperrors.ErrNotASeriesParent),
		errors.Is(err, apperrors.ErrInvalidOrganizationNumber):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed

	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}
