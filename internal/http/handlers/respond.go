package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notehq/notehub/internal/apperrors"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondForbidden(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusForbidden, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

// RespondAppError is the single place where error kinds become HTTP statuses.
// Unclassified errors collapse to a generic 500 with details suppressed; the
// cause is attached to the gin context so the request logger still records it.
func RespondAppError(ctx *gin.Context, err error) {
	var appErr *apperrors.Error

	if !errors.As(err, &appErr) {
		_ = ctx.Error(err)
		RespondInternal(ctx, "Something went wrong")
		return
	}

	switch appErr.Kind {
	case apperrors.KindValidation:
		RespondError(ctx, http.StatusBadRequest, "invalid_request", appErr.Message, appErr.Details)
	case apperrors.KindAuthentication:
		RespondUnAuthorized(ctx, "invalid_credentials", appErr.Message)
	case apperrors.KindTokenExpired:
		RespondUnAuthorized(ctx, "token_expired", appErr.Message)
	case apperrors.KindTokenInvalid:
		RespondUnAuthorized(ctx, "token_invalid", appErr.Message)
	case apperrors.KindAuthorization:
		RespondForbidden(ctx, "forbidden", appErr.Message)
	case apperrors.KindNotFound:
		RespondNotFound(ctx, appErr.Message)
	case apperrors.KindConflict:
		RespondConflict(ctx, "conflict", appErr.Message)
	case apperrors.KindRateLimited:
		RespondError(ctx, http.StatusTooManyRequests, "rate_limited", appErr.Message, nil)
	default:
		// KindExhausted and KindInternal land here on purpose
		_ = ctx.Error(err)
		RespondInternal(ctx, "Something went wrong")
	}
}
