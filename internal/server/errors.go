package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	attendancedomain "github.com/yaseeradam/school-ms-sub002/internal/attendance/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/auth"
	chatdomain "github.com/yaseeradam/school-ms-sub002/internal/chat/domain"
	guardiandomain "github.com/yaseeradam/school-ms-sub002/internal/guardian/domain"
	notificationdomain "github.com/yaseeradam/school-ms-sub002/internal/notification/domain"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
	plandomain "github.com/yaseeradam/school-ms-sub002/internal/plan/domain"
	reportdomain "github.com/yaseeradam/school-ms-sub002/internal/report/domain"
	schooldomain "github.com/yaseeradam/school-ms-sub002/internal/school/domain"
	classdomain "github.com/yaseeradam/school-ms-sub002/internal/schoolclass/domain"
	studentdomain "github.com/yaseeradam/school-ms-sub002/internal/student/domain"
	subjectdomain "github.com/yaseeradam/school-ms-sub002/internal/subject/domain"
	teacherdomain "github.com/yaseeradam/school-ms-sub002/internal/teacher/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, chatdomain.ErrNotParticipant):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, paymentdomain.ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, paymentdomain.ErrCheckoutFailed):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog turns a handler error into the (error_type,
// error_code) pair the request logger attaches to each log line.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	switch {
	case status >= http.StatusInternalServerError:
		return "internal", code
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return "auth", code
	default:
		return "client", code
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isStudentValidationError(err),
		isTeacherValidationError(err),
		isGuardianValidationError(err),
		isClassValidationError(err),
		isPlanValidationError(err),
		isSchoolValidationError(err),
		isChatValidationError(err),
		isSubjectValidationError(err),
		isAttendanceValidationError(err),
		isNotificationValidationError(err),
		isPaymentValidationError(err):
		return true
	default:
		return false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, schooldomain.ErrInvalidSchool),
		errors.Is(err, studentdomain.ErrInvalidSchool),
		errors.Is(err, teacherdomain.ErrInvalidSchool),
		errors.Is(err, guardiandomain.ErrInvalidSchool),
		errors.Is(err, classdomain.ErrInvalidSchool),
		errors.Is(err, chatdomain.ErrInvalidSchool),
		errors.Is(err, reportdomain.ErrInvalidSchool),
		errors.Is(err, subjectdomain.ErrInvalidSchool),
		errors.Is(err, attendancedomain.ErrInvalidSchool),
		errors.Is(err, notificationdomain.ErrInvalidSchool),
		errors.Is(err, paymentdomain.ErrInvalidSchool):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, studentdomain.ErrDuplicateAdmission),
		errors.Is(err, teacherdomain.ErrDuplicateEmail),
		errors.Is(err, guardiandomain.ErrDuplicateEmail),
		errors.Is(err, classdomain.ErrDuplicateName),
		errors.Is(err, subjectdomain.ErrDuplicateSubject),
		errors.Is(err, subjectdomain.ErrDuplicateAssignment):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, plandomain.ErrNotFound),
		errors.Is(err, schooldomain.ErrNotFound),
		errors.Is(err, studentdomain.ErrNotFound),
		errors.Is(err, teacherdomain.ErrNotFound),
		errors.Is(err, guardiandomain.ErrNotFound),
		errors.Is(err, classdomain.ErrNotFound),
		errors.Is(err, chatdomain.ErrNotFound),
		errors.Is(err, subjectdomain.ErrNotFound),
		errors.Is(err, subjectdomain.ErrTeacherNotFound),
		errors.Is(err, subjectdomain.ErrClassNotFound),
		errors.Is(err, paymentdomain.ErrPaymentNotFound),
		errors.Is(err, paymentdomain.ErrProviderNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
