package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Configuration errors persist until an administrator acts
	case errors.Is(err, callattendance.ErrConfiguration), errors.Is(err, incentive.ErrConfiguration):
		PreconditionFailed(w, err.Error())

	// Auth
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrInvalidRole), errors.Is(err, user.ErrActorRequired):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions), errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Call attendance domain errors
	case errors.Is(err, callattendance.ErrManualUpdateForbidden),
		errors.Is(err, callattendance.ErrViewForbidden),
		errors.Is(err, callattendance.ErrPurgeForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, callattendance.ErrConfigNotFound),
		errors.Is(err, callattendance.ErrAttendanceNotFound),
		errors.Is(err, callattendance.ErrAuditNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, callattendance.ErrDuplicateSubmission):
		Conflict(w, err.Error())
	case errors.Is(err, callattendance.ErrInvalidDateRange),
		errors.Is(err, callattendance.ErrDateRangeTooLarge),
		errors.Is(err, callattendance.ErrUnsupportedFileType),
		errors.Is(err, callattendance.ErrEmptyUpload),
		errors.Is(err, callattendance.ErrInvalidRetention):
		BadRequest(w, err.Error(), nil)

	// Incentive domain errors
	case errors.Is(err, incentive.ErrLoanTypeNotFound),
		errors.Is(err, incentive.ErrLeadNotFound),
		errors.Is(err, incentive.ErrCalculationNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, incentive.ErrLoanTypeNameExists),
		errors.Is(err, incentive.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, incentive.ErrNonPositiveAmount),
		errors.Is(err, incentive.ErrInvalidWaiver),
		errors.Is(err, incentive.ErrLoanTypeInactive):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
