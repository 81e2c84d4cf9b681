package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var illegal *punch.IllegalPunchError
	if errors.As(err, &illegal) {
		code := "ILLEGAL_PUNCH"
		if illegal.Duplicate {
			code = "DUPLICATE_PUNCH"
		}
		Conflict(w, code, illegal.Error())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, user.ErrMissingUserID):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Clock and date errors
	case errors.Is(err, clock.ErrInvalidFormat),
		errors.Is(err, clock.ErrOutOfRange),
		errors.Is(err, clock.ErrInvalidDate):
		BadRequest(w, err.Error(), nil)

	// Punch domain errors
	case errors.Is(err, punch.ErrInvalidKind):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, punch.ErrTooEarly):
		UnprocessableEntity(w, "TOO_EARLY", err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrRangeTooLong),
		errors.Is(err, report.ErrInvalidMonth),
		errors.Is(err, report.ErrInvalidYear):
		BadRequest(w, err.Error(), nil)

	// Hour bank domain errors
	case errors.Is(err, hourbank.ErrDuplicateLedgerEntry):
		Conflict(w, "DUPLICATE_LEDGER_ENTRY", "Day already closed in the hour bank")
	case errors.Is(err, hourbank.ErrDayNotClosed):
		UnprocessableEntity(w, "DAY_NOT_CLOSED", err.Error())
	case errors.Is(err, hourbank.ErrDayStillOpen):
		UnprocessableEntity(w, "DAY_STILL_OPEN", err.Error())
	case errors.Is(err, hourbank.ErrFutureDate):
		BadRequest(w, err.Error(), nil)

	// Settings domain errors
	case errors.Is(err, settings.ErrMissingConfig):
		ServiceUnavailable(w, "Work hours are not configured")
	case errors.Is(err, settings.ErrInvalidConfig):
		slog.Error("Stored work hours are invalid", "error", err)
		ServiceUnavailable(w, "Work hours configuration is invalid")
	case errors.Is(err, settings.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, settings.ErrInvalidHolidayFile):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
