package punch

import (
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/validator"
)

type RecordPunchRequest struct {
	Kind string `json:"kind"`
}

func (r *RecordPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Kind) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind is required",
		})
	} else if _, err := ParseKind(r.Kind); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: entry, lunch_out, lunch_in, exit",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Kind         Kind      `json:"kind"`
	TimestampUTC time.Time `json:"timestamp_utc"`
	LocalDate    string    `json:"local_date"`
	LocalTime    string    `json:"local_time"`
}

func ToResponse(p Punch) PunchResponse {
	return PunchResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		Kind:         p.Kind,
		TimestampUTC: p.TimestampUTC,
		LocalDate:    p.LocalDate,
		LocalTime:    p.LocalTime,
	}
}

type StatusResponse struct {
	UserID       string          `json:"user_id"`
	Date         string          `json:"date"`
	State        State           `json:"state"`
	AllowedKinds []Kind          `json:"allowed_kinds"`
	Punches      []PunchResponse `json:"punches"`
}
