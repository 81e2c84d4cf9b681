package settings

import (
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/validator"
)

// ========================================
// WORK HOURS DTOs
// ========================================

type UpdateWorkHoursRequest struct {
	WorkDays              []string `json:"work_days"`
	StartTime             string   `json:"start_time"`
	EndTime               string   `json:"end_time"`
	LunchBreakMinutes     int      `json:"lunch_break_minutes"`
	DailyExpectedMinutes  int      `json:"daily_expected_minutes"`
	WeeklyExpectedMinutes int      `json:"weekly_expected_minutes"`
	ToleranceMinutes      int      `json:"tolerance_minutes"`
	MaxDailyMinutes       int      `json:"max_daily_minutes"`
	MaxWeeklyMinutes      int      `json:"max_weekly_minutes"`
	EarliestEntry         *string  `json:"earliest_entry"`
	Timezone              string   `json:"timezone"`
}

// ToWorkHours converts the request, failing with ValidationErrors on any invalid field.
func (r *UpdateWorkHoursRequest) ToWorkHours() (WorkHours, error) {
	var errs validator.ValidationErrors

	workDays := make([]time.Weekday, 0, len(r.WorkDays))
	seen := make(map[time.Weekday]bool)
	for _, name := range r.WorkDays {
		wd, err := clock.ParseWeekday(name)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "work_days",
				Message: "unknown weekday: " + name,
			})
			continue
		}
		if !seen[wd] {
			seen[wd] = true
			workDays = append(workDays, wd)
		}
	}

	w := WorkHours{
		WorkDays:              workDays,
		StartTime:             r.StartTime,
		EndTime:               r.EndTime,
		LunchBreakMinutes:     r.LunchBreakMinutes,
		DailyExpectedMinutes:  r.DailyExpectedMinutes,
		WeeklyExpectedMinutes: r.WeeklyExpectedMinutes,
		ToleranceMinutes:      r.ToleranceMinutes,
		MaxDailyMinutes:       r.MaxDailyMinutes,
		MaxWeeklyMinutes:      r.MaxWeeklyMinutes,
		EarliestEntry:         r.EarliestEntry,
		Timezone:              r.Timezone,
	}
	if len(errs) == 0 {
		errs = append(errs, w.validate()...)
	}

	if len(errs) > 0 {
		return WorkHours{}, errs
	}
	return w, nil
}

// Validate returns ValidationErrors when a stored or submitted row is unusable.
func (w WorkHours) Validate() error {
	if errs := w.validate(); len(errs) > 0 {
		return errs
	}
	return nil
}

func (w WorkHours) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if len(w.WorkDays) == 0 {
		errs = append(errs, validator.ValidationError{Field: "work_days", Message: "at least one work day is required"})
	}

	startOK := validator.IsValidTime(w.StartTime)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be HH:MM"})
	}
	endOK := validator.IsValidTime(w.EndTime)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be HH:MM"})
	}
	if startOK && endOK {
		if d, _ := clock.Diff(w.StartTime, w.EndTime); d <= 0 {
			errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be after start_time"})
		}
	}

	if w.LunchBreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "lunch_break_minutes", Message: "lunch_break_minutes cannot be negative"})
	}
	if !validator.IsInRange(w.DailyExpectedMinutes, 1, clock.MinutesPerDay) {
		errs = append(errs, validator.ValidationError{Field: "daily_expected_minutes", Message: "daily_expected_minutes must be between 1 and 1440"})
	}
	if !validator.IsInRange(w.WeeklyExpectedMinutes, 1, 7*clock.MinutesPerDay) {
		errs = append(errs, validator.ValidationError{Field: "weekly_expected_minutes", Message: "weekly_expected_minutes must be between 1 and 10080"})
	}
	if !validator.IsInRange(w.ToleranceMinutes, 0, 120) {
		errs = append(errs, validator.ValidationError{Field: "tolerance_minutes", Message: "tolerance_minutes must be between 0 and 120"})
	}
	if w.MaxDailyMinutes < 0 || (w.MaxDailyMinutes > 0 && w.MaxDailyMinutes < w.DailyExpectedMinutes) {
		errs = append(errs, validator.ValidationError{Field: "max_daily_minutes", Message: "max_daily_minutes must be 0 or at least daily_expected_minutes"})
	}
	if w.MaxWeeklyMinutes < 0 || (w.MaxWeeklyMinutes > 0 && w.MaxWeeklyMinutes < w.WeeklyExpectedMinutes) {
		errs = append(errs, validator.ValidationError{Field: "max_weekly_minutes", Message: "max_weekly_minutes must be 0 or at least weekly_expected_minutes"})
	}
	if w.EarliestEntry != nil && !validator.IsValidTime(*w.EarliestEntry) {
		errs = append(errs, validator.ValidationError{Field: "earliest_entry", Message: "earliest_entry must be HH:MM"})
	}
	if !validator.IsValidTimezone(w.Timezone) {
		errs = append(errs, validator.ValidationError{Field: "timezone", Message: "timezone must be a valid IANA zone"})
	}

	return errs
}

type WorkHoursResponse struct {
	WorkDays              []string  `json:"work_days"`
	StartTime             string    `json:"start_time"`
	EndTime               string    `json:"end_time"`
	LunchBreakMinutes     int       `json:"lunch_break_minutes"`
	DailyExpectedMinutes  int       `json:"daily_expected_minutes"`
	WeeklyExpectedMinutes int       `json:"weekly_expected_minutes"`
	ToleranceMinutes      int       `json:"tolerance_minutes"`
	MaxDailyMinutes       int       `json:"max_daily_minutes"`
	MaxWeeklyMinutes      int       `json:"max_weekly_minutes"`
	EarliestEntry         *string   `json:"earliest_entry"`
	Timezone              string    `json:"timezone"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func ToWorkHoursResponse(w WorkHours) WorkHoursResponse {
	days := make([]string, 0, len(w.WorkDays))
	for _, d := range w.WorkDays {
		days = append(days, clock.WeekdayName(d))
	}
	return WorkHoursResponse{
		WorkDays:              days,
		StartTime:             w.StartTime,
		EndTime:               w.EndTime,
		LunchBreakMinutes:     w.LunchBreakMinutes,
		DailyExpectedMinutes:  w.DailyExpectedMinutes,
		WeeklyExpectedMinutes: w.WeeklyExpectedMinutes,
		ToleranceMinutes:      w.ToleranceMinutes,
		MaxDailyMinutes:       w.MaxDailyMinutes,
		MaxWeeklyMinutes:      w.MaxWeeklyMinutes,
		EarliestEntry:         w.EarliestEntry,
		Timezone:              w.Timezone,
		UpdatedAt:             w.UpdatedAt,
	}
}

// ========================================
// HOLIDAY DTOs
// ========================================

type AddHolidayRequest struct {
	Date string `json:"date" yaml:"date"`
	Name string `json:"name" yaml:"name"`
}

func (r *AddHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date is required"})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayResponse struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// HolidayFile is the YAML calendar accepted by ImportHolidays.
//
//	holidays:
//	  - date: "2024-12-25"
//	    name: Christmas
type HolidayFile struct {
	Holidays []AddHolidayRequest `yaml:"holidays"`
}
