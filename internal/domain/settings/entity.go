package settings

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
)

// WorkHours is the single work-hours configuration row. All fields are required; the
// store has no implicit defaults.
type WorkHours struct {
	WorkDays              []time.Weekday
	StartTime             string
	EndTime               string
	LunchBreakMinutes     int
	DailyExpectedMinutes  int
	WeeklyExpectedMinutes int
	ToleranceMinutes      int
	// 0 disables the limit
	MaxDailyMinutes  int
	MaxWeeklyMinutes int
	// EarliestEntry blocks entries before this time of day on work days when set
	EarliestEntry *string
	Timezone      string
	UpdatedAt     time.Time
}

type Holiday struct {
	Date string
	Name string
}

// WorkHoursConfig is what the engine evaluates against: work hours plus the holiday set.
type WorkHoursConfig struct {
	WorkHours
	Holidays clock.HolidaySet
}

func NewWorkHoursConfig(w WorkHours, holidays []Holiday) WorkHoursConfig {
	set := make(clock.HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date] = struct{}{}
	}
	return WorkHoursConfig{WorkHours: w, Holidays: set}
}

func (c WorkHoursConfig) IsWorkDay(date time.Time) bool {
	return clock.IsWorkDay(date, c.WorkDays, c.Holidays)
}

func (c WorkHoursConfig) IsHoliday(date time.Time) bool {
	return c.Holidays.Contains(date)
}

// ExpectedMinutes is the daily expectation for date, 0 on days off.
func (c WorkHoursConfig) ExpectedMinutes(date time.Time) int {
	if c.IsWorkDay(date) {
		return c.DailyExpectedMinutes
	}
	return 0
}

func (c WorkHoursConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, c.Timezone)
	}
	return loc, nil
}

// DefaultWorkHours is only used to seed an empty store on request.
func DefaultWorkHours() WorkHours {
	earliest := "06:00"
	return WorkHours{
		WorkDays:              []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartTime:             "08:00",
		EndTime:               "17:48",
		LunchBreakMinutes:     30,
		DailyExpectedMinutes:  528,
		WeeklyExpectedMinutes: 2640,
		ToleranceMinutes:      15,
		MaxDailyMinutes:       600,
		MaxWeeklyMinutes:      3000,
		EarliestEntry:         &earliest,
		Timezone:              "America/Sao_Paulo",
	}
}
