package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// REQUESTS
// ========================================

type DailyReportRequest struct {
	Date string `json:"date"`
}

func (r *DailyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PeriodReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *PeriodReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	}

	if r.EndDate == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	}

	if r.StartDate != "" && r.EndDate != "" {
		startDate, startOK := validator.IsValidDate(r.StartDate)
		if !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}

		endDate, endOK := validator.IsValidDate(r.EndDate)
		if !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}

		if startOK && endOK {
			if startDate.After(endDate) {
				errs = append(errs, validator.ValidationError{
					Field:   "end_date",
					Message: "end_date must not be before start_date",
				})
			} else if clock.DaysInRange(startDate, endDate) > MaxRangeDays {
				errs = append(errs, validator.ValidationError{
					Field:   "end_date",
					Message: fmt.Sprintf("range cannot exceed %d days", MaxRangeDays),
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSES
// ========================================

type SessionResponse struct {
	Entry         *string `json:"entry"`
	LunchOut      *string `json:"lunch_out"`
	LunchIn       *string `json:"lunch_in"`
	Exit          *string `json:"exit"`
	WorkedMinutes int     `json:"worked_minutes"`
	Closed        bool    `json:"closed"`
}

type DailyReportResponse struct {
	Date              string            `json:"date"`
	UserID            string            `json:"user_id"`
	EntryTime         *string           `json:"entry_time"`
	LunchOutTime      *string           `json:"lunch_out_time"`
	LunchInTime       *string           `json:"lunch_in_time"`
	ExitTime          *string           `json:"exit_time"`
	WorkedMinutes     int               `json:"worked_minutes"`
	WorkedHours       decimal.Decimal   `json:"worked_hours"`
	WorkedTime        string            `json:"worked_time"`
	OvertimeMinutes   int               `json:"overtime_minutes"`
	OvertimeHours     decimal.Decimal   `json:"overtime_hours"`
	LunchMinutes      int               `json:"lunch_minutes"`
	ExpectedMinutes   int               `json:"expected_minutes"`
	Status            Status            `json:"status"`
	IsWorkDay         bool              `json:"is_work_day"`
	IsHoliday         bool              `json:"is_holiday"`
	Late              bool              `json:"late"`
	LateMinutes       int               `json:"late_minutes"`
	OpenSession       bool              `json:"open_session"`
	ExceedsDailyLimit bool              `json:"exceeds_daily_limit"`
	Sessions          []SessionResponse `json:"sessions"`
}

func ToDailyReportResponse(r DailyReport) DailyReportResponse {
	sessions := make([]SessionResponse, 0, len(r.Sessions))
	for _, s := range r.Sessions {
		sessions = append(sessions, SessionResponse{
			Entry:         s.Entry,
			LunchOut:      s.LunchOut,
			LunchIn:       s.LunchIn,
			Exit:          s.Exit,
			WorkedMinutes: s.WorkedMinutes,
			Closed:        s.Closed,
		})
	}
	return DailyReportResponse{
		Date:              r.Date,
		UserID:            r.UserID,
		EntryTime:         r.EntryTime,
		LunchOutTime:      r.LunchOutTime,
		LunchInTime:       r.LunchInTime,
		ExitTime:          r.ExitTime,
		WorkedMinutes:     r.WorkedMinutes,
		WorkedHours:       clock.MinutesToHours(r.WorkedMinutes),
		WorkedTime:        clock.MinutesToTime(r.WorkedMinutes),
		OvertimeMinutes:   r.OvertimeMinutes,
		OvertimeHours:     clock.MinutesToHours(r.OvertimeMinutes),
		LunchMinutes:      r.LunchMinutes,
		ExpectedMinutes:   r.ExpectedMinutes,
		Status:            r.Status,
		IsWorkDay:         r.IsWorkDay,
		IsHoliday:         r.IsHoliday,
		Late:              r.Late,
		LateMinutes:       r.LateMinutes,
		OpenSession:       r.OpenSession,
		ExceedsDailyLimit: r.ExceedsDailyLimit,
		Sessions:          sessions,
	}
}

type PeriodSummaryResponse struct {
	UserID               string                `json:"user_id"`
	StartDate            string                `json:"start_date"`
	EndDate              string                `json:"end_date"`
	TotalWorkedMinutes   int                   `json:"total_worked_minutes"`
	TotalWorkedHours     decimal.Decimal       `json:"total_worked_hours"`
	TotalOvertimeMinutes int                   `json:"total_overtime_minutes"`
	TotalOvertimeHours   decimal.Decimal       `json:"total_overtime_hours"`
	ExpectedMinutes      int                   `json:"expected_minutes"`
	BalanceMinutes       int                   `json:"balance_minutes"`
	Balance              string                `json:"balance"`
	AbsenceCount         int                   `json:"absence_count"`
	DelayCount           int                   `json:"delay_count"`
	DaysWorked           int                   `json:"days_worked"`
	IncompleteCount      int                   `json:"incomplete_count"`
	Days                 []DailyReportResponse `json:"days"`
}

func ToPeriodSummaryResponse(p PeriodSummary) PeriodSummaryResponse {
	days := make([]DailyReportResponse, 0, len(p.Days))
	for _, d := range p.Days {
		days = append(days, ToDailyReportResponse(d))
	}
	return PeriodSummaryResponse{
		UserID:               p.UserID,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		TotalWorkedMinutes:   p.TotalWorkedMinutes,
		TotalWorkedHours:     clock.MinutesToHours(p.TotalWorkedMinutes),
		TotalOvertimeMinutes: p.TotalOvertimeMinutes,
		TotalOvertimeHours:   clock.MinutesToHours(p.TotalOvertimeMinutes),
		ExpectedMinutes:      p.ExpectedMinutes,
		BalanceMinutes:       p.BalanceMinutes,
		Balance:              clock.MinutesToTime(p.BalanceMinutes),
		AbsenceCount:         p.AbsenceCount,
		DelayCount:           p.DelayCount,
		DaysWorked:           p.DaysWorked,
		IncompleteCount:      p.IncompleteCount,
		Days:                 days,
	}
}

type WeeklySummaryResponse struct {
	UserID               string                `json:"user_id"`
	WeekStart            string                `json:"week_start"`
	WeekEnd              string                `json:"week_end"`
	DaysWorked           int                   `json:"days_worked"`
	TotalWorkedMinutes   int                   `json:"total_worked_minutes"`
	TotalWorkedHours     decimal.Decimal       `json:"total_worked_hours"`
	TotalOvertimeMinutes int                   `json:"total_overtime_minutes"`
	DailyAverageMinutes  int                   `json:"daily_average_minutes"`
	DailyAverage         string                `json:"daily_average"`
	ExpectedMinutes      int                   `json:"expected_minutes"`
	ExceedsWeeklyLimit   bool                  `json:"exceeds_weekly_limit"`
	Days                 []DailyReportResponse `json:"days"`
}

func ToWeeklySummaryResponse(w WeeklySummary) WeeklySummaryResponse {
	days := make([]DailyReportResponse, 0, len(w.Days))
	for _, d := range w.Days {
		days = append(days, ToDailyReportResponse(d))
	}
	return WeeklySummaryResponse{
		UserID:               w.UserID,
		WeekStart:            w.WeekStart,
		WeekEnd:              w.WeekEnd,
		DaysWorked:           w.DaysWorked,
		TotalWorkedMinutes:   w.TotalWorkedMinutes,
		TotalWorkedHours:     clock.MinutesToHours(w.TotalWorkedMinutes),
		TotalOvertimeMinutes: w.TotalOvertimeMinutes,
		DailyAverageMinutes:  w.DailyAverageMinutes,
		DailyAverage:         clock.MinutesToTime(w.DailyAverageMinutes),
		ExpectedMinutes:      w.ExpectedMinutes,
		ExceedsWeeklyLimit:   w.ExceedsWeeklyLimit,
		Days:                 days,
	}
}

type MonthlyStatsResponse struct {
	UserID                 string          `json:"user_id"`
	Year                   int             `json:"year"`
	Month                  int             `json:"month"`
	TotalWorkedMinutes     int             `json:"total_worked_minutes"`
	TotalWorkedHours       decimal.Decimal `json:"total_worked_hours"`
	TotalOvertimeMinutes   int             `json:"total_overtime_minutes"`
	TotalOvertimeHours     decimal.Decimal `json:"total_overtime_hours"`
	DaysWorked             int             `json:"days_worked"`
	WorkDaysInMonth        int             `json:"work_days_in_month"`
	AbsenceCount           int             `json:"absence_count"`
	DelayCount             int             `json:"delay_count"`
	AttendanceRate         float64         `json:"attendance_rate"`
	HourBankBalanceMinutes int             `json:"hour_bank_balance_minutes"`
	HourBankBalance        string          `json:"hour_bank_balance"`
}

func ToMonthlyStatsResponse(m MonthlyStats) MonthlyStatsResponse {
	return MonthlyStatsResponse{
		UserID:                 m.UserID,
		Year:                   m.Year,
		Month:                  m.Month,
		TotalWorkedMinutes:     m.TotalWorkedMinutes,
		TotalWorkedHours:       clock.MinutesToHours(m.TotalWorkedMinutes),
		TotalOvertimeMinutes:   m.TotalOvertimeMinutes,
		TotalOvertimeHours:     clock.MinutesToHours(m.TotalOvertimeMinutes),
		DaysWorked:             m.DaysWorked,
		WorkDaysInMonth:        m.WorkDaysInMonth,
		AbsenceCount:           m.AbsenceCount,
		DelayCount:             m.DelayCount,
		AttendanceRate:         m.AttendanceRate,
		HourBankBalanceMinutes: m.HourBankBalanceMinutes,
		HourBankBalance:        clock.MinutesToTime(m.HourBankBalanceMinutes),
	}
}
