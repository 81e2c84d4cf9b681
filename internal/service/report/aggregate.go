package report

import (
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
)

// SummarizeDays folds daily reports into a period summary.
func SummarizeDays(userID string, start, end time.Time, days []report.DailyReport) report.PeriodSummary {
	p := report.PeriodSummary{
		UserID:    userID,
		StartDate: clock.FormatDate(start),
		EndDate:   clock.FormatDate(end),
		Days:      days,
	}

	for _, d := range days {
		p.TotalWorkedMinutes += d.WorkedMinutes
		p.TotalOvertimeMinutes += d.OvertimeMinutes
		p.ExpectedMinutes += d.ExpectedMinutes

		switch d.Status {
		case report.StatusAbsence:
			p.AbsenceCount++
		case report.StatusIncomplete:
			p.IncompleteCount++
		}
		if d.Late {
			p.DelayCount++
		}
		if d.HasPunches() {
			p.DaysWorked++
		}
	}

	p.BalanceMinutes = p.TotalWorkedMinutes - p.ExpectedMinutes
	return p
}

// SummarizeWeek builds the weekly view from the seven reports of a Monday-start week.
func SummarizeWeek(userID string, weekStart time.Time, days []report.DailyReport, cfg settings.WorkHoursConfig) report.WeeklySummary {
	period := SummarizeDays(userID, weekStart, clock.AddDays(weekStart, 6), days)

	w := report.WeeklySummary{
		UserID:               userID,
		WeekStart:            period.StartDate,
		WeekEnd:              period.EndDate,
		DaysWorked:           period.DaysWorked,
		TotalWorkedMinutes:   period.TotalWorkedMinutes,
		TotalOvertimeMinutes: period.TotalOvertimeMinutes,
		ExpectedMinutes:      cfg.WeeklyExpectedMinutes,
		ExceedsWeeklyLimit:   cfg.MaxWeeklyMinutes > 0 && period.TotalWorkedMinutes > cfg.MaxWeeklyMinutes,
		Days:                 days,
	}
	if w.DaysWorked > 0 {
		w.DailyAverageMinutes = w.TotalWorkedMinutes / w.DaysWorked
	}
	return w
}

// SummarizeMonth builds monthly statistics. The attendance rate is days worked over work
// days in the month, as a percentage with one decimal.
func SummarizeMonth(userID string, year int, month time.Month, days []report.DailyReport, balance int) report.MonthlyStats {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	period := SummarizeDays(userID, first, clock.AddDays(first, clock.DaysInMonth(year, month)-1), days)

	m := report.MonthlyStats{
		UserID:                 userID,
		Year:                   year,
		Month:                  int(month),
		TotalWorkedMinutes:     period.TotalWorkedMinutes,
		TotalOvertimeMinutes:   period.TotalOvertimeMinutes,
		DaysWorked:             period.DaysWorked,
		AbsenceCount:           period.AbsenceCount,
		DelayCount:             period.DelayCount,
		HourBankBalanceMinutes: balance,
	}
	for _, d := range days {
		if d.IsWorkDay {
			m.WorkDaysInMonth++
		}
	}
	if m.WorkDaysInMonth > 0 {
		m.AttendanceRate = decimal.NewFromInt(int64(m.DaysWorked)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(m.WorkDaysInMonth))).
			Round(1).
			InexactFloat64()
	}
	return m
}
