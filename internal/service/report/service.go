package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
)

type ReportServiceImpl struct {
	punch.PunchRepository
	hourbank.HourBankRepository
	config settings.ConfigProvider
	now    func() time.Time
}

func NewReportService(
	punchRepo punch.PunchRepository,
	hourBankRepo hourbank.HourBankRepository,
	config settings.ConfigProvider,
) report.ReportService {
	return &ReportServiceImpl{
		PunchRepository:    punchRepo,
		HourBankRepository: hourBankRepo,
		config:             config,
		now:                time.Now,
	}
}

// ComputeDailyReport implements report.ReportService.
func (s *ReportServiceImpl) ComputeDailyReport(ctx context.Context, userID string, date string) (report.DailyReport, error) {
	day, err := clock.ParseDate(date)
	if err != nil {
		return report.DailyReport{}, err
	}

	days, _, err := s.dailyReports(ctx, userID, day, day)
	if err != nil {
		return report.DailyReport{}, err
	}
	return days[0], nil
}

// SummarizePeriod implements report.ReportService.
func (s *ReportServiceImpl) SummarizePeriod(ctx context.Context, userID string, startDate string, endDate string) (report.PeriodSummary, error) {
	start, err := clock.ParseDate(startDate)
	if err != nil {
		return report.PeriodSummary{}, err
	}
	end, err := clock.ParseDate(endDate)
	if err != nil {
		return report.PeriodSummary{}, err
	}
	if end.Before(start) {
		return report.PeriodSummary{}, report.ErrInvalidDateRange
	}
	if clock.DaysInRange(start, end) > report.MaxRangeDays {
		return report.PeriodSummary{}, report.ErrRangeTooLong
	}

	days, _, err := s.dailyReports(ctx, userID, start, end)
	if err != nil {
		return report.PeriodSummary{}, err
	}
	return SummarizeDays(userID, start, end, days), nil
}

// WeeklySummary implements report.ReportService.
func (s *ReportServiceImpl) WeeklySummary(ctx context.Context, userID string, date string) (report.WeeklySummary, error) {
	day, err := clock.ParseDate(date)
	if err != nil {
		return report.WeeklySummary{}, err
	}
	weekStart := clock.StartOfWeek(day)

	days, cfg, err := s.dailyReports(ctx, userID, weekStart, clock.AddDays(weekStart, 6))
	if err != nil {
		return report.WeeklySummary{}, err
	}
	return SummarizeWeek(userID, weekStart, days, cfg), nil
}

// MonthlyStats implements report.ReportService.
func (s *ReportServiceImpl) MonthlyStats(ctx context.Context, userID string, year int, month int) (report.MonthlyStats, error) {
	if month < 1 || month > 12 {
		return report.MonthlyStats{}, report.ErrInvalidMonth
	}
	if year < 1 {
		return report.MonthlyStats{}, report.ErrInvalidYear
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := clock.AddDays(first, clock.DaysInMonth(year, time.Month(month))-1)

	days, _, err := s.dailyReports(ctx, userID, first, last)
	if err != nil {
		return report.MonthlyStats{}, err
	}

	txs, err := s.HourBankRepository.ListByUser(ctx, userID)
	if err != nil {
		return report.MonthlyStats{}, fmt.Errorf("failed to load hour bank: %w", err)
	}
	balance := hourbank.Ledger{UserID: userID, Transactions: txs}.Balance()

	return SummarizeMonth(userID, year, time.Month(month), days, balance), nil
}

// dailyReports computes one report per date in [start, end] from a single range query.
func (s *ReportServiceImpl) dailyReports(ctx context.Context, userID string, start, end time.Time) ([]report.DailyReport, settings.WorkHoursConfig, error) {
	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		return nil, settings.WorkHoursConfig{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, settings.WorkHoursConfig{}, err
	}
	today := clock.DateOf(s.now().In(loc))

	punches, err := s.PunchRepository.ListByUserAndRange(ctx, userID, clock.FormatDate(start), clock.FormatDate(end))
	if err != nil {
		return nil, settings.WorkHoursConfig{}, fmt.Errorf("failed to load punches: %w", err)
	}

	byDate := make(map[string][]punch.Punch)
	for _, p := range punches {
		byDate[p.LocalDate] = append(byDate[p.LocalDate], p)
	}

	days := make([]report.DailyReport, 0, clock.DaysInRange(start, end))
	for d := clock.DateOf(start); !d.After(end); d = clock.AddDays(d, 1) {
		r := CalculateDaily(DailyInput{
			UserID:  userID,
			Date:    d,
			Today:   today,
			Punches: byDate[clock.FormatDate(d)],
			Config:  cfg,
		})
		if r.RejectedPunches > 0 {
			slog.Warn("Ignored punches rejected by state machine", "user_id", userID, "date", r.Date, "count", r.RejectedPunches)
		}
		days = append(days, r)
	}

	return days, cfg, nil
}
