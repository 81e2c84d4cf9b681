package report

import "context"

// ReportService computes reports on demand from the punch log.
type ReportService interface {
	ComputeDailyReport(ctx context.Context, userID string, date string) (DailyReport, error)

	// SummarizePeriod folds the daily reports of every date in [startDate, endDate]
	SummarizePeriod(ctx context.Context, userID string, startDate string, endDate string) (PeriodSummary, error)

	// WeeklySummary covers the Monday-start week containing date
	WeeklySummary(ctx context.Context, userID string, date string) (WeeklySummary, error)

	MonthlyStats(ctx context.Context, userID string, year int, month int) (MonthlyStats, error)
}
