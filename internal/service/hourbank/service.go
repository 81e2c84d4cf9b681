package hourbank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/metrics"
	"github.com/google/uuid"
)

type HourBankServiceImpl struct {
	hourbank.HourBankRepository
	punch.PunchRepository
	reportService report.ReportService
	config        settings.ConfigProvider
	publisher     events.Publisher
	metrics       *metrics.Metrics
	now           func() time.Time
}

func NewHourBankService(
	hourBankRepo hourbank.HourBankRepository,
	punchRepo punch.PunchRepository,
	reportService report.ReportService,
	config settings.ConfigProvider,
	publisher events.Publisher,
	m *metrics.Metrics,
) hourbank.HourBankService {
	return &HourBankServiceImpl{
		HourBankRepository: hourBankRepo,
		PunchRepository:    punchRepo,
		reportService:      reportService,
		config:             config,
		publisher:          publisher,
		metrics:            m,
		now:                time.Now,
	}
}

// GetLedger implements hourbank.HourBankService.
func (s *HourBankServiceImpl) GetLedger(ctx context.Context, userID string) (hourbank.LedgerResponse, error) {
	txs, err := s.HourBankRepository.ListByUser(ctx, userID)
	if err != nil {
		return hourbank.LedgerResponse{}, fmt.Errorf("failed to load hour bank: %w", err)
	}
	return hourbank.ToLedgerResponse(hourbank.Ledger{UserID: userID, Transactions: txs}), nil
}

// PreviewDay implements hourbank.HourBankService.
func (s *HourBankServiceImpl) PreviewDay(ctx context.Context, userID string, date string) (hourbank.PreviewResponse, error) {
	r, err := s.reportService.ComputeDailyReport(ctx, userID, date)
	if err != nil {
		return hourbank.PreviewResponse{}, err
	}

	exists, err := s.HourBankRepository.ExistsForDate(ctx, userID, r.Date)
	if err != nil {
		return hourbank.PreviewResponse{}, fmt.Errorf("failed to check hour bank: %w", err)
	}

	resp := hourbank.PreviewResponse{
		UserID:        userID,
		Date:          r.Date,
		Closed:        r.Closed(),
		AlreadyClosed: exists,
		DeltaMinutes:  hourbank.DayDelta(r),
	}
	if !resp.Closed {
		resp.DeltaMinutes = 0
		return resp, nil
	}

	tx, err := hourbank.ComputeEffect(r)
	if err != nil {
		return hourbank.PreviewResponse{}, err
	}
	if tx != nil {
		txResp := hourbank.ToTransactionResponse(*tx)
		resp.Transaction = &txResp
	}
	return resp, nil
}

// CloseDay implements hourbank.HourBankService.
func (s *HourBankServiceImpl) CloseDay(ctx context.Context, userID string, date string) (*hourbank.Transaction, error) {
	day, err := clock.ParseDate(date)
	if err != nil {
		return nil, err
	}

	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	// Today stays open because a later Entry may start another session.
	today := clock.DateOf(s.now().In(loc))
	switch {
	case day.After(today):
		return nil, fmt.Errorf("%w: %s", hourbank.ErrFutureDate, date)
	case day.Equal(today):
		return nil, fmt.Errorf("%w: %s", hourbank.ErrDayStillOpen, date)
	}

	var recorded *hourbank.Transaction
	err = s.PunchRepository.LockUser(ctx, userID, func(ctx context.Context) error {
		exists, err := s.HourBankRepository.ExistsForDate(ctx, userID, date)
		if err != nil {
			return fmt.Errorf("failed to check hour bank: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: %s", hourbank.ErrDuplicateLedgerEntry, date)
		}

		r, err := s.reportService.ComputeDailyReport(ctx, userID, date)
		if err != nil {
			return err
		}
		tx, err := hourbank.ComputeEffect(r)
		if err != nil || tx == nil {
			return err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate transaction id: %w", err)
		}
		tx.ID = id.String()
		tx.CreatedAt = s.now().UTC()

		saved, err := s.HourBankRepository.Append(ctx, *tx)
		if err != nil {
			return err
		}
		recorded = &saved
		return nil
	})
	if err != nil {
		if errors.Is(err, hourbank.ErrDuplicateLedgerEntry) {
			s.metrics.LedgerDuplicate()
			slog.Warn("Hour bank day already closed", "user_id", userID, "date", date)
		}
		return nil, err
	}

	if recorded == nil {
		slog.Debug("Hour bank delta below threshold", "user_id", userID, "date", date)
		return nil, nil
	}

	s.metrics.LedgerTransaction(recorded.DeltaMinutes)
	slog.Info("Hour bank transaction recorded", "user_id", userID, "date", date, "delta_minutes", recorded.DeltaMinutes)

	event := events.Event{
		Type:       events.TypeHourBankTransaction,
		Key:        userID,
		OccurredAt: recorded.CreatedAt,
		Payload:    hourbank.ToTransactionResponse(*recorded),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Error("Failed to publish hour bank event", "user_id", userID, "date", date, "error", err)
	}

	return recorded, nil
}

// CloseDayForAll implements hourbank.HourBankService. Failures for one user are counted and
// logged without stopping the batch.
func (s *HourBankServiceImpl) CloseDayForAll(ctx context.Context, date string) (hourbank.CloseSummary, error) {
	if _, err := clock.ParseDate(date); err != nil {
		return hourbank.CloseSummary{}, err
	}

	userIDs, err := s.PunchRepository.ListUserIDsByDate(ctx, date)
	if err != nil {
		return hourbank.CloseSummary{}, fmt.Errorf("failed to list users with punches: %w", err)
	}

	summary := hourbank.CloseSummary{Date: date, OpenUsers: []string{}}
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		tx, err := s.CloseDay(ctx, userID, date)
		switch {
		case err == nil && tx != nil:
			summary.Recorded++
		case err == nil:
			summary.Immaterial++
		case errors.Is(err, hourbank.ErrDuplicateLedgerEntry):
			summary.Duplicates++
		case errors.Is(err, hourbank.ErrDayNotClosed):
			summary.OpenUsers = append(summary.OpenUsers, userID)
		case errors.Is(err, settings.ErrMissingConfig), errors.Is(err, settings.ErrInvalidConfig):
			return summary, err
		default:
			summary.Failed++
			slog.Error("Failed to close hour bank day", "user_id", userID, "date", date, "error", err)
		}
	}

	return summary, nil
}
