package cron

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/notify"
)

// catchUpDays bounds how far back a run looks for days that were never closed.
const catchUpDays = 7

type HourBankJobs struct {
	hourBankService hourbank.HourBankService
	config          settings.ConfigProvider
	notifier        notify.Notifier
	interval        time.Duration
	// closeHour is the local hour from which yesterday is closed
	closeHour int
	now       func() time.Time

	mu         sync.Mutex
	lastClosed string
}

func NewHourBankJobs(
	hourBankService hourbank.HourBankService,
	config settings.ConfigProvider,
	notifier notify.Notifier,
	interval time.Duration,
	closeHour int,
) *HourBankJobs {
	return &HourBankJobs{
		hourBankService: hourBankService,
		config:          config,
		notifier:        notifier,
		interval:        interval,
		closeHour:       closeHour,
		now:             time.Now,
	}
}

func (j *HourBankJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_previous_day", j.interval, j.ClosePreviousDay)
}

// ClosePreviousDay closes yesterday, in the configured zone, for every user who punched
// on it. Days missed while the process was down are closed first, up to catchUpDays back.
// Each date is closed at most once per process; a rerun after restart only finds duplicates.
func (j *HourBankJobs) ClosePreviousDay(ctx context.Context) error {
	cfg, err := j.config.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load work hours: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	local := j.now().In(loc)
	if local.Hour() < j.closeHour {
		return nil
	}
	yesterday := clock.AddDays(local, -1)

	j.mu.Lock()
	defer j.mu.Unlock()

	for _, date := range j.pendingDates(yesterday) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		done, err := j.closeDate(ctx, date)
		if err != nil {
			return err
		}
		if !done {
			// retried from this date on the next tick
			return nil
		}
		j.lastClosed = date
	}
	return nil
}

// pendingDates lists the dates after lastClosed up to yesterday, oldest first.
func (j *HourBankJobs) pendingDates(yesterday time.Time) []string {
	from := clock.AddDays(yesterday, -(catchUpDays - 1))
	if j.lastClosed != "" {
		if last, err := clock.ParseDate(j.lastClosed); err == nil && !last.Before(from) {
			from = clock.AddDays(last, 1)
		}
	}

	var dates []string
	for d := from; !d.After(yesterday); d = d.AddDate(0, 0, 1) {
		dates = append(dates, clock.FormatDate(d))
	}
	return dates
}

// closeDate closes one date for all users and reports whether it completed without failures.
func (j *HourBankJobs) closeDate(ctx context.Context, date string) (bool, error) {
	slog.Info("Cron: Closing day in hour bank", "date", date)

	summary, err := j.hourBankService.CloseDayForAll(ctx, date)
	if err != nil {
		return false, fmt.Errorf("failed to close %s: %w", date, err)
	}

	slog.Info("Cron: Day closed",
		"date", date,
		"recorded", summary.Recorded,
		"immaterial", summary.Immaterial,
		"duplicates", summary.Duplicates,
		"open", len(summary.OpenUsers),
		"failed", summary.Failed,
	)

	if len(summary.OpenUsers) > 0 {
		message := fmt.Sprintf("Hour bank: %d user(s) left %s without a final exit punch: %s",
			len(summary.OpenUsers), date, strings.Join(summary.OpenUsers, ", "))
		if err := j.notifier.Notify(ctx, message); err != nil {
			slog.Error("Cron: Failed to send open day alert", "date", date, "error", err)
		}
	}

	return summary.Failed == 0, nil
}
