package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

// GetWorkHours implements settings.SettingsRepository.
func (r *settingsRepository) GetWorkHours(ctx context.Context) (settings.WorkHours, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT work_days, start_time, end_time, lunch_break_minutes,
			   daily_expected_minutes, weekly_expected_minutes, tolerance_minutes,
			   max_daily_minutes, max_weekly_minutes, earliest_entry, timezone, updated_at
		FROM work_hours_settings
		WHERE id = 1
	`

	var (
		w        settings.WorkHours
		workDays []int16
	)
	err := q.QueryRow(ctx, query).Scan(
		&workDays, &w.StartTime, &w.EndTime, &w.LunchBreakMinutes,
		&w.DailyExpectedMinutes, &w.WeeklyExpectedMinutes, &w.ToleranceMinutes,
		&w.MaxDailyMinutes, &w.MaxWeeklyMinutes, &w.EarliestEntry, &w.Timezone, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.WorkHours{}, settings.ErrMissingConfig
		}
		return settings.WorkHours{}, fmt.Errorf("failed to get work hours: %w", err)
	}

	w.WorkDays = make([]time.Weekday, 0, len(workDays))
	for _, d := range workDays {
		w.WorkDays = append(w.WorkDays, time.Weekday(d))
	}

	return w, nil
}

// SaveWorkHours implements settings.SettingsRepository.
func (r *settingsRepository) SaveWorkHours(ctx context.Context, w settings.WorkHours) (settings.WorkHours, error) {
	q := GetQuerier(ctx, r.db)

	workDays := make([]int16, 0, len(w.WorkDays))
	for _, d := range w.WorkDays {
		workDays = append(workDays, int16(d))
	}

	query := `
		INSERT INTO work_hours_settings (
			id, work_days, start_time, end_time, lunch_break_minutes,
			daily_expected_minutes, weekly_expected_minutes, tolerance_minutes,
			max_daily_minutes, max_weekly_minutes, earliest_entry, timezone, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (id) DO UPDATE SET
			work_days = EXCLUDED.work_days,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			lunch_break_minutes = EXCLUDED.lunch_break_minutes,
			daily_expected_minutes = EXCLUDED.daily_expected_minutes,
			weekly_expected_minutes = EXCLUDED.weekly_expected_minutes,
			tolerance_minutes = EXCLUDED.tolerance_minutes,
			max_daily_minutes = EXCLUDED.max_daily_minutes,
			max_weekly_minutes = EXCLUDED.max_weekly_minutes,
			earliest_entry = EXCLUDED.earliest_entry,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		workDays, w.StartTime, w.EndTime, w.LunchBreakMinutes,
		w.DailyExpectedMinutes, w.WeeklyExpectedMinutes, w.ToleranceMinutes,
		w.MaxDailyMinutes, w.MaxWeeklyMinutes, w.EarliestEntry, w.Timezone,
	).Scan(&w.UpdatedAt)
	if err != nil {
		return settings.WorkHours{}, fmt.Errorf("failed to save work hours: %w", err)
	}

	return w, nil
}

// ListHolidays implements settings.SettingsRepository.
func (r *settingsRepository) ListHolidays(ctx context.Context) ([]settings.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT date, name FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []settings.Holiday
	for rows.Next() {
		var (
			h    settings.Holiday
			date time.Time
		)
		if err := rows.Scan(&date, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		h.Date = clock.FormatDate(date)
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holidays: %w", err)
	}

	return holidays, nil
}

// UpsertHoliday implements settings.SettingsRepository.
func (r *settingsRepository) UpsertHoliday(ctx context.Context, h settings.Holiday) (settings.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	date, err := clock.ParseDate(h.Date)
	if err != nil {
		return settings.Holiday{}, err
	}

	query := `
		INSERT INTO holidays (date, name) VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := q.Exec(ctx, query, date, h.Name); err != nil {
		return settings.Holiday{}, fmt.Errorf("failed to upsert holiday: %w", err)
	}

	return h, nil
}

// DeleteHoliday implements settings.SettingsRepository.
func (r *settingsRepository) DeleteHoliday(ctx context.Context, date string) error {
	q := GetQuerier(ctx, r.db)

	day, err := clock.ParseDate(date)
	if err != nil {
		return err
	}

	commandTag, err := q.Exec(ctx, `DELETE FROM holidays WHERE date = $1`, day)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return settings.ErrHolidayNotFound
	}

	return nil
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}
