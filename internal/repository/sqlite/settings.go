package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.SQLiteDB
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
		workDays string
		earliest sql.NullString
		updated  string
	)
	err := q.QueryRowContext(ctx, query).Scan(
		&workDays, &w.StartTime, &w.EndTime, &w.LunchBreakMinutes,
		&w.DailyExpectedMinutes, &w.WeeklyExpectedMinutes, &w.ToleranceMinutes,
		&w.MaxDailyMinutes, &w.MaxWeeklyMinutes, &earliest, &w.Timezone, &updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings.WorkHours{}, settings.ErrMissingConfig
		}
		return settings.WorkHours{}, fmt.Errorf("failed to get work hours: %w", err)
	}

	if w.WorkDays, err = decodeWorkDays(workDays); err != nil {
		return settings.WorkHours{}, err
	}
	if earliest.Valid {
		w.EarliestEntry = &earliest.String
	}
	if w.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return settings.WorkHours{}, err
	}

	return w, nil
}

// SaveWorkHours implements settings.SettingsRepository.
func (r *settingsRepository) SaveWorkHours(ctx context.Context, w settings.WorkHours) (settings.WorkHours, error) {
	q := GetQuerier(ctx, r.db)

	w.UpdatedAt = time.Now().UTC()

	var earliest sql.NullString
	if w.EarliestEntry != nil {
		earliest = sql.NullString{String: *w.EarliestEntry, Valid: true}
	}

	query := `
		INSERT INTO work_hours_settings (
			id, work_days, start_time, end_time, lunch_break_minutes,
			daily_expected_minutes, weekly_expected_minutes, tolerance_minutes,
			max_daily_minutes, max_weekly_minutes, earliest_entry, timezone, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			work_days = excluded.work_days,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			lunch_break_minutes = excluded.lunch_break_minutes,
			daily_expected_minutes = excluded.daily_expected_minutes,
			weekly_expected_minutes = excluded.weekly_expected_minutes,
			tolerance_minutes = excluded.tolerance_minutes,
			max_daily_minutes = excluded.max_daily_minutes,
			max_weekly_minutes = excluded.max_weekly_minutes,
			earliest_entry = excluded.earliest_entry,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at
	`

	_, err := q.ExecContext(ctx, query,
		encodeWorkDays(w.WorkDays), w.StartTime, w.EndTime, w.LunchBreakMinutes,
		w.DailyExpectedMinutes, w.WeeklyExpectedMinutes, w.ToleranceMinutes,
		w.MaxDailyMinutes, w.MaxWeeklyMinutes, earliest, w.Timezone, formatTimestamp(w.UpdatedAt),
	)
	if err != nil {
		return settings.WorkHours{}, fmt.Errorf("failed to save work hours: %w", err)
	}

	return w, nil
}

// ListHolidays implements settings.SettingsRepository.
func (r *settingsRepository) ListHolidays(ctx context.Context) ([]settings.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `SELECT date, name FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []settings.Holiday
	for rows.Next() {
		var h settings.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
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

	query := `
		INSERT INTO holidays (date, name) VALUES (?, ?)
		ON CONFLICT (date) DO UPDATE SET name = excluded.name
	`
	if _, err := q.ExecContext(ctx, query, h.Date, h.Name); err != nil {
		return settings.Holiday{}, fmt.Errorf("failed to upsert holiday: %w", err)
	}

	return h, nil
}

// DeleteHoliday implements settings.SettingsRepository.
func (r *settingsRepository) DeleteHoliday(ctx context.Context, date string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.ExecContext(ctx, `DELETE FROM holidays WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if affected == 0 {
		return settings.ErrHolidayNotFound
	}

	return nil
}

// work_days is stored as comma separated weekday numbers, Sunday = 0
func encodeWorkDays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

func decodeWorkDays(s string) ([]time.Weekday, error) {
	days := []time.Weekday{}
	if s == "" {
		return days, nil
	}
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("%w: bad work_days value %q", settings.ErrInvalidConfig, s)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

func NewSettingsRepository(db *database.SQLiteDB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}
