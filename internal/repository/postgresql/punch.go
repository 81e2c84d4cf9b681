package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepository struct {
	db *database.DB
}

const punchColumns = `id, user_id, kind, timestamp_utc, local_date, local_time, created_at`

// Create implements punch.PunchRepository.
func (r *punchRepository) Create(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	localDate, err := clock.ParseDate(p.LocalDate)
	if err != nil {
		return punch.Punch{}, err
	}

	query := `
		INSERT INTO punches (id, user_id, kind, timestamp_utc, local_date, local_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		p.ID,
		p.UserID,
		string(p.Kind),
		p.TimestampUTC.UTC(),
		localDate,
		p.LocalTime,
	).Scan(&p.CreatedAt)
	if err != nil {
		return punch.Punch{}, fmt.Errorf("failed to create punch: %w", err)
	}

	return p, nil
}

// ListByUserAndDate implements punch.PunchRepository.
func (r *punchRepository) ListByUserAndDate(ctx context.Context, userID string, date string) ([]punch.Punch, error) {
	return r.ListByUserAndRange(ctx, userID, date, date)
}

// ListByUserAndRange implements punch.PunchRepository.
func (r *punchRepository) ListByUserAndRange(ctx context.Context, userID string, startDate string, endDate string) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	start, err := clock.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := clock.ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + punchColumns + `
		FROM punches
		WHERE user_id = $1
		  AND local_date BETWEEN $2 AND $3
		ORDER BY timestamp_utc ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var punches []punch.Punch
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		punches = append(punches, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating punches: %w", err)
	}

	return punches, nil
}

// ListUserIDsByDate implements punch.PunchRepository.
func (r *punchRepository) ListUserIDsByDate(ctx context.Context, date string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	day, err := clock.ParseDate(date)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT DISTINCT user_id FROM punches WHERE local_date = $1 ORDER BY user_id`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by date: %w", err)
	}

	userIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan user ids: %w", err)
	}

	return userIDs, nil
}

// LockUser implements punch.PunchRepository.
func (r *punchRepository) LockUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	return withUserLock(ctx, r.db, userID, fn)
}

func scanPunch(row pgx.Row) (punch.Punch, error) {
	var (
		p         punch.Punch
		kind      string
		localDate time.Time
	)
	if err := row.Scan(&p.ID, &p.UserID, &kind, &p.TimestampUTC, &localDate, &p.LocalTime, &p.CreatedAt); err != nil {
		return punch.Punch{}, fmt.Errorf("failed to scan punch: %w", err)
	}
	p.Kind = punch.Kind(kind)
	p.LocalDate = clock.FormatDate(localDate)
	p.TimestampUTC = p.TimestampUTC.UTC()
	return p, nil
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepository{db: db}
}
