package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/database"
)

type punchRepository struct {
	db    *database.SQLiteDB
	locks *userLocks
}

// Create implements punch.PunchRepository.
func (r *punchRepository) Create(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO punches (id, user_id, kind, timestamp_utc, local_date, local_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		string(p.Kind),
		formatTimestamp(p.TimestampUTC),
		p.LocalDate,
		p.LocalTime,
		formatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return punch.Punch{}, fmt.Errorf("failed to create punch: %w", err)
	}

	p.TimestampUTC = p.TimestampUTC.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// ListByUserAndDate implements punch.PunchRepository.
func (r *punchRepository) ListByUserAndDate(ctx context.Context, userID string, date string) ([]punch.Punch, error) {
	return r.ListByUserAndRange(ctx, userID, date, date)
}

// ListByUserAndRange implements punch.PunchRepository.
func (r *punchRepository) ListByUserAndRange(ctx context.Context, userID string, startDate string, endDate string) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, kind, timestamp_utc, local_date, local_time, created_at
		FROM punches
		WHERE user_id = ?
		  AND local_date BETWEEN ? AND ?
		ORDER BY timestamp_utc ASC, created_at ASC
	`

	rows, err := q.QueryContext(ctx, query, userID, startDate, endDate)
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

	rows, err := q.QueryContext(ctx, `SELECT DISTINCT user_id FROM punches WHERE local_date = ? ORDER BY user_id`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by date: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user ids: %w", err)
	}

	return userIDs, nil
}

// LockUser implements punch.PunchRepository. The in-process mutex serialises a user's
// writers and the transaction makes the read-validate-append step atomic.
func (r *punchRepository) LockUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	unlock := r.locks.lock(userID)
	defer unlock()

	return WithTransaction(ctx, r.db, fn)
}

func scanPunch(rows *sql.Rows) (punch.Punch, error) {
	var (
		p                  punch.Punch
		kind               string
		timestamp, created string
	)
	if err := rows.Scan(&p.ID, &p.UserID, &kind, &timestamp, &p.LocalDate, &p.LocalTime, &created); err != nil {
		return punch.Punch{}, fmt.Errorf("failed to scan punch: %w", err)
	}

	var err error
	if p.TimestampUTC, err = parseTimestamp(timestamp); err != nil {
		return punch.Punch{}, err
	}
	if p.CreatedAt, err = parseTimestamp(created); err != nil {
		return punch.Punch{}, err
	}
	p.Kind = punch.Kind(kind)

	return p, nil
}

func NewPunchRepository(db *database.SQLiteDB) punch.PunchRepository {
	return &punchRepository{db: db, locks: newUserLocks()}
}
