package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type hourBankRepository struct {
	db *database.DB
}

// Append implements hourbank.HourBankRepository.
func (r *hourBankRepository) Append(ctx context.Context, tx hourbank.Transaction) (hourbank.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	date, err := clock.ParseDate(tx.Date)
	if err != nil {
		return hourbank.Transaction{}, err
	}

	query := `
		INSERT INTO hour_bank_transactions (id, user_id, date, delta_minutes, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query, tx.ID, tx.UserID, date, tx.DeltaMinutes, tx.Description).Scan(&tx.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return hourbank.Transaction{}, hourbank.ErrDuplicateLedgerEntry
		}
		return hourbank.Transaction{}, fmt.Errorf("failed to append hour bank transaction: %w", err)
	}

	return tx, nil
}

// ListByUser implements hourbank.HourBankRepository.
func (r *hourBankRepository) ListByUser(ctx context.Context, userID string) ([]hourbank.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, delta_minutes, description, created_at
		FROM hour_bank_transactions
		WHERE user_id = $1
		ORDER BY created_at ASC, date ASC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hour bank transactions: %w", err)
	}
	defer rows.Close()

	var transactions []hourbank.Transaction
	for rows.Next() {
		var (
			t    hourbank.Transaction
			date time.Time
		)
		if err := rows.Scan(&t.ID, &t.UserID, &date, &t.DeltaMinutes, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hour bank transaction: %w", err)
		}
		t.Date = clock.FormatDate(date)
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hour bank transactions: %w", err)
	}

	return transactions, nil
}

// ExistsForDate implements hourbank.HourBankRepository.
func (r *hourBankRepository) ExistsForDate(ctx context.Context, userID string, date string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	day, err := clock.ParseDate(date)
	if err != nil {
		return false, err
	}

	var exists bool
	err = q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM hour_bank_transactions WHERE user_id = $1 AND date = $2)`,
		userID, day,
	).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("failed to check hour bank transaction: %w", err)
	}

	return exists, nil
}

func NewHourBankRepository(db *database.DB) hourbank.HourBankRepository {
	return &hourBankRepository{db: db}
}
