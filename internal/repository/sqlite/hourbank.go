package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/database"
)

type hourBankRepository struct {
	db *database.SQLiteDB
}

// Append implements hourbank.HourBankRepository.
func (r *hourBankRepository) Append(ctx context.Context, tx hourbank.Transaction) (hourbank.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO hour_bank_transactions (id, user_id, date, delta_minutes, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		tx.ID, tx.UserID, tx.Date, tx.DeltaMinutes, tx.Description, formatTimestamp(tx.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return hourbank.Transaction{}, hourbank.ErrDuplicateLedgerEntry
		}
		return hourbank.Transaction{}, fmt.Errorf("failed to append hour bank transaction: %w", err)
	}

	tx.CreatedAt = tx.CreatedAt.UTC()
	return tx, nil
}

// ListByUser implements hourbank.HourBankRepository.
func (r *hourBankRepository) ListByUser(ctx context.Context, userID string) ([]hourbank.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, delta_minutes, description, created_at
		FROM hour_bank_transactions
		WHERE user_id = ?
		ORDER BY created_at ASC, date ASC
	`

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hour bank transactions: %w", err)
	}
	defer rows.Close()

	var transactions []hourbank.Transaction
	for rows.Next() {
		var (
			t       hourbank.Transaction
			created string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Date, &t.DeltaMinutes, &t.Description, &created); err != nil {
			return nil, fmt.Errorf("failed to scan hour bank transaction: %w", err)
		}
		if t.CreatedAt, err = parseTimestamp(created); err != nil {
			return nil, err
		}
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

	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM hour_bank_transactions WHERE user_id = ? AND date = ?)`,
		userID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check hour bank transaction: %w", err)
	}

	return exists, nil
}

func NewHourBankRepository(db *database.SQLiteDB) hourbank.HourBankRepository {
	return &hourBankRepository{db: db}
}
