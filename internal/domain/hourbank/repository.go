package hourbank

import (
	"context"
)

type HourBankRepository interface {
	// Append stores tx. It returns ErrDuplicateLedgerEntry when the user already has a
	// transaction for tx.Date.
	Append(ctx context.Context, tx Transaction) (Transaction, error)

	// ListByUser returns the user's transactions ordered by creation
	ListByUser(ctx context.Context, userID string) ([]Transaction, error)

	ExistsForDate(ctx context.Context, userID string, date string) (bool, error)
}
