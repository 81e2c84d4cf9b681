package hourbank

import (
	"context"
)

type HourBankService interface {
	GetLedger(ctx context.Context, userID string) (LedgerResponse, error)

	// PreviewDay computes the transaction closing date would produce without storing it
	PreviewDay(ctx context.Context, userID string, date string) (PreviewResponse, error)

	// CloseDay appends the day's transaction. Only days before today can be closed. It returns
	// nil when the delta is immaterial and ErrDuplicateLedgerEntry when the day was already closed.
	CloseDay(ctx context.Context, userID string, date string) (*Transaction, error)

	// CloseDayForAll closes date for every user that punched on it
	CloseDayForAll(ctx context.Context, date string) (CloseSummary, error)
}
