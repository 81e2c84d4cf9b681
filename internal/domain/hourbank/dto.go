package hourbank

import (
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CloseDayRequest struct {
	Date string `json:"date"`
}

func (r *CloseDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TransactionResponse struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	DeltaMinutes int             `json:"delta_minutes"`
	Delta        string          `json:"delta"`
	DeltaHours   decimal.Decimal `json:"delta_hours"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

func ToTransactionResponse(tx Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID,
		Date:         tx.Date,
		DeltaMinutes: tx.DeltaMinutes,
		Delta:        clock.MinutesToTime(tx.DeltaMinutes),
		DeltaHours:   clock.MinutesToHours(tx.DeltaMinutes),
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt,
	}
}

type LedgerResponse struct {
	UserID         string                `json:"user_id"`
	BalanceMinutes int                   `json:"balance_minutes"`
	Balance        string                `json:"balance"`
	BalanceHours   decimal.Decimal       `json:"balance_hours"`
	Transactions   []TransactionResponse `json:"transactions"`
}

func ToLedgerResponse(l Ledger) LedgerResponse {
	txs := make([]TransactionResponse, 0, len(l.Transactions))
	for _, tx := range l.Transactions {
		txs = append(txs, ToTransactionResponse(tx))
	}
	balance := l.Balance()
	return LedgerResponse{
		UserID:         l.UserID,
		BalanceMinutes: balance,
		Balance:        clock.MinutesToTime(balance),
		BalanceHours:   clock.MinutesToHours(balance),
		Transactions:   txs,
	}
}

type PreviewResponse struct {
	UserID        string               `json:"user_id"`
	Date          string               `json:"date"`
	Closed        bool                 `json:"closed"`
	AlreadyClosed bool                 `json:"already_closed"`
	DeltaMinutes  int                  `json:"delta_minutes"`
	Transaction   *TransactionResponse `json:"transaction"`
}

// CloseSummary reports a batch close of one date across users.
type CloseSummary struct {
	Date       string   `json:"date"`
	Recorded   int      `json:"recorded"`
	Immaterial int      `json:"immaterial"`
	Duplicates int      `json:"duplicates"`
	OpenUsers  []string `json:"open_users"`
	Failed     int      `json:"failed"`
}
