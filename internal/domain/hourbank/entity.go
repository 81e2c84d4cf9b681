package hourbank

import (
	"time"
)

// Transaction is an immutable ledger entry. Date is the closed day it accounts for and is
// unique per user.
type Transaction struct {
	ID           string
	UserID       string
	Date         string
	DeltaMinutes int
	Description  string
	CreatedAt    time.Time
}

// Ledger is a user's transactions in append order. The balance is always the sum of the
// transactions and is never stored.
type Ledger struct {
	UserID       string
	Transactions []Transaction
}
