package hourbank

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/report"
)

// MaterialityThresholdMinutes is the largest absolute delta that is not recorded.
const MaterialityThresholdMinutes = 5

func (l Ledger) Balance() int {
	total := 0
	for _, tx := range l.Transactions {
		total += tx.DeltaMinutes
	}
	return total
}

// BalanceAt sums the transactions created at or before t.
func (l Ledger) BalanceAt(t time.Time) int {
	total := 0
	for _, tx := range l.Transactions {
		if !tx.CreatedAt.After(t) {
			total += tx.DeltaMinutes
		}
	}
	return total
}

func (l Ledger) HasDate(date string) bool {
	for _, tx := range l.Transactions {
		if tx.Date == date {
			return true
		}
	}
	return false
}

// Append returns a ledger with tx added. A second transaction for the same date is refused.
func (l Ledger) Append(tx Transaction) (Ledger, error) {
	if l.HasDate(tx.Date) {
		return l, fmt.Errorf("%w: %s", ErrDuplicateLedgerEntry, tx.Date)
	}
	next := Ledger{
		UserID:       l.UserID,
		Transactions: make([]Transaction, 0, len(l.Transactions)+1),
	}
	next.Transactions = append(next.Transactions, l.Transactions...)
	next.Transactions = append(next.Transactions, tx)
	return next, nil
}

// DayDelta is worked minus expected minutes. Expected is 0 on days off, so the whole
// worked time is credited.
func DayDelta(r report.DailyReport) int {
	return r.WorkedMinutes - r.ExpectedMinutes
}

func Describe(date string, delta int) string {
	if delta > 0 {
		return "Overtime - " + date
	}
	return "Hour deficit - " + date
}

// ComputeEffect derives the transaction a closed day produces. It returns nil when the
// delta is within the materiality threshold and ErrDayNotClosed when the day still has an
// open session or no completed one. ID and CreatedAt are left to the caller.
func ComputeEffect(r report.DailyReport) (*Transaction, error) {
	if !r.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrDayNotClosed, r.Date)
	}

	delta := DayDelta(r)
	if abs(delta) <= MaterialityThresholdMinutes {
		return nil, nil
	}

	return &Transaction{
		UserID:       r.UserID,
		Date:         r.Date,
		DeltaMinutes: delta,
		Description:  Describe(r.Date, delta),
	}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
