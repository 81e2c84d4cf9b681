package hourbank

import "errors"

var (
	ErrDuplicateLedgerEntry = errors.New("hour bank already has a transaction for this date")
	ErrDayNotClosed         = errors.New("day is not closed, entry and exit are required")
	ErrFutureDate           = errors.New("cannot close a day in the future")
	ErrDayStillOpen         = errors.New("cannot close the current day before it ends")
)
