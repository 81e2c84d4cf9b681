package punch

import (
	"context"
)

// PunchRepository is the append-only punch log. List methods return punches ordered by
// timestamp, but callers still sort before replaying.
type PunchRepository interface {
	Create(ctx context.Context, p Punch) (Punch, error)

	// ListByUserAndDate returns the punches attributed to one local date
	ListByUserAndDate(ctx context.Context, userID string, date string) ([]Punch, error)

	// ListByUserAndRange returns punches with local_date in [startDate, endDate]
	ListByUserAndRange(ctx context.Context, userID string, startDate string, endDate string) ([]Punch, error)

	// ListUserIDsByDate returns the distinct users that punched on date
	ListUserIDsByDate(ctx context.Context, date string) ([]string, error)

	// LockUser runs fn while holding an exclusive per-user lock, so a read-validate-append
	// sequence for the same user cannot interleave with another one.
	LockUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error
}
