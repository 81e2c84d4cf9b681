package settings

import (
	"context"
)

type SettingsRepository interface {
	// GetWorkHours returns ErrMissingConfig when no row has been saved yet
	GetWorkHours(ctx context.Context) (WorkHours, error)
	SaveWorkHours(ctx context.Context, w WorkHours) (WorkHours, error)

	ListHolidays(ctx context.Context) ([]Holiday, error)
	// UpsertHoliday inserts a holiday or renames an existing one with the same date
	UpsertHoliday(ctx context.Context, h Holiday) (Holiday, error)
	DeleteHoliday(ctx context.Context, date string) error
}
