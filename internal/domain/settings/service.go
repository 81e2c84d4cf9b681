package settings

import (
	"context"
	"io"
)

// ConfigProvider supplies the configuration the engine evaluates against.
type ConfigProvider interface {
	GetConfig(ctx context.Context) (WorkHoursConfig, error)
}

type SettingsService interface {
	ConfigProvider

	GetWorkHours(ctx context.Context) (WorkHoursResponse, error)
	UpdateWorkHours(ctx context.Context, req UpdateWorkHoursRequest) (WorkHoursResponse, error)

	ListHolidays(ctx context.Context) ([]HolidayResponse, error)
	AddHoliday(ctx context.Context, req AddHolidayRequest) (HolidayResponse, error)
	DeleteHoliday(ctx context.Context, date string) error

	// ImportHolidays reads a YAML calendar and upserts every entry, returning how many were stored
	ImportHolidays(ctx context.Context, r io.Reader) (int, error)

	// SeedDefaults writes DefaultWorkHours when the store is empty and reports whether it did
	SeedDefaults(ctx context.Context) (bool, error)
}
