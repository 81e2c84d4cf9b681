package settings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/validator"
	"gopkg.in/yaml.v3"
)

type SettingsServiceImpl struct {
	settings.SettingsRepository
}

func NewSettingsService(settingsRepo settings.SettingsRepository) settings.SettingsService {
	return &SettingsServiceImpl{SettingsRepository: settingsRepo}
}

// GetConfig implements settings.ConfigProvider. A missing or unusable row fails the call;
// no default is substituted.
func (s *SettingsServiceImpl) GetConfig(ctx context.Context) (settings.WorkHoursConfig, error) {
	w, err := s.SettingsRepository.GetWorkHours(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrMissingConfig) {
			return settings.WorkHoursConfig{}, err
		}
		return settings.WorkHoursConfig{}, fmt.Errorf("%w: %v", settings.ErrMissingConfig, err)
	}
	if err := w.Validate(); err != nil {
		return settings.WorkHoursConfig{}, fmt.Errorf("%w: %v", settings.ErrInvalidConfig, err)
	}

	holidays, err := s.SettingsRepository.ListHolidays(ctx)
	if err != nil {
		return settings.WorkHoursConfig{}, fmt.Errorf("%w: failed to load holidays: %v", settings.ErrMissingConfig, err)
	}

	return settings.NewWorkHoursConfig(w, holidays), nil
}

// GetWorkHours implements settings.SettingsService.
func (s *SettingsServiceImpl) GetWorkHours(ctx context.Context) (settings.WorkHoursResponse, error) {
	w, err := s.SettingsRepository.GetWorkHours(ctx)
	if err != nil {
		return settings.WorkHoursResponse{}, err
	}
	return settings.ToWorkHoursResponse(w), nil
}

// UpdateWorkHours implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateWorkHours(ctx context.Context, req settings.UpdateWorkHoursRequest) (settings.WorkHoursResponse, error) {
	w, err := req.ToWorkHours()
	if err != nil {
		return settings.WorkHoursResponse{}, err
	}

	saved, err := s.SettingsRepository.SaveWorkHours(ctx, w)
	if err != nil {
		return settings.WorkHoursResponse{}, fmt.Errorf("failed to save work hours: %w", err)
	}

	slog.Info("Work hours updated", "start_time", saved.StartTime, "end_time", saved.EndTime, "timezone", saved.Timezone)
	return settings.ToWorkHoursResponse(saved), nil
}

// ListHolidays implements settings.SettingsService.
func (s *SettingsServiceImpl) ListHolidays(ctx context.Context) ([]settings.HolidayResponse, error) {
	holidays, err := s.SettingsRepository.ListHolidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	resp := make([]settings.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		resp = append(resp, settings.HolidayResponse{Date: h.Date, Name: h.Name})
	}
	return resp, nil
}

// AddHoliday implements settings.SettingsService.
func (s *SettingsServiceImpl) AddHoliday(ctx context.Context, req settings.AddHolidayRequest) (settings.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.HolidayResponse{}, err
	}

	h, err := s.SettingsRepository.UpsertHoliday(ctx, settings.Holiday{Date: req.Date, Name: req.Name})
	if err != nil {
		return settings.HolidayResponse{}, fmt.Errorf("failed to save holiday: %w", err)
	}
	return settings.HolidayResponse{Date: h.Date, Name: h.Name}, nil
}

// DeleteHoliday implements settings.SettingsService.
func (s *SettingsServiceImpl) DeleteHoliday(ctx context.Context, date string) error {
	if _, ok := validator.IsValidDate(date); !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return s.SettingsRepository.DeleteHoliday(ctx, date)
}

// ImportHolidays implements settings.SettingsService. The whole file is validated before
// anything is written.
func (s *SettingsServiceImpl) ImportHolidays(ctx context.Context, r io.Reader) (int, error) {
	var file settings.HolidayFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: empty file", settings.ErrInvalidHolidayFile)
		}
		return 0, fmt.Errorf("%w: %v", settings.ErrInvalidHolidayFile, err)
	}

	var errs validator.ValidationErrors
	for i, h := range file.Holidays {
		if err := h.Validate(); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, v := range verrs {
					errs = append(errs, validator.ValidationError{
						Field:   fmt.Sprintf("holidays[%d].%s", i, v.Field),
						Message: v.Message,
					})
				}
			}
		}
	}
	if len(errs) > 0 {
		return 0, errs
	}

	for _, h := range file.Holidays {
		if _, err := s.SettingsRepository.UpsertHoliday(ctx, settings.Holiday{Date: h.Date, Name: h.Name}); err != nil {
			return 0, fmt.Errorf("failed to import holiday %s: %w", h.Date, err)
		}
	}

	slog.Info("Holidays imported", "count", len(file.Holidays))
	return len(file.Holidays), nil
}

// SeedDefaults implements settings.SettingsService.
func (s *SettingsServiceImpl) SeedDefaults(ctx context.Context) (bool, error) {
	_, err := s.SettingsRepository.GetWorkHours(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, settings.ErrMissingConfig) {
		return false, fmt.Errorf("failed to read work hours: %w", err)
	}

	if _, err := s.SettingsRepository.SaveWorkHours(ctx, settings.DefaultWorkHours()); err != nil {
		return false, fmt.Errorf("failed to seed work hours: %w", err)
	}
	slog.Info("Seeded default work hours")
	return true, nil
}
