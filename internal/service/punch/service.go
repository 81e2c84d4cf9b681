package punch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/metrics"
	"github.com/google/uuid"
)

type PunchServiceImpl struct {
	punch.PunchRepository
	config    settings.ConfigProvider
	publisher events.Publisher
	metrics   *metrics.Metrics
}

func NewPunchService(
	punchRepo punch.PunchRepository,
	config settings.ConfigProvider,
	publisher events.Publisher,
	m *metrics.Metrics,
) punch.PunchService {
	return &PunchServiceImpl{
		PunchRepository: punchRepo,
		config:          config,
		publisher:       publisher,
		metrics:         m,
	}
}

// localNow resolves the calendar date and time of day of now in the configured zone.
func localNow(cfg settings.WorkHoursConfig, now time.Time) (time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	return now.In(loc), nil
}

// EvaluatePunch implements punch.PunchService.
func (s *PunchServiceImpl) EvaluatePunch(ctx context.Context, userID string, kind punch.Kind, now time.Time) (punch.Punch, error) {
	if !kind.IsValid() {
		return punch.Punch{}, fmt.Errorf("%w: %q", punch.ErrInvalidKind, kind)
	}

	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		return punch.Punch{}, err
	}
	local, err := localNow(cfg, now)
	if err != nil {
		return punch.Punch{}, err
	}
	localDate := clock.FormatDate(local)
	localTime := local.Format("15:04")

	if kind == punch.KindEntry && cfg.EarliestEntry != nil && cfg.IsWorkDay(clock.DateOf(local)) {
		earliest, err := clock.TimeToMinutes(*cfg.EarliestEntry)
		if err != nil {
			return punch.Punch{}, fmt.Errorf("%w: earliest_entry: %v", settings.ErrInvalidConfig, err)
		}
		if local.Hour()*60+local.Minute() < earliest {
			s.metrics.PunchRecorded(string(kind), "rejected")
			return punch.Punch{}, fmt.Errorf("%w: entries open at %s", punch.ErrTooEarly, *cfg.EarliestEntry)
		}
	}

	var created punch.Punch
	err = s.PunchRepository.LockUser(ctx, userID, func(ctx context.Context) error {
		existing, err := s.PunchRepository.ListByUserAndDate(ctx, userID, localDate)
		if err != nil {
			return fmt.Errorf("failed to load punches: %w", err)
		}

		if _, err := punch.Validate(existing, kind); err != nil {
			return err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate punch id: %w", err)
		}

		created, err = s.PunchRepository.Create(ctx, punch.Punch{
			ID:           id.String(),
			UserID:       userID,
			Kind:         kind,
			TimestampUTC: now.UTC(),
			LocalDate:    localDate,
			LocalTime:    localTime,
			CreatedAt:    now.UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to save punch: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, punch.ErrIllegalPunch) {
			s.metrics.PunchRecorded(string(kind), "rejected")
			slog.Info("Punch rejected", "user_id", userID, "kind", kind, "date", localDate, "reason", err.Error())
		} else {
			s.metrics.PunchRecorded(string(kind), "error")
			slog.Error("Failed to record punch", "user_id", userID, "kind", kind, "error", err)
		}
		return punch.Punch{}, err
	}

	s.metrics.PunchRecorded(string(kind), "accepted")
	slog.Info("Punch recorded", "user_id", userID, "kind", kind, "date", localDate, "time", localTime)

	event := events.Event{
		Type:       events.TypePunchRecorded,
		Key:        userID,
		OccurredAt: created.TimestampUTC,
		Payload:    punch.ToResponse(created),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Error("Failed to publish punch event", "user_id", userID, "punch_id", created.ID, "error", err)
	}

	return created, nil
}

// Status implements punch.PunchService.
func (s *PunchServiceImpl) Status(ctx context.Context, userID string, now time.Time) (punch.StatusResponse, error) {
	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		return punch.StatusResponse{}, err
	}
	local, err := localNow(cfg, now)
	if err != nil {
		return punch.StatusResponse{}, err
	}
	localDate := clock.FormatDate(local)

	existing, err := s.PunchRepository.ListByUserAndDate(ctx, userID, localDate)
	if err != nil {
		return punch.StatusResponse{}, fmt.Errorf("failed to load punches: %w", err)
	}

	timeline := punch.Replay(existing)
	resp := punch.StatusResponse{
		UserID:       userID,
		Date:         localDate,
		State:        timeline.State,
		AllowedKinds: punch.AllowedKinds(existing),
		Punches:      make([]punch.PunchResponse, 0, len(timeline.Accepted)),
	}
	for _, p := range timeline.Accepted {
		resp.Punches = append(resp.Punches, punch.ToResponse(p))
	}
	return resp, nil
}
