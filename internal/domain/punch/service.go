package punch

import (
	"context"
	"time"
)

type PunchService interface {
	// EvaluatePunch validates kind against the user's punches of the local day of now and
	// appends it when legal
	EvaluatePunch(ctx context.Context, userID string, kind Kind, now time.Time) (Punch, error)

	// Status returns the current state and the punch kinds accepted right now
	Status(ctx context.Context, userID string, now time.Time) (StatusResponse, error)
}
