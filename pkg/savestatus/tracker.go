package savestatus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the "last saved" indicator of one brief.
type Status struct {
	LastSavedAt       *time.Time `json:"last_saved_at,omitempty"`
	LastFailureAt     *time.Time `json:"last_failure_at,omitempty"`
	LastError         string     `json:"last_error,omitempty"`
	FailuresSinceSave int        `json:"failures_since_save"`
}

// Stale is true when writes have failed since the last good save.
func (s Status) Stale() bool {
	return s.FailuresSinceSave > 0
}

type Tracker interface {
	MarkSaved(ctx context.Context, briefID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, briefID uuid.UUID, at time.Time, cause error) error
	Get(ctx context.Context, briefID uuid.UUID) (Status, error)
}
