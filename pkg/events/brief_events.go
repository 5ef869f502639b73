package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	BriefCreated    = "BRIEF_CREATED"
	BriefCompleted  = "BRIEF_COMPLETED"
	BriefArchived   = "BRIEF_ARCHIVED"
	BriefDuplicated = "BRIEF_DUPLICATED"
)

// NewBriefEvent builds a lifecycle event. extra keys override the defaults.
func NewBriefEvent(eventType string, briefID, authorID uuid.UUID, extra map[string]interface{}) BaseEvent {
	now := time.Now()
	data := map[string]interface{}{
		"brief_id":    briefID.String(),
		"author_id":   authorID.String(),
		"entity_type": "brief",
		"entity_id":   briefID.String(),
		"occurred_at": now,
	}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: now,
	}
}
