package nats

import (
	"testing"

	"ai-briefbuilder-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "briefs.brief_archived", Subject(events.BaseEvent{Type: events.BriefArchived}))
	assert.Equal(t, "briefs.brief_created", Subject(events.BaseEvent{Type: events.BriefCreated}))
}
