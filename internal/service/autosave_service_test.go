package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ai-briefbuilder-be/internal/dto"
	"ai-briefbuilder-be/internal/entity"
	"ai-briefbuilder-be/internal/pkg/logger"
	"ai-briefbuilder-be/pkg/savestatus"
	"ai-briefbuilder-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDraftBrief(t *testing.T, factory *fakeRepositoryFactory) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, factory.briefs.Create(context.Background(), &entity.Brief{
		Id:          id,
		AuthorId:    uuid.New(),
		Title:       "Draft",
		Status:      string(store.StatusDraft),
		CurrentStep: store.StepResearch.String(),
	}))
	return id
}

func TestInlineAutosaveMarksSaved(t *testing.T) {
	factory := newFakeRepositoryFactory()
	tracker := savestatus.NewMemoryTracker(time.Hour)
	queue := NewInlineAutosaveQueue(factory, tracker, logger.NewNopLogger())
	ctx := context.Background()
	id := seedDraftBrief(t, factory)

	title := "Renamed"
	require.NoError(t, queue.Enqueue(ctx, id, entity.BriefPatch{Title: &title}))

	assert.Equal(t, "Renamed", factory.briefs.get(id).Title)
	status, err := tracker.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, status.LastSavedAt)
	assert.Zero(t, status.FailuresSinceSave)
}

func TestInlineAutosaveFailureIsRecordedNotReturned(t *testing.T) {
	factory := newFakeRepositoryFactory()
	factory.briefs.updateErr = errors.New("connection reset")
	tracker := savestatus.NewMemoryTracker(time.Hour)
	queue := NewInlineAutosaveQueue(factory, tracker, logger.NewNopLogger())
	ctx := context.Background()
	id := seedDraftBrief(t, factory)

	step := store.StepInsights.String()
	require.NoError(t, queue.Enqueue(ctx, id, entity.BriefPatch{CurrentStep: &step}))

	status, err := tracker.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, status.LastSavedAt)
	assert.Equal(t, 1, status.FailuresSinceSave)
	assert.Contains(t, status.LastError, "connection reset")
}

func TestAutosaveQueueRoundTripsThroughConsumer(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	factory := newFakeRepositoryFactory()
	tracker := savestatus.NewMemoryTracker(time.Hour)
	log := logger.NewNopLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewAutosaveConsumerService(pubSub, "brief.autosave", factory, tracker, log)
	require.NoError(t, consumer.Consume(ctx))

	queue := NewAutosaveQueue(NewPublisherService("brief.autosave", pubSub))
	id := seedDraftBrief(t, factory)
	selected := 2
	require.NoError(t, queue.Enqueue(ctx, id, entity.BriefPatch{
		Insights:          &[]store.Insight{{ID: 1, Headline: "One"}, {ID: 2, Headline: "Two"}},
		SelectedInsightId: &selected,
	}))

	assert.Eventually(t, func() bool {
		b := factory.briefs.get(id)
		return b.SelectedInsightId != nil && *b.SelectedInsightId == 2 && len(b.Insights) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		status, err := tracker.Get(ctx, id)
		return err == nil && status.LastSavedAt != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAutosaveConsumerSkipsEmptyPatches(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	factory := newFakeRepositoryFactory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewAutosaveConsumerService(pubSub, "brief.autosave", factory, savestatus.NewMemoryTracker(time.Hour), logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("brief.autosave", pubSub)
	id := seedDraftBrief(t, factory)

	empty, err := json.Marshal(dto.AutosaveMessage{BriefId: id})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, empty))
	require.NoError(t, publisher.Publish(ctx, []byte("not json")))

	title := "Last"
	require.NoError(t, NewAutosaveQueue(publisher).Enqueue(ctx, id, entity.BriefPatch{Title: &title}))

	assert.Eventually(t, func() bool {
		return factory.briefs.get(id).Title == "Last"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, factory.briefs.writes(), "only the non-empty patch reaches the repository")
}
