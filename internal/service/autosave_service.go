package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-briefbuilder-be/internal/dto"
	"ai-briefbuilder-be/internal/entity"
	"ai-briefbuilder-be/internal/pkg/logger"
	"ai-briefbuilder-be/internal/repository/contract"
	"ai-briefbuilder-be/internal/repository/unitofwork"
	"ai-briefbuilder-be/pkg/savestatus"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const autosaveModule = "AutosaveService"

// IAutosaveQueue hands a partial brief update off for best-effort writing.
type IAutosaveQueue interface {
	Enqueue(ctx context.Context, briefId uuid.UUID, patch entity.BriefPatch) error
}

// autosaveWriter applies one patch and records the outcome for the "last saved" indicator.
// Failures are logged and recorded, never returned to the editing flow.
type autosaveWriter struct {
	uowFactory unitofwork.RepositoryFactory
	saveStatus savestatus.Tracker
	logger     logger.ILogger
}

func (w *autosaveWriter) apply(ctx context.Context, briefId uuid.UUID, patch entity.BriefPatch) {
	uow := w.uowFactory.NewUnitOfWork(ctx)
	err := uow.BriefRepository().Update(ctx, briefId, patch)
	now := time.Now()

	if errors.Is(err, contract.ErrBriefArchived) {
		w.logger.Info(autosaveModule, "Autosave dropped for archived brief", map[string]interface{}{
			"brief_id": briefId.String(),
			"fields":   patch.Fields(),
		})
		return
	}
	if err != nil {
		w.logger.Warn(autosaveModule, "Autosave failed", map[string]interface{}{
			"brief_id": briefId.String(),
			"fields":   patch.Fields(),
			"error":    err.Error(),
		})
		if markErr := w.saveStatus.MarkFailed(ctx, briefId, now, err); markErr != nil {
			w.logger.Warn(autosaveModule, "Failed to record autosave failure", map[string]interface{}{"error": markErr.Error()})
		}
		return
	}

	if markErr := w.saveStatus.MarkSaved(ctx, briefId, now); markErr != nil {
		w.logger.Warn(autosaveModule, "Failed to record autosave", map[string]interface{}{"error": markErr.Error()})
	}
	w.logger.Debug(autosaveModule, "Brief autosaved", map[string]interface{}{
		"brief_id": briefId.String(),
		"fields":   patch.Fields(),
	})
}

type inlineAutosaveQueue struct {
	writer *autosaveWriter
}

// NewInlineAutosaveQueue writes synchronously on the caller's goroutine.
func NewInlineAutosaveQueue(
	uowFactory unitofwork.RepositoryFactory,
	saveStatus savestatus.Tracker,
	logger logger.ILogger,
) IAutosaveQueue {
	return &inlineAutosaveQueue{
		writer: &autosaveWriter{uowFactory: uowFactory, saveStatus: saveStatus, logger: logger},
	}
}

func (q *inlineAutosaveQueue) Enqueue(ctx context.Context, briefId uuid.UUID, patch entity.BriefPatch) error {
	q.writer.apply(ctx, briefId, patch)
	return nil
}

type autosaveQueue struct {
	publisherService IPublisherService
}

// NewAutosaveQueue publishes every patch as a JSON message; AutosaveConsumerService writes it.
func NewAutosaveQueue(publisherService IPublisherService) IAutosaveQueue {
	return &autosaveQueue{
		publisherService: publisherService,
	}
}

func (q *autosaveQueue) Enqueue(ctx context.Context, briefId uuid.UUID, patch entity.BriefPatch) error {
	msgJson, err := json.Marshal(dto.AutosaveMessage{
		BriefId:  briefId,
		Patch:    patch,
		IssuedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	// The request context ends with the HTTP call; the write must outlive it.
	return q.publisherService.Publish(context.WithoutCancel(ctx), msgJson)
}

type IAutosaveConsumerService interface {
	Consume(ctx context.Context) error
}

type autosaveConsumerService struct {
	subscriber message.Subscriber
	topicName  string
	writer     *autosaveWriter
	logger     logger.ILogger
}

func NewAutosaveConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	saveStatus savestatus.Tracker,
	logger logger.ILogger,
) IAutosaveConsumerService {
	return &autosaveConsumerService{
		subscriber: subscriber,
		topicName:  topicName,
		writer:     &autosaveWriter{uowFactory: uowFactory, saveStatus: saveStatus, logger: logger},
		logger:     logger,
	}
}

func (cs *autosaveConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	cs.logger.Info(autosaveModule, "Autosave consumer started", map[string]interface{}{"topic": cs.topicName})
	return nil
}

// processMessage always acks: autosave is never retried automatically.
func (cs *autosaveConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.AutosaveMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(autosaveModule, "Failed to unmarshal autosave message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}
	if payload.BriefId == uuid.Nil || payload.Patch.IsEmpty() {
		return
	}

	cs.writer.apply(ctx, payload.BriefId, payload.Patch)
}
