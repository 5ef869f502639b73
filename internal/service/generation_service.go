package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-briefbuilder-be/internal/pkg/apperror"
	"ai-briefbuilder-be/internal/pkg/logger"
	"ai-briefbuilder-be/pkg/generation"
	"ai-briefbuilder-be/pkg/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const generationModule = "GenerationService"

var ErrGenerationTimeout = errors.New("generation did not finish in time")

type IGenerationService interface {
	ExtractInsights(ctx context.Context, rawText string) ([]store.Insight, error)
	SynthesizeStrategy(ctx context.Context, rawText string, insight store.Insight) (*store.Strategy, error)
	GenerateFinalDocument(ctx context.Context, in generation.FinalDocumentInput) (*store.FinalDocument, error)
}

type generationService struct {
	generator *generation.Generator
	timeout   time.Duration
	tracer    trace.Tracer
	logger    logger.ILogger
}

func NewGenerationService(generator *generation.Generator, timeout time.Duration, logger logger.ILogger) IGenerationService {
	return &generationService{
		generator: generator,
		timeout:   timeout,
		tracer:    otel.Tracer("ai-briefbuilder-be/generation"),
		logger:    logger,
	}
}

func (s *generationService) ExtractInsights(ctx context.Context, rawText string) ([]store.Insight, error) {
	ctx, span := s.tracer.Start(ctx, "generation.ExtractInsights",
		trace.WithAttributes(attribute.Int("source.chars", len(rawText))))
	defer span.End()

	insights, err := s.generator.ExtractInsights(ctx, rawText)
	if err != nil {
		return nil, s.fail(span, "extract_insights", err)
	}
	span.SetAttributes(attribute.Int("insights.count", len(insights)))
	return insights, nil
}

func (s *generationService) SynthesizeStrategy(ctx context.Context, rawText string, insight store.Insight) (*store.Strategy, error) {
	ctx, span := s.tracer.Start(ctx, "generation.SynthesizeStrategy",
		trace.WithAttributes(attribute.Int("insight.id", insight.ID)))
	defer span.End()

	strategy, err := s.generator.SynthesizeStrategy(ctx, rawText, insight)
	if err != nil {
		return nil, s.fail(span, "synthesize_strategy", err)
	}
	span.SetAttributes(attribute.Int("strategy.sections", len(strategy.Sections)))
	return strategy, nil
}

type finalDocumentResult struct {
	doc *store.FinalDocument
	err error
}

// GenerateFinalDocument races the provider call against the configured timeout. The call
// itself is left running on timeout; its late result is dropped.
func (s *generationService) GenerateFinalDocument(ctx context.Context, in generation.FinalDocumentInput) (*store.FinalDocument, error) {
	ctx, span := s.tracer.Start(ctx, "generation.GenerateFinalDocument",
		trace.WithAttributes(
			attribute.Int("insight.id", in.Insight.ID),
			attribute.Bool("strategy.present", in.Strategy != nil),
		))
	defer span.End()

	done := make(chan finalDocumentResult, 1)
	go func() {
		doc, err := s.generator.GenerateFinalDocument(ctx, in)
		done <- finalDocumentResult{doc: doc, err: err}
	}()

	var timeout <-chan time.Time
	if s.timeout > 0 {
		timer := time.NewTimer(s.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case res := <-done:
		if res.err != nil {
			return nil, s.fail(span, "generate_final_document", res.err)
		}
		return res.doc, nil
	case <-timeout:
		return nil, s.fail(span, "generate_final_document", fmt.Errorf("%w after %s", ErrGenerationTimeout, s.timeout))
	case <-ctx.Done():
		return nil, s.fail(span, "generate_final_document", ctx.Err())
	}
}

func (s *generationService) fail(span trace.Span, task string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	mapped := toGenerationError(err)
	level := s.logger.Error
	if apperror.Is(mapped, apperror.KindGenerationEmpty) || apperror.Is(mapped, apperror.KindValidation) {
		level = s.logger.Warn
	}
	level(generationModule, "Generation call failed", map[string]interface{}{
		"task":  task,
		"error": err.Error(),
	})
	return mapped
}

func toGenerationError(err error) error {
	switch {
	case errors.Is(err, generation.ErrNoSourceText):
		return apperror.Validation("attach a research document with text first")
	case errors.Is(err, generation.ErrEmptyResult):
		return apperror.GenerationEmpty("nothing usable was generated; add more source material and try again")
	default:
		return apperror.GenerationFailed(err)
	}
}
