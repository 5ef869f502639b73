package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-briefbuilder-be/internal/pkg/apperror"
	"ai-briefbuilder-be/internal/pkg/logger"
	"ai-briefbuilder-be/pkg/generation"
	"ai-briefbuilder-be/pkg/llm/mock"
	"ai-briefbuilder-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finalDocumentInput() generation.FinalDocumentInput {
	return generation.FinalDocumentInput{
		Insight:     store.Insight{ID: 1, Headline: "Speed Matters", Text: "Fast is respectful"},
		ProductName: "Widget X",
		RawText:     "users report slow delivery",
	}
}

func TestGenerateFinalDocumentTimesOut(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	provider := mock.NewFunc(func(prompt string) (string, error) {
		<-release
		return "", nil
	})
	svc := NewGenerationService(generation.NewGenerator(provider), 20*time.Millisecond, logger.NewNopLogger())

	started := time.Now()
	doc, err := svc.GenerateFinalDocument(context.Background(), finalDocumentInput())

	assert.Nil(t, doc)
	assert.True(t, apperror.Is(err, apperror.KindGenerationFailed))
	assert.True(t, errors.Is(err, ErrGenerationTimeout))
	assert.True(t, time.Since(started) < time.Second)
}

func TestGenerateFinalDocumentHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	provider := mock.NewFunc(func(prompt string) (string, error) {
		<-release
		return "", nil
	})
	svc := NewGenerationService(generation.NewGenerator(provider), 0, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.GenerateFinalDocument(ctx, finalDocumentInput())
	assert.True(t, apperror.Is(err, apperror.KindGenerationFailed))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGenerationErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		provider *mock.Provider
		rawText  string
		kind     apperror.Kind
	}{
		{"no source text", mock.NewCanned(), "   ", apperror.KindValidation},
		{"empty result", mock.NewScripted(`{"insights":[]}`), "notes", apperror.KindGenerationEmpty},
		{"provider down", mock.NewFailing(errors.New("connection refused")), "notes", apperror.KindGenerationFailed},
		{"malformed", mock.NewScripted("not json at all"), "notes", apperror.KindGenerationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewGenerationService(generation.NewGenerator(tt.provider), time.Second, logger.NewNopLogger())
			insights, err := svc.ExtractInsights(context.Background(), tt.rawText)
			assert.Nil(t, insights)
			assert.True(t, apperror.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestGenerateFinalDocumentWithCannedProvider(t *testing.T) {
	svc := NewGenerationService(generation.NewGenerator(mock.NewCanned()), time.Second, logger.NewNopLogger())

	doc, err := svc.GenerateFinalDocument(context.Background(), finalDocumentInput())
	require.NoError(t, err)
	assert.Equal(t, "Know exactly when it arrives", doc.MessageStrategy.Proposition)
}
