package service

import (
	"context"
	"testing"

	"ai-briefbuilder-be/internal/dto"
	"ai-briefbuilder-be/internal/pkg/apperror"
	"ai-briefbuilder-be/internal/pkg/logger"
	"ai-briefbuilder-be/pkg/events"
	"ai-briefbuilder-be/pkg/llm/mock"
	"ai-briefbuilder-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBriefFixture() (*draftFixture, IBriefService) {
	f := newDraftFixture(mock.NewCanned())
	return f, NewBriefService(f.factory, f.drafts, f.publisher, logger.NewNopLogger())
}

func TestDuplicateProducesDraftWithoutFinalDocument(t *testing.T) {
	f, svc := newBriefFixture()
	ctx := context.Background()
	author := uuid.New()
	seeded := f.seedCompleted(author)

	res, err := svc.Duplicate(ctx, author, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Copy of Widget X launch", res.Title)
	assert.Equal(t, seeded.ID, res.SourceId)

	copied := f.factory.briefs.get(res.Id)
	require.NotNil(t, copied)
	assert.Equal(t, string(store.StatusDraft), copied.Status)
	assert.Nil(t, copied.FinalDocument)
	assert.Nil(t, copied.CompletedAt)
	assert.Equal(t, "Widget X", copied.CustomProductName)
	assert.Len(t, copied.Insights, 2)
	require.NotNil(t, copied.Strategy)
	assert.Equal(t, "Time is respect", copied.Strategy.Essence)
	assert.Equal(t, "STRATEGY", copied.CurrentStep)

	source := f.factory.briefs.get(seeded.ID)
	assert.Equal(t, 2, source.FinalDocument.Version, "source keeps its document")
	assert.Contains(t, f.publisher.types(), events.BriefDuplicated)
}

func TestArchiveIsIdempotent(t *testing.T) {
	f, svc := newBriefFixture()
	ctx := context.Background()
	author := uuid.New()
	seeded := f.seedCompleted(author)

	require.NoError(t, svc.Archive(ctx, author, seeded.ID))
	first := f.factory.briefs.get(seeded.ID)
	require.NotNil(t, first.ArchivedAt)

	require.NoError(t, svc.Archive(ctx, author, seeded.ID))
	second := f.factory.briefs.get(seeded.ID)
	assert.Equal(t, string(store.StatusArchived), second.Status)
	assert.Equal(t, *first.ArchivedAt, *second.ArchivedAt)

	assert.Equal(t, []string{events.BriefArchived}, f.publisher.types())

	_, open := f.drafts.Get(seeded.Key)
	assert.False(t, open, "archiving closes the open workspace")
}

func TestArchiveErrors(t *testing.T) {
	f, svc := newBriefFixture()
	ctx := context.Background()
	author := uuid.New()

	err := svc.Archive(ctx, author, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	seeded := f.seedCompleted(author)
	err = svc.Archive(ctx, uuid.New(), seeded.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestListExcludesArchivedByDefault(t *testing.T) {
	f, svc := newBriefFixture()
	ctx := context.Background()
	author := uuid.New()
	kept := f.seedCompleted(author)
	archived := f.seedCompleted(author)
	f.seedCompleted(uuid.New())

	require.NoError(t, svc.Archive(ctx, author, archived.ID))

	res, err := svc.List(ctx, author, &dto.ListBriefsRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, kept.ID, res.Items[0].Id)
	assert.True(t, res.Items[0].HasFinalDocument)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, defaultPageSize, res.PageSize)

	all, err := svc.List(ctx, author, &dto.ListBriefsRequest{IncludeArchived: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	_, err = svc.List(ctx, author, &dto.ListBriefsRequest{ProductId: "not-a-uuid"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestShowWithholdsDocumentWithoutSelection(t *testing.T) {
	f, svc := newBriefFixture()
	ctx := context.Background()
	author := uuid.New()
	seeded := f.seedCompleted(author)

	res, err := svc.Show(ctx, author, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, res.FinalDocument)
	assert.Equal(t, "Speed Matters", res.DisplayInsight.Headline)

	f.factory.briefs.briefs[seeded.ID].SelectedInsightId = nil
	res, err = svc.Show(ctx, author, seeded.ID)
	require.NoError(t, err)
	assert.Nil(t, res.FinalDocument)
	assert.True(t, res.FinalDocumentWithheld)
	assert.Nil(t, res.DisplayInsight)
}

func TestBriefServiceWithoutPersistence(t *testing.T) {
	svc := NewBriefService(nil, nil, nil, logger.NewNopLogger())
	ctx := context.Background()

	_, err := svc.List(ctx, uuid.New(), &dto.ListBriefsRequest{})
	assert.True(t, apperror.Is(err, apperror.KindStoreUnavailable))
	assert.True(t, apperror.Is(svc.Archive(ctx, uuid.New(), uuid.New()), apperror.KindStoreUnavailable))
}

func TestProductServiceRejectsDuplicateName(t *testing.T) {
	factory := newFakeRepositoryFactory()
	svc := NewProductService(factory)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateProductRequest{Name: " Widget X ", Category: "gadgets"})
	require.NoError(t, err)
	assert.Equal(t, "Widget X", created.Name)

	_, err = svc.Create(ctx, &dto.CreateProductRequest{Name: "Widget X"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
