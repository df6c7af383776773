package memory

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mrops-br/inventory-browser/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func seed() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Widget", Category: "Tools", Price: 50},
		{ID: 2, Name: "Gadget", Category: "Tools", Price: 150, Offer: true},
		{ID: 3, Name: "Gizmo", Category: "Toys", Price: 400},
	}
}

func newRepo(products []domain.Product) *CatalogueRepository {
	logger := slog.New(slog.DiscardHandler)
	return NewCatalogueRepository(products, noop.NewTracerProvider().Tracer("test"), logger)
}

func TestCatalogueRepository_DeleteReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(seed())

	before, err := repo.Snapshot(ctx)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, 2)
	require.NoError(t, err)
	assert.True(t, deleted)

	after, err := repo.Snapshot(ctx)
	require.NoError(t, err)

	assert.Greater(t, after.Version, before.Version)
	require.Len(t, after.Products, 2)
	assert.Equal(t, 1, after.Products[0].ID)
	assert.Equal(t, 3, after.Products[1].ID)

	// The earlier snapshot is untouched.
	require.Len(t, before.Products, 3)
	assert.Equal(t, "Gadget", before.Products[1].Name)
}

func TestCatalogueRepository_DeleteUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(seed())

	before, _ := repo.Snapshot(ctx)
	deleted, err := repo.Delete(ctx, 42)
	require.NoError(t, err)
	assert.False(t, deleted)

	after, _ := repo.Snapshot(ctx)
	assert.Equal(t, before.Version, after.Version)
	assert.Len(t, after.Products, 3)
}

func TestCatalogueRepository_IDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(seed())

	_, err := repo.Delete(ctx, 3)
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	deleted, err := repo.Delete(ctx, 3)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCatalogueRepository_SeedIsCopied(t *testing.T) {
	products := seed()
	repo := newRepo(products)

	products[0].Name = "Changed"

	p, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
}

func TestCatalogueRepository_RecordsSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	repo := NewCatalogueRepository(seed(), tp.Tracer("test"), slog.New(slog.DiscardHandler))

	_, err := repo.FindByID(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "CatalogueRepository.FindByID", spans[0].Name())
	assert.Equal(t, "Product not found", spans[0].Status().Description)
}
