package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/inventory-browser/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CatalogueRepository is an in-memory implementation of
// domain.CatalogueRepository. The product slice held by a snapshot is never
// modified; deletions publish a new slice and a new version.
type CatalogueRepository struct {
	mu       sync.RWMutex
	snapshot domain.Snapshot
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewCatalogueRepository creates a repository seeded with products. The
// slice is copied, so the caller may reuse it.
func NewCatalogueRepository(products []domain.Product, tracer trace.Tracer, logger *slog.Logger) *CatalogueRepository {
	seed := make([]domain.Product, len(products))
	copy(seed, products)

	return &CatalogueRepository{
		snapshot: domain.Snapshot{Version: 1, Products: seed},
		tracer:   tracer,
		logger:   logger,
	}
}

// Snapshot returns the current catalogue
func (r *CatalogueRepository) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	_, span := r.tracer.Start(ctx, "CatalogueRepository.Snapshot")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	span.SetAttributes(
		attribute.Int64("catalogue.version", int64(r.snapshot.Version)),
		attribute.Int("product.count", len(r.snapshot.Products)),
	)
	return r.snapshot, nil
}

// FindByID retrieves a product by ID
func (r *CatalogueRepository) FindByID(ctx context.Context, id int) (domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogueRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.snapshot.Products {
		if p.ID == id {
			span.SetStatus(codes.Ok, "Product found")
			return p, nil
		}
	}

	span.RecordError(domain.ErrProductNotFound)
	span.SetStatus(codes.Error, "Product not found")
	r.logger.WarnContext(ctx, "Product not found",
		slog.Int("product_id", id),
	)
	return domain.Product{}, domain.ErrProductNotFound
}

// Delete removes a product, replacing the catalogue with a copy that lacks
// it. Deleting an unknown id is a no-op.
func (r *CatalogueRepository) Delete(ctx context.Context, id int) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogueRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	products, ok := domain.DeleteProduct(r.snapshot.Products, id)
	if !ok {
		r.logger.DebugContext(ctx, "Delete ignored, product not in catalogue",
			slog.Int("product_id", id),
		)
		span.SetAttributes(attribute.Bool("product.deleted", false))
		return false, nil
	}

	r.snapshot = domain.Snapshot{
		Version:  r.snapshot.Version + 1,
		Products: products,
	}

	r.logger.InfoContext(ctx, "Product removed from catalogue",
		slog.Int("product_id", id),
		slog.Int("remaining", len(products)),
	)

	span.SetAttributes(
		attribute.Bool("product.deleted", true),
		attribute.Int64("catalogue.version", int64(r.snapshot.Version)),
	)
	span.SetStatus(codes.Ok, "Product deleted")
	return true, nil
}
