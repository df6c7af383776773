package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/inventory-browser/internal/app/dto"
	"github.com/mrops-br/inventory-browser/internal/domain"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/debounce"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// DefaultSearchDelay is the debounce window of the search box.
const DefaultSearchDelay = 300 * time.Millisecond

// SessionOption configures a BrowserSession.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	searchDelay  time.Duration
	pageSize     int
	tracer       trace.Tracer
	meter        metric.Meter
	logger       *slog.Logger
	onChange     func()
	debounceOpts []debounce.Option
}

func WithSearchDelay(d time.Duration) SessionOption {
	return func(o *sessionOptions) { o.searchDelay = d }
}

func WithPageSize(n int) SessionOption {
	return func(o *sessionOptions) { o.pageSize = n }
}

func WithTracer(t trace.Tracer) SessionOption {
	return func(o *sessionOptions) { o.tracer = t }
}

func WithMeter(m metric.Meter) SessionOption {
	return func(o *sessionOptions) { o.meter = m }
}

func WithLogger(l *slog.Logger) SessionOption {
	return func(o *sessionOptions) { o.logger = l }
}

// WithOnChange registers a callback run after a debounced search commit, so a
// presentation layer can redraw.
func WithOnChange(fn func()) SessionOption {
	return func(o *sessionOptions) { o.onChange = fn }
}

// WithDebounceOptions passes options to the search debouncer.
func WithDebounceOptions(opts ...debounce.Option) SessionOption {
	return func(o *sessionOptions) { o.debounceOpts = append(o.debounceOpts, opts...) }
}

type filterKey struct {
	search   string
	category string
	price    domain.PriceRange
	offer    domain.OfferFilter
}

// viewCache memoises derived results against a catalogue version.
type viewCache struct {
	filteredValid   bool
	filteredVersion uint64
	filteredKey     filterKey
	filtered        []domain.Product

	categoriesVersion uint64
	categories        []string
}

// BrowserSession owns the catalogue and the filter criteria of one browsing
// session. Intents and debounced search commits are serialised by mu.
type BrowserSession struct {
	id       string
	repo     domain.CatalogueRepository
	tracer   trace.Tracer
	logger   *slog.Logger
	pageSize int
	onChange func()
	search   *debounce.Debouncer[string]

	intents  metric.Int64Counter
	commits  metric.Int64Counter
	deleted  metric.Int64Counter
	filtered metric.Int64Histogram

	mu         sync.Mutex
	closed     bool
	searchText string
	criteria   domain.Criteria
	cache      viewCache
}

// NewBrowserSession creates a session over repo with default criteria.
func NewBrowserSession(repo domain.CatalogueRepository, opts ...SessionOption) (*BrowserSession, error) {
	o := sessionOptions{
		searchDelay: DefaultSearchDelay,
		pageSize:    domain.DefaultPageSize,
		tracer:      tracenoop.NewTracerProvider().Tracer("browser"),
		meter:       metricnoop.NewMeterProvider().Meter("browser"),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pageSize < 1 {
		o.pageSize = domain.DefaultPageSize
	}

	s := &BrowserSession{
		id:       uuid.New().String(),
		repo:     repo,
		tracer:   o.tracer,
		pageSize: o.pageSize,
		onChange: o.onChange,
		criteria: domain.DefaultCriteria(),
	}
	s.logger = o.logger.With(slog.String("session.id", s.id))

	search, err := debounce.New(o.searchDelay, s.commitSearch, o.debounceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search debouncer: %w", err)
	}
	s.search = search

	// Initialize metrics
	s.intents, _ = o.meter.Int64Counter(
		"browser.intents",
		metric.WithDescription("Total number of user intents handled"),
	)
	s.commits, _ = o.meter.Int64Counter(
		"browser.search.commits",
		metric.WithDescription("Total number of debounced search commits"),
	)
	s.deleted, _ = o.meter.Int64Counter(
		"browser.products.deleted",
		metric.WithDescription("Total number of products deleted"),
	)
	s.filtered, _ = o.meter.Int64Histogram(
		"browser.filter.results",
		metric.WithDescription("Size of each freshly computed filter result"),
		metric.WithUnit("{product}"),
	)

	s.logger.Info("Browser session started",
		slog.Duration("search_delay", o.searchDelay),
		slog.Int("page_size", s.pageSize),
	)

	return s, nil
}

// ID returns the session identifier.
func (s *BrowserSession) ID() string {
	return s.id
}

// SetSearchText records the live search box text and schedules it to become
// the committed search term once typing settles.
func (s *BrowserSession) SetSearchText(ctx context.Context, text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.searchText = text
	s.mu.Unlock()

	s.search.Call(text)
	s.recordIntent(ctx, "search_text", "success")
}

// CommitSearch commits the pending search text immediately. It reports
// whether a commit was pending.
func (s *BrowserSession) CommitSearch(ctx context.Context) bool {
	flushed := s.search.Flush()
	if flushed {
		s.logger.DebugContext(ctx, "Search committed early")
	}
	return flushed
}

func (s *BrowserSession) commitSearch(term string) {
	ctx, span := s.tracer.Start(context.Background(), "BrowserSession.CommitSearch")
	defer span.End()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.criteria.SearchTerm = term
	s.criteria.Page = 1
	s.mu.Unlock()

	span.SetAttributes(attribute.String("search.term", term))
	s.commits.Add(ctx, 1)
	s.logger.DebugContext(ctx, "Search term committed", slog.String("term", term))

	if s.onChange != nil {
		s.onChange()
	}
}

// SetCategory filters by category; domain.AllCategories clears the filter.
func (s *BrowserSession) SetCategory(ctx context.Context, category string) {
	s.mu.Lock()
	s.criteria.Category = category
	s.criteria.Page = 1
	s.mu.Unlock()

	s.recordIntent(ctx, "category", "success")
}

// SetPriceRange filters by price bucket.
func (s *BrowserSession) SetPriceRange(ctx context.Context, r domain.PriceRange) error {
	if !r.Valid() {
		s.recordIntent(ctx, "price_range", "invalid")
		return fmt.Errorf("%w: %q", domain.ErrInvalidPriceRange, r)
	}

	s.mu.Lock()
	s.criteria.PriceRange = r
	s.criteria.Page = 1
	s.mu.Unlock()

	s.recordIntent(ctx, "price_range", "success")
	return nil
}

// SetOfferFilter filters by promotional status.
func (s *BrowserSession) SetOfferFilter(ctx context.Context, f domain.OfferFilter) error {
	if !f.Valid() {
		s.recordIntent(ctx, "offer_filter", "invalid")
		return fmt.Errorf("%w: %q", domain.ErrInvalidOfferFilter, f)
	}

	s.mu.Lock()
	s.criteria.OfferFilter = f
	s.criteria.Page = 1
	s.mu.Unlock()

	s.recordIntent(ctx, "offer_filter", "success")
	return nil
}

// GotoPage moves to page n, clamped to the available pages, and returns the
// resulting page.
func (s *BrowserSession) GotoPage(ctx context.Context, n int) (int, error) {
	return s.movePage(ctx, "goto_page", func(_, total int) int {
		return domain.ClampPage(n, total)
	})
}

// NextPage advances one page; it does nothing on the last page or when there
// are no results.
func (s *BrowserSession) NextPage(ctx context.Context) (int, error) {
	return s.movePage(ctx, "next_page", func(page, total int) int {
		if page < total {
			return page + 1
		}
		return page
	})
}

// PrevPage goes back one page; it does nothing on the first page.
func (s *BrowserSession) PrevPage(ctx context.Context) (int, error) {
	return s.movePage(ctx, "prev_page", func(page, _ int) int {
		if page > 1 {
			return page - 1
		}
		return page
	})
}

func (s *BrowserSession) movePage(ctx context.Context, intent string, next func(page, total int) int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		s.recordIntent(ctx, intent, "failure")
		return s.criteria.Page, err
	}

	total := domain.Paginate(s.filteredLocked(ctx, snap), 1, s.pageSize).TotalPages
	s.criteria.Page = next(s.criteria.Page, total)

	s.recordIntent(ctx, intent, "success")
	return s.criteria.Page, nil
}

// View derives the frame for the current criteria.
func (s *BrowserSession) View(ctx context.Context) (dto.BrowserView, error) {
	ctx, span := s.tracer.Start(ctx, "BrowserSession.View")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read catalogue")
		return dto.BrowserView{}, err
	}

	filtered := s.filteredLocked(ctx, snap)
	window := domain.Paginate(filtered, s.criteria.Page, s.pageSize)

	if s.cache.categories == nil || s.cache.categoriesVersion != snap.Version {
		s.cache.categories = domain.DeriveCategories(snap.Products)
		s.cache.categoriesVersion = snap.Version
	}

	span.SetAttributes(
		attribute.Int("filter.count", len(filtered)),
		attribute.Int("page.current", s.criteria.Page),
		attribute.Int("page.total", window.TotalPages),
	)

	return dto.BrowserView{
		SessionID:         s.id,
		SearchText:        s.searchText,
		CommittedSearch:   s.criteria.SearchTerm,
		Category:          s.criteria.Category,
		PriceRange:        s.criteria.PriceRange,
		OfferFilter:       s.criteria.OfferFilter,
		Categories:        append([]string(nil), s.cache.categories...),
		FilteredCount:     len(filtered),
		Items:             dto.ToProductResponseList(window.Items),
		CurrentPage:       s.criteria.Page,
		TotalPages:        window.TotalPages,
		DisplayTotalPages: domain.DisplayTotalPages(window.TotalPages),
		HasPrev:           s.criteria.Page > 1,
		HasNext:           s.criteria.Page < window.TotalPages,
	}, nil
}

// filteredLocked returns the filtered catalogue, recomputing it only when
// the catalogue version or the criteria changed. mu must be held.
func (s *BrowserSession) filteredLocked(ctx context.Context, snap domain.Snapshot) []domain.Product {
	key := filterKey{
		search:   s.criteria.SearchTerm,
		category: s.criteria.Category,
		price:    s.criteria.PriceRange,
		offer:    s.criteria.OfferFilter,
	}
	if s.cache.filteredValid && s.cache.filteredVersion == snap.Version && s.cache.filteredKey == key {
		return s.cache.filtered
	}

	filtered := domain.Filter(snap.Products, s.criteria)
	s.cache.filteredValid = true
	s.cache.filteredVersion = snap.Version
	s.cache.filteredKey = key
	s.cache.filtered = filtered

	s.filtered.Record(ctx, int64(len(filtered)))
	return filtered
}

// EditProduct acknowledges an edit request. It changes nothing; the
// presentation layer decides how to surface the returned notification.
func (s *BrowserSession) EditProduct(ctx context.Context, id int) (dto.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "BrowserSession.EditProduct")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.recordIntent(ctx, "edit", "not_found")
		return dto.Notification{}, err
	}

	s.logger.InfoContext(ctx, "Edit requested", slog.Int("product_id", id))
	s.recordIntent(ctx, "edit", "success")

	return dto.Notification{
		Kind:      dto.NotificationEdit,
		ProductID: id,
		Message:   fmt.Sprintf("Opening edit for product #%d", id),
	}, nil
}

// RequestDelete asks confirm before deleting the product. Nothing changes
// unless the answer is yes. The returned bool reports whether a product was
// removed.
func (s *BrowserSession) RequestDelete(ctx context.Context, id int, confirm Confirmer) (dto.Notification, bool, error) {
	ctx, span := s.tracer.Start(ctx, "BrowserSession.RequestDelete")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	ok, err := confirm.Confirm(ctx, DeletePrompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Confirmation failed")
		s.recordIntent(ctx, "delete", "failure")
		return dto.Notification{}, false, fmt.Errorf("delete confirmation: %w", err)
	}
	if !ok {
		s.logger.InfoContext(ctx, "Delete declined", slog.Int("product_id", id))
		s.recordIntent(ctx, "delete", "declined")
		return dto.Notification{}, false, nil
	}

	deleted, err := s.DeleteProduct(ctx, id)
	if err != nil || !deleted {
		return dto.Notification{}, false, err
	}

	return dto.Notification{
		Kind:      dto.NotificationDeleted,
		ProductID: id,
		Message:   "Product deleted successfully!",
	}, true, nil
}

// DeleteProduct removes the product from the session catalogue. Callers must
// have obtained confirmation first; RequestDelete does both. An unknown id is
// a no-op.
func (s *BrowserSession) DeleteProduct(ctx context.Context, id int) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "BrowserSession.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete product")
		s.logger.ErrorContext(ctx, "Failed to delete product",
			slog.Int("product_id", id),
			slog.String("error", err.Error()),
		)
		s.recordIntent(ctx, "delete", "failure")
		return false, err
	}
	if !deleted {
		s.recordIntent(ctx, "delete", "not_found")
		return false, nil
	}

	// Keep the current page valid when the last row of the last page goes.
	if snap, err := s.repo.Snapshot(ctx); err == nil {
		total := domain.Paginate(s.filteredLocked(ctx, snap), 1, s.pageSize).TotalPages
		s.criteria.Page = domain.ClampPage(s.criteria.Page, total)
	}

	s.deleted.Add(ctx, 1)
	s.recordIntent(ctx, "delete", "success")
	s.logger.InfoContext(ctx, "Product deleted", slog.Int("product_id", id))

	span.SetStatus(codes.Ok, "Product deleted")
	return true, nil
}

// Close ends the session. A pending search commit is dropped so it cannot
// fire after the view is gone.
func (s *BrowserSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.search.Cancel()
	s.logger.Info("Browser session closed")
}

func (s *BrowserSession) recordIntent(ctx context.Context, intent, result string) {
	s.intents.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("intent", intent),
			attribute.String("result", result),
		),
	)
}
