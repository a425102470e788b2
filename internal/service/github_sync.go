package service

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/github"
	"github.com/allan-kirui57/pynade-hub/internal/id"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

const instrumentationName = "github.com/allan-kirui57/pynade-hub/internal/service"

// Sync defaults.
const (
	DefaultSyncConcurrency = 4
	DefaultSyncRetries     = 3
	DefaultRetryBackoff    = 500 * time.Millisecond
)

// SyncSummary reports the outcome of one batch.
type SyncSummary = domain.SyncRun

// RepositoryFetcher reads repository counters. *github.Client implements it.
type RepositoryFetcher interface {
	GetRepository(ctx context.Context, repo github.Repository) (*github.RepositoryStats, error)
}

// GitHubSyncConfig tunes the batch. Zero values use the defaults.
type GitHubSyncConfig struct {
	Concurrency  int
	MaxRetries   int // total attempts per product
	RetryBackoff time.Duration
}

// GitHubSyncService copies repository counters from GitHub onto products.
type GitHubSyncService struct {
	store  store.Store
	client RepositoryFetcher
	cfg    GitHubSyncConfig
	logger *slog.Logger
	now    func() time.Time

	tracer  trace.Tracer
	updated metric.Int64Counter
	failed  metric.Int64Counter
}

// NewGitHubSyncService creates a new sync service. Spans and counters go to
// the global OpenTelemetry providers.
func NewGitHubSyncService(st store.Store, client RepositoryFetcher, cfg GitHubSyncConfig, logger *slog.Logger) *GitHubSyncService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultSyncConcurrency
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultSyncRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}

	meter := otel.Meter(instrumentationName)
	updated, _ := meter.Int64Counter("github.sync.updated",
		metric.WithDescription("Products whose repository stats were refreshed"),
		metric.WithUnit("{product}"),
	)
	failed, _ := meter.Int64Counter("github.sync.failed",
		metric.WithDescription("Products whose repository stats could not be refreshed"),
		metric.WithUnit("{product}"),
	)

	return &GitHubSyncService{
		store:   st,
		client:  client,
		cfg:     cfg,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		tracer:  otel.Tracer(instrumentationName),
		updated: updated,
		failed:  failed,
	}
}

// SyncAll refreshes every product that links a repository. Each product is
// handled independently; failures are recorded in the summary and do not
// stop the batch. The run is stored before returning.
func (s *GitHubSyncService) SyncAll(ctx context.Context) (*SyncSummary, error) {
	ctx, span := s.tracer.Start(ctx, "github.sync_all")
	defer span.End()

	runID, err := id.Generate("sync")
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate run id")
	}
	summary := &SyncSummary{ID: runID, StartedAt: s.now(), Updated: []int64{}, Failed: []domain.SyncFailure{}}

	products, err := s.store.ListProductsWithRepository(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list products")
		return nil, storeError(err, "product")
	}

	s.logger.Info("github sync started", "run_id", runID, "products", len(products))

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.Concurrency)

	for _, p := range products {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = s.syncOne(ctx, p)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed = append(summary.Failed, domain.SyncFailure{
					ProductID: p.ID,
					RepoURL:   p.RepoURL,
					Reason:    err.Error(),
				})
				s.logFailure(p, err)
				return nil
			}
			summary.Updated = append(summary.Updated, p.ID)
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(summary.Updated)
	slices.SortFunc(summary.Failed, func(a, b domain.SyncFailure) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	summary.FinishedAt = s.now()

	s.updated.Add(ctx, int64(len(summary.Updated)))
	s.failed.Add(ctx, int64(len(summary.Failed)))
	span.SetAttributes(
		attribute.String("sync.run_id", runID),
		attribute.Int("sync.updated", len(summary.Updated)),
		attribute.Int("sync.failed", len(summary.Failed)),
	)

	// The run is recorded even when ctx was canceled mid-batch.
	if err := s.store.CreateSyncRun(context.WithoutCancel(ctx), summary); err != nil {
		s.logger.Error("failed to record github sync run", "run_id", runID, "error", err)
		return summary, storeError(err, "sync run")
	}

	s.logger.Info("github sync finished",
		"run_id", runID,
		"updated", len(summary.Updated),
		"failed", len(summary.Failed),
		"duration", summary.Duration(),
	)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// SyncProduct refreshes a single product on demand and returns it.
func (s *GitHubSyncService) SyncProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, storeError(err, "product")
	}
	if !p.HasRepository() {
		return nil, domainerrors.Validationf("product %d has no repository url", productID)
	}

	if err := s.syncOne(ctx, p); err != nil {
		s.logFailure(p, err)
		s.failed.Add(ctx, 1)
		if errors.Is(err, github.ErrInvalidRepositoryURL) {
			return nil, domainerrors.Validationf("product %d has an invalid repository url", productID).WithCause(err)
		}
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domainerrors.Upstream(err, "github stats sync failed")
	}
	s.updated.Add(ctx, 1)

	return s.store.GetProduct(ctx, productID)
}

// ListRuns returns the most recent batches, newest first.
func (s *GitHubSyncService) ListRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	runs, err := s.store.ListSyncRuns(ctx, limit)
	if err != nil {
		return nil, storeError(err, "sync run")
	}
	return runs, nil
}

// syncOne resolves, fetches and stores the counters of one product.
func (s *GitHubSyncService) syncOne(ctx context.Context, p *domain.Product) error {
	ctx, span := s.tracer.Start(ctx, "github.sync_product",
		trace.WithAttributes(attribute.Int64("product.id", p.ID)))
	defer span.End()

	repo, err := github.ParseRepositoryURL(p.RepoURL)
	if err != nil {
		span.SetStatus(codes.Error, "invalid repository url")
		return err
	}
	span.SetAttributes(attribute.String("github.repository", repo.String()))

	stats, err := s.fetchWithRetry(ctx, repo)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch repository")
		return err
	}

	synced := s.now()
	err = s.store.UpdateProductStats(ctx, p.ID, domain.RepoStats{
		StarsCount:    stats.Stars,
		ForksCount:    stats.Forks,
		WatchersCount: stats.Watchers,
		LastSyncedAt:  &synced,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store stats")
		return storeError(err, "product")
	}
	return nil
}

// fetchWithRetry retries transient failures with exponential backoff.
// Client errors are returned at once.
func (s *GitHubSyncService) fetchWithRetry(ctx context.Context, repo github.Repository) (*github.RepositoryStats, error) {
	backoff := s.cfg.RetryBackoff
	for attempt := 1; ; attempt++ {
		stats, err := s.client.GetRepository(ctx, repo)
		if err == nil {
			return stats, nil
		}
		if !github.IsTransient(err) || attempt >= s.cfg.MaxRetries {
			return nil, err
		}

		s.logger.Warn("github request failed, retrying",
			"repository", repo.String(),
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}

func (s *GitHubSyncService) logFailure(p *domain.Product, err error) {
	attrs := []any{"product_id", p.ID, "url", p.RepoURL, "error", err}
	var ghErr *github.Error
	if errors.As(err, &ghErr) {
		attrs = append(attrs, "api_url", ghErr.URL, "status", ghErr.Status, "body", ghErr.Body)
	}
	s.logger.Warn("github sync failed for product", attrs...)
}

// GitHubSyncJob runs SyncAll on a fixed interval until stopped.
type GitHubSyncJob struct {
	svc      *GitHubSyncService
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewGitHubSyncJob creates a job. A non-positive interval makes Start a no-op.
func NewGitHubSyncJob(svc *GitHubSyncService, interval time.Duration, logger *slog.Logger) *GitHubSyncJob {
	return &GitHubSyncJob{svc: svc, interval: interval, logger: logger}
}

// Start launches the ticker goroutine. The first batch runs after one interval.
func (j *GitHubSyncJob) Start() {
	if j.interval <= 0 {
		j.logger.Info("github sync job disabled")
		return
	}
	if j.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	j.done = make(chan struct{})

	go func() {
		defer close(j.done)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := j.svc.SyncAll(ctx); err != nil && ctx.Err() == nil {
					j.logger.Warn("scheduled github sync failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	j.logger.Info("github sync job started", "interval", j.interval)
}

// Stop cancels any running batch and waits for the goroutine to exit.
func (j *GitHubSyncJob) Stop() {
	if j.cancel == nil {
		return
	}
	j.cancel()
	<-j.done
	j.cancel = nil
}
