package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/geocoder89/mealhub/internal/domain/meal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrCatalogFetch = errors.New("catalog fetch failed")

// Catalog is where a loaded menu ends up.
type Catalog interface {
	ReplaceMeals(ctx context.Context, meals []meal.Meal)
	MarkLoadFinished()
}

type FetchObserver interface {
	ObserveCatalogFetch(result string, d time.Duration)
}

type LoaderConfig struct {
	// Retries after the first attempt. Zero keeps the single-shot behaviour.
	Retries int
	Backoff func(attempt int) time.Duration
}

type Loader struct {
	source   MenuSource
	catalog  Catalog
	cfg      LoaderConfig
	log      *slog.Logger
	observer FetchObserver

	once sync.Once
	done chan struct{}
}

func NewLoader(source MenuSource, catalog Catalog, cfg LoaderConfig, log *slog.Logger, observer FetchObserver) *Loader {
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Backoff == nil {
		cfg.Backoff = exponentialBackoff
	}
	if log == nil {
		log = slog.Default()
	}

	return &Loader{
		source:   source,
		catalog:  catalog,
		cfg:      cfg,
		log:      log,
		observer: observer,
		done:     make(chan struct{}),
	}
}

// Load fetches the menu and installs it, making the first meal the special of the
// day. A failure is logged and leaves the catalog empty.
func (l *Loader) Load(ctx context.Context) ([]meal.Meal, error) {
	ctx, span := otel.Tracer("mealhub/catalog").Start(ctx, "catalog.load")
	defer span.End()

	start := time.Now()
	defer l.catalog.MarkLoadFinished()

	var lastErr error

attempts:
	for attempt := 0; attempt <= l.cfg.Retries; attempt++ {
		if attempt > 0 {
			delay := l.cfg.Backoff(attempt - 1)
			l.log.WarnContext(ctx, "catalog fetch retry", "attempt", attempt, "delay_ms", delay.Milliseconds(), "err", lastErr)

			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				break attempts
			case <-time.After(delay):
			}
		}

		meals, err := l.source.Fetch(ctx)
		if err == nil {
			l.catalog.ReplaceMeals(ctx, meals)
			span.SetAttributes(attribute.Int("catalog.meals", len(meals)), attribute.Int("catalog.attempts", attempt+1))
			l.observe("ok", start)
			l.log.InfoContext(ctx, "catalog loaded", "meals", len(meals))
			return meals, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	err := fmt.Errorf("%w: %w", ErrCatalogFetch, lastErr)
	span.RecordError(err)
	span.SetStatus(codes.Error, "catalog fetch failed")
	l.observe("error", start)
	l.log.ErrorContext(ctx, "error fetching menu", "err", lastErr)

	return nil, err
}

// Start runs Load once in the background. Later calls are no-ops.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go func() {
			defer close(l.done)
			_, _ = l.Load(ctx)
		}()
	})
}

// Done is closed when the background load started by Start has finished.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

func (l *Loader) observe(result string, start time.Time) {
	if l.observer != nil {
		l.observer.ObserveCatalogFetch(result, time.Since(start))
	}
}
