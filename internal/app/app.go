// Package app wires all voicecart subsystems into a running application.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, Run serves HTTP until the context is cancelled, and Shutdown
// tears everything down in order.
//
// For testing, inject mock implementations via functional options
// (WithTranscriptionStore, WithOrderStore, etc.). When an option is not
// provided, New creates real implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/farm2bag/voicecart/internal/catalog"
	"github.com/farm2bag/voicecart/internal/config"
	"github.com/farm2bag/voicecart/internal/extract"
	"github.com/farm2bag/voicecart/internal/health"
	"github.com/farm2bag/voicecart/internal/invoice"
	"github.com/farm2bag/voicecart/internal/match"
	"github.com/farm2bag/voicecart/internal/observe"
	"github.com/farm2bag/voicecart/internal/pipeline"
	"github.com/farm2bag/voicecart/internal/server"
	"github.com/farm2bag/voicecart/internal/store"
	"github.com/farm2bag/voicecart/pkg/provider/llm"
	"github.com/farm2bag/voicecart/pkg/provider/stt"
)

// shutdownTimeout bounds the HTTP server drain during Run's cleanup.
const shutdownTimeout = 10 * time.Second

// Providers holds one interface value per provider slot. Populated by main.go
// via the config registry.
type Providers struct {
	STT stt.Provider
	LLM llm.Provider
}

// App owns all subsystem lifetimes.
type App struct {
	cfg       *config.Config
	providers *Providers

	holder         *catalog.Holder
	matcher        *match.Matcher
	pipeline       *pipeline.Pipeline
	transcriptions store.TranscriptionStore
	orders         store.OrderStore

	httpServer *http.Server

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithTranscriptionStore injects a transcription store instead of creating
// one from config.
func WithTranscriptionStore(s store.TranscriptionStore) Option {
	return func(a *App) { a.transcriptions = s }
}

// WithOrderStore injects an order store instead of creating one from config.
func WithOrderStore(s store.OrderStore) Option {
	return func(a *App) { a.orders = s }
}

// New creates an App by wiring all subsystems together. The providers struct
// comes from main.go (populated via the config registry). Use Option functions
// to inject test doubles for the stores.
func New(ctx context.Context, cfg *config.Config, providers *Providers, opts ...Option) (*App, error) {
	a := &App{
		cfg:       cfg,
		providers: providers,
	}
	for _, o := range opts {
		o(a)
	}

	// Catalog.
	entries, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("app: load catalog: %w", err)
	}
	a.holder = catalog.NewHolder(catalog.Build(entries))
	slog.Info("catalog loaded", "path", cfg.Catalog.Path, "products", len(entries))

	// Matching and extraction.
	a.matcher = match.New(match.WithThreshold(cfg.Matching.ThresholdOrDefault()))
	a.pipeline = pipeline.New(extract.NewExtractor(providers.LLM), a.matcher, a.holder)

	// Stores.
	checkers := []health.Checker{health.CatalogChecker(a.holder)}
	if a.transcriptions == nil || a.orders == nil {
		storeCheckers, err := a.initStores(ctx)
		if err != nil {
			return nil, fmt.Errorf("app: init stores: %w", err)
		}
		checkers = append(checkers, storeCheckers...)
	}

	// HTTP server.
	srv := server.New(server.Deps{
		STT:            providers.STT,
		Pipeline:       a.pipeline,
		Matcher:        a.matcher,
		Catalog:        a.holder,
		Transcriptions: a.transcriptions,
		Orders:         a.orders,
		Invoices:       invoice.NewRenderer(cfg.Invoice.Seller),
		Metrics:        observe.DefaultMetrics(),
		Health:         health.New(checkers...),
	})
	a.httpServer = &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// initStores creates the persistence layer: Postgres when a DSN is
// configured, in-memory otherwise. Returns extra readiness checkers.
func (a *App) initStores(ctx context.Context) ([]health.Checker, error) {
	if dsn := a.cfg.Storage.PostgresDSN; dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})

		if a.transcriptions == nil {
			a.transcriptions = store.NewPostgresTranscriptionStore(pool)
		}
		if a.orders == nil {
			a.orders = store.NewPostgresOrderStore(pool)
		}
		slog.Info("postgres storage initialised")
		return []health.Checker{health.DatabaseChecker(pool)}, nil
	}

	if a.transcriptions == nil {
		a.transcriptions = store.NewTranscriptionMemStore()
	}
	if a.orders == nil {
		a.orders = store.NewOrderMemStore()
	}
	slog.Info("in-memory storage initialised")
	return nil, nil
}

// loadCatalog reads the configured catalog file into entries.
func loadCatalog(cfg config.Catalog) ([]catalog.Entry, error) {
	if cfg.Format == config.CatalogText {
		return catalog.LoadTextFile(cfg.Path)
	}
	f, err := catalog.LoadFile(cfg.Path)
	if err != nil {
		return nil, err
	}
	return f.Products, nil
}

// ReloadCatalog re-reads the catalog file and atomically swaps it in.
// In-flight matches keep using the index they started with.
func (a *App) ReloadCatalog(context.Context) error {
	entries, err := loadCatalog(a.cfg.Catalog)
	if err != nil {
		return fmt.Errorf("app: reload catalog: %w", err)
	}
	a.holder.Swap(catalog.Build(entries))
	slog.Info("catalog reloaded", "path", a.cfg.Catalog.Path, "products", len(entries))
	return nil
}

// Run serves HTTP until ctx is cancelled, then drains connections. Returns
// nil on a clean shutdown.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "addr", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.httpServer.Shutdown(drainCtx)
	})

	return g.Wait()
}

// Shutdown releases resources that outlive Run, such as the database pool.
// Safe to call more than once.
func (a *App) Shutdown(context.Context) error {
	var errs []error
	a.stopOnce.Do(func() {
		for _, c := range a.closers {
			if err := c(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
