package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"

	ledgerservice "github.com/scorepad-app/scorepad/app/modules/ledger/application"
	ledgerhandlers "github.com/scorepad-app/scorepad/app/modules/ledger/infrastructure/handlers"
	snapshotdb "github.com/scorepad-app/scorepad/app/modules/storage"

	"github.com/scorepad-app/scorepad/app/eventbus"
	"github.com/scorepad-app/scorepad/app/modules/export"
	"github.com/scorepad-app/scorepad/config"
	"github.com/scorepad-app/scorepad/internal/metrics"
)

// App wires the ledger service, persistence, event bus and HTTP surface
// together for one scorepad process.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *bun.DB
	Bus     *eventbus.EventBus
	Store   *snapshotdb.Store
	Ledger  *ledgerservice.Service
	Metrics *metrics.Metrics

	router chi.Router
}

// NewApp initializes every component and restores the persisted session.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := snapshotdb.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	m := metrics.New()
	store := snapshotdb.NewStore(db, logger, m, cfg.Session.TTL)
	if err := store.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	snap, err := store.Load(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	bus := eventbus.New(logger)
	svc := ledgerservice.New(snap, bus, logger, m)

	if err := snapshotdb.NewWriteThrough(store, logger).Start(ctx, bus); err != nil {
		bus.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to start write-through subscriber: %w", err)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Bus:     bus,
		Store:   store,
		Ledger:  svc,
		Metrics: m,
	}
	a.router = a.routes()
	return a, nil
}

func (a *App) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Mount("/api/ledger", ledgerhandlers.New(a.Ledger, a.Logger).Routes())
	r.Mount("/api/export", export.NewHandlers(a.Ledger, a.Logger, a.Metrics).Routes())
	r.Handle("/metrics", a.Metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Router exposes the HTTP surface, mainly for tests.
func (a *App) Router() chi.Router { return a.router }

// Run serves the API until ctx is canceled, then drains in-flight
// requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("Serving scorepad API", slog.String("addr", a.Config.HTTP.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Close releases the bus and database.
func (a *App) Close() {
	if err := a.Bus.Close(); err != nil {
		a.Logger.Error("Failed to close event bus", slog.Any("error", err))
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Failed to close database", slog.Any("error", err))
	}
}
