// Daybook server entry point. Wires config, the Postgres note store,
// services, and HTTP handlers, then serves until interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kuitang/daybook/internal/api"
	"github.com/kuitang/daybook/internal/config"
	"github.com/kuitang/daybook/internal/metrics"
	"github.com/kuitang/daybook/internal/notes"
	"github.com/kuitang/daybook/internal/obs"
	"github.com/kuitang/daybook/internal/ratelimit"
	"github.com/kuitang/daybook/internal/storage"
	"github.com/kuitang/daybook/internal/web"
)

func main() {
	obs.Init()
	log := obs.Pkg("main")

	addr := config.ParseFlags()
	cfg, err := config.LoadConfig(addr)
	if err != nil {
		log.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	cfg.PrintStartupSummary()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := storage.Open(openCtx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := storage.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	notesService := notes.NewService(storage.NewPostgresStore(db))

	renderer, err := web.NewRenderer(cfg.TemplatesDir)
	if err != nil {
		log.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	limiter := ratelimit.NewRateLimiter(cfg.RateLimitConfig)
	defer limiter.Stop()

	mux := http.NewServeMux()
	api.NewHandler(notesService, m).RegisterRoutes(mux)
	web.NewHandler(renderer, notesService, cfg.StaticDir).RegisterRoutes(mux)
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "store unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	handler := obs.RequestContextMiddleware(
		obs.AccessLogMiddleware("http",
			ratelimit.Middleware(limiter)(mux)))

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}
}
