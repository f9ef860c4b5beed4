// Package main is the entry point for the Pocket Guide API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/pkordes/pocket-guide/backend/internal/assets"
	"github.com/pkordes/pocket-guide/backend/internal/catalog"
	"github.com/pkordes/pocket-guide/backend/internal/config"
	"github.com/pkordes/pocket-guide/backend/internal/handler"
	"github.com/pkordes/pocket-guide/backend/internal/middleware"
	"github.com/pkordes/pocket-guide/backend/internal/repo"
	"github.com/pkordes/pocket-guide/backend/internal/service"
	"github.com/pkordes/pocket-guide/backend/internal/store"
	"github.com/pkordes/pocket-guide/backend/spec"
)

// maxBodyBytes bounds request bodies; the largest legitimate body is a single activity.
const maxBodyBytes = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	ctx := context.Background()
	kv, err := store.Open(ctx, store.Options{
		Driver:      cfg.StoreDriver,
		BadgerPath:  cfg.BadgerPath,
		DatabaseURL: cfg.DatabaseURL,
		RedisAddr:   cfg.RedisAddr,
	})
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()
	slog.Info("store opened", "driver", cfg.StoreDriver)

	trips := repo.NewTripRepo(kv, logger)
	favorites := repo.NewSetRepo(kv, repo.FavoritesKey, logger)
	visited := repo.NewSetRepo(kv, repo.VisitedKey, logger)

	// --- Catalog ----------------------------------------------------------
	// A failed first load is not fatal: catalog routes answer 503 until
	// POST /catalog/reload succeeds.
	holder := catalog.NewHolder(catalog.NewSource(cfg.CatalogSource, nil), logger)
	if err := holder.Reload(ctx); err != nil {
		slog.Warn("initial catalog load failed", "source", cfg.CatalogSource, "error", err)
	}

	// --- Assets -----------------------------------------------------------
	rules := assets.DefaultRules()
	if cfg.AssetRules != "" {
		if rules, err = assets.LoadRules(cfg.AssetRules); err != nil {
			slog.Error("failed to load asset rules", "path", cfg.AssetRules, "error", err)
			os.Exit(1)
		}
	}
	resolver := assets.NewResolver(rules, holder)

	var prober service.AssetProber
	switch {
	case cfg.AssetBaseURL != "":
		checker, err := assets.NewHTTPChecker(cfg.AssetBaseURL, cfg.ProbeTimeout, cfg.ProbeRate)
		if err != nil {
			slog.Error("invalid asset base url", "error", err)
			os.Exit(1)
		}
		prober = assets.NewProber(checker, logger)
	case cfg.AssetDir != "":
		checker, err := assets.NewDirChecker(cfg.AssetDir)
		if err != nil {
			slog.Error("failed to open asset dir", "error", err)
			os.Exit(1)
		}
		defer closeQuietly(checker)
		prober = assets.NewProber(checker, logger)
	default:
		slog.Info("no asset host configured; probing disabled")
	}

	// --- Services ---------------------------------------------------------
	srvDeps := handler.Deps{
		Trips:       service.NewTripService(trips),
		Collections: service.NewCollectionService(favorites, visited, holder),
		Assets:      service.NewAssetService(resolver, prober, assets.NewGuard(), holder, logger),
		Catalog:     holder,
		Export:      service.NewExportService(trips),
		OpenAPI:     spec.OpenAPI,
		AssetDir:    cfg.AssetDir,
		Log:         logger,
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit. The per-IP rate limit wraps only the API routes
	// (static asset files are exempt) and runs after RealIP so it is keyed
	// on the client address, not the proxy's.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))
	r.Mount("/", handler.NewServer(srvDeps).Routes(httprate.LimitByIP(cfg.RateLimit, time.Minute)))

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
		slog.Info("shutting down server")
	case err := <-serveErr:
		// Returning instead of os.Exit lets the deferred store close run.
		slog.Error("server error", "error", err)
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return
	}
	slog.Info("server stopped")
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("close failed", "error", err)
	}
}
