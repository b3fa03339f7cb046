package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/SummonTheCat/smn-site-ciri/internal/components"
	"github.com/SummonTheCat/smn-site-ciri/internal/config"
	"github.com/SummonTheCat/smn-site-ciri/internal/observability"
	"github.com/SummonTheCat/smn-site-ciri/internal/page"
	"github.com/SummonTheCat/smn-site-ciri/internal/showcase"
	"github.com/SummonTheCat/smn-site-ciri/internal/statichost"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("showcase-site")

	router, err := newRouter(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("showcase site listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newRouter wires the component and showcase mounts, the health check and the
// static site fallback.
func newRouter(cfg config.Config, logger *zap.Logger) (http.Handler, error) {
	registry, err := newRegistry(cfg.Components)
	if err != nil {
		return nil, err
	}
	logger.Named("components").Info("components registered",
		zap.Int("count", registry.Len()),
		zap.Strings("names", registry.Names()),
	)

	composer := page.NewComposer(
		page.WithTemplatePath(cfg.Showcase.PageTemplate),
		page.WithPrefix(cfg.Showcase.Prefix),
		page.WithSanitizedMarkdown(cfg.Showcase.SanitizeMarkdown),
	)
	projects := showcase.NewHandler(showcase.HandlerConfig{
		Prefix:   cfg.Showcase.Prefix,
		TreeFile: cfg.Showcase.TreeFile,
		DataDir:  cfg.Showcase.DataDir,
	}, composer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Mount(cfg.Components.Prefix, components.NewDispatcher(registry, cfg.Components.Prefix))
	r.Mount(cfg.Showcase.Prefix, projects)
	r.Handle("/*", statichost.New(cfg.Static.Dir))

	return r, nil
}

func newRegistry(cfg config.ComponentsConfig) (*components.Registry, error) {
	registry := components.NewRegistry(cfg.Root)
	registry.Register(components.NewHeaderComponent())
	for _, path := range cfg.Simple {
		if err := registry.RegisterStatic(path); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
