// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the investing content API. It loads
// configuration, opens the configured store, and serves the category and
// blog endpoints with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"investing/internal/cache"
	"investing/internal/config"
	"investing/internal/handlers"
	"investing/internal/middleware"
	"investing/internal/router"
	"investing/internal/seed"
)

func main() {
	cmd := &cli.Command{
		Name:   "investing",
		Usage:  "Category and blog API for the investing content platform",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply PostgreSQL migrations or create MongoDB indexes",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "Insert the development categories, authors and posts",
				Action: seedData,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// setup loads the configuration and installs the default logger: text in
// development, JSON everywhere else.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.StorageDriver,
	)
	return cfg, nil
}

func migrate(ctx context.Context, _ *cli.Command) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	b.close()
	slog.Info("schema up to date", "storage", cfg.StorageDriver)
	return nil
}

func seedData(ctx context.Context, _ *cli.Command) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	tax, posts := b.services(cfg)
	return seed.Seed(ctx, tax, posts, time.Now().UTC())
}

func serve(ctx context.Context, _ *cli.Command) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	tax, posts := b.services(cfg)

	// Seed development data (no-op if categories already exist).
	if cfg.IsDev() {
		if err := seed.Seed(ctx, tax, posts, time.Now().UTC()); err != nil {
			return err
		}
	}

	checks := map[string]handlers.Pinger{"storage": b.ping}

	// The listing cache is optional; the API serves straight from the store
	// without it.
	var listings *cache.ListingCache
	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, listing cache disabled", "error", err)
		} else {
			defer client.Close()
			listings = cache.NewListingCache(client, cfg.ListingCacheTTL)
			checks["cache"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN is empty, admin API disabled")
	}

	r := router.New(router.Deps{
		Categories: handlers.NewCategories(tax, listings),
		Posts:      handlers.NewPosts(posts, tax, listings),
		Authors:    handlers.NewAuthors(posts),
		Analytics:  handlers.NewAnalytics(posts),
		Health:     handlers.Health(checks),
		AdminToken: cfg.AdminToken,
		Limiter:    limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
