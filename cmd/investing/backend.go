package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"investing/internal/blog"
	"investing/internal/config"
	"investing/internal/database"
	"investing/internal/handlers"
	"investing/internal/memstore"
	"investing/internal/mongostore"
	"investing/internal/store"
	"investing/internal/taxonomy"
)

type postStore interface {
	blog.PostStore
	taxonomy.PostIndex
}

// backend is one storage driver opened and ready for the services.
type backend struct {
	categories taxonomy.CategoryStore
	posts      postStore
	authors    blog.AuthorStore
	ping       handlers.Pinger
	close      func()
}

// openBackend connects the configured storage driver and brings its schema
// up to date: goose migrations for PostgreSQL, indexes for MongoDB.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverPostgres:
		return openPostgres(cfg)
	case config.DriverMemory:
		slog.Warn("using the in-memory store, data is lost on exit")
		db := memstore.New()
		return &backend{
			categories: db.Categories(),
			posts:      db.Posts(),
			authors:    db.Authors(),
			ping:       func(context.Context) error { return nil },
			close:      func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func openMongo(ctx context.Context, cfg *config.Config) (*backend, error) {
	db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		db.Close(context.Background())
		return nil, err
	}
	return &backend{
		categories: db.Categories(),
		posts:      db.Posts(),
		authors:    db.Authors(),
		ping:       db.Ping,
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Close(ctx); err != nil {
				slog.Error("mongodb disconnect failed", "error", err)
			}
		},
	}, nil
}

func openPostgres(cfg *config.Config) (*backend, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &backend{
		categories: store.NewCategoryStore(db),
		posts:      store.NewPostStore(db),
		authors:    store.NewAuthorStore(db),
		ping:       pingSQL(db),
		close:      func() { db.Close() },
	}, nil
}

func pingSQL(db *sql.DB) handlers.Pinger {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}

// services builds the category core and the blog service over b.
func (b *backend) services(cfg *config.Config) (*taxonomy.Service, *blog.Service) {
	tax := taxonomy.New(b.categories, b.posts, taxonomy.Config{MaxLevel: cfg.CategoryMaxLevel})
	return tax, blog.New(b.posts, b.authors, tax)
}
