// Package mongostore is the MongoDB storage backend. Categories, posts and
// authors live in the categories, blog_posts and authors collections with
// string UUID _id values. Unique indexes on the slugs back the services'
// validate-then-write checks.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"investing/internal/apperr"
)

const (
	categoriesCollection = "categories"
	postsCollection      = "blog_posts"
	authorsCollection    = "authors"
)

// DB wraps a connected client and the application database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client for uri, verifies it with a ping and selects the
// named database.
func Connect(ctx context.Context, uri, database string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	slog.Info("mongodb connected", "database", database)
	return &DB{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

// Ping checks that the server is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Categories returns the category store.
func (d *DB) Categories() *CategoryStore {
	return &CategoryStore{coll: d.db.Collection(categoriesCollection)}
}

// Posts returns the post store.
func (d *DB) Posts() *PostStore {
	return &PostStore{coll: d.db.Collection(postsCollection)}
}

// Authors returns the author store.
func (d *DB) Authors() *AuthorStore {
	return &AuthorStore{coll: d.db.Collection(authorsCollection)}
}

// EnsureIndexes creates the indexes the stores rely on. It is idempotent.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		categoriesCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_slug")},
			{Keys: bson.D{{Key: "parentId", Value: 1}, {Key: "order", Value: 1}, {Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "level", Value: 1}, {Key: "order", Value: 1}, {Key: "name", Value: 1}}},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_slug")},
			{Keys: bson.D{{Key: "categoryId", Value: 1}, {Key: "status", Value: 1}, {Key: "publishedAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "publishedAt", Value: -1}}},
		},
		authorsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
	}

	for coll, specs := range indexes {
		if _, err := d.db.Collection(coll).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	slog.Info("mongodb indexes ensured")
	return nil
}

// writeErr maps unique-index violations onto apperr.ErrAlreadyExists.
func writeErr(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, apperr.ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// findOne decodes a single document into out. It reports false on a miss.
func findOne(ctx context.Context, coll *mongo.Collection, filter bson.D, out interface{}) (bool, error) {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
