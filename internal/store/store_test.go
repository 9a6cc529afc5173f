// store_test.go provides shared helpers for the store tests. Integration
// tests are skipped if PostgreSQL is not available; the sqlmock helper
// needs nothing running.
package store

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"

	"investing/internal/database"
	"investing/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "investing")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "investing")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// mockDB returns a sqlmock-backed connection whose expectations are
// verified when the test finishes.
func mockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

// cleanCategories deletes categories by ID, children first. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()
	for i := len(ids) - 1; i >= 0; i-- {
		db.Exec("DELETE FROM categories WHERE id = $1", ids[i])
	}
}

// cleanPosts removes test posts by ID. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM blog_posts WHERE id = $1", id)
	}
}

// cleanAuthors removes test authors by ID. Call in t.Cleanup().
func cleanAuthors(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM authors WHERE id = $1", id)
	}
}

func newCategory(name, slug string, level, order int, parentID *string) *models.Category {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		Color:     "#2563eb",
		Level:     level,
		Order:     order,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
