package store

import (
	"context"
	"database/sql"
	"fmt"

	"investing/internal/models"
)

// AuthorStore handles author database operations.
type AuthorStore struct {
	db *sql.DB
}

// NewAuthorStore creates a new AuthorStore with the given database connection.
func NewAuthorStore(db *sql.DB) *AuthorStore {
	return &AuthorStore{db: db}
}

const authorColumns = `id, name, email, avatar, bio, created_at, updated_at`

func scanAuthor(scanner interface{ Scan(...any) error }) (*models.Author, error) {
	var a models.Author
	if err := scanner.Scan(&a.ID, &a.Name, &a.Email, &a.Avatar, &a.Bio, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all authors ordered by name.
func (s *AuthorStore) List(ctx context.Context) ([]models.Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+authorColumns+` FROM authors ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	authors := []models.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, *a)
	}
	return authors, rows.Err()
}

// FindByID retrieves an author by ID. Returns nil if not found.
func (s *AuthorStore) FindByID(ctx context.Context, id string) (*models.Author, error) {
	a, err := scanAuthor(s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find author by id: %w", err)
	}
	return a, nil
}

// Create inserts a new author. A taken email is apperr.ErrAlreadyExists.
func (s *AuthorStore) Create(ctx context.Context, a *models.Author) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO authors (`+authorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.Name, a.Email, a.Avatar, a.Bio, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return wrapErr("create author", err)
	}
	return nil
}
