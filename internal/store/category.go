// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"investing/internal/apperr"
	"investing/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, color, icon, level, sort_order, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.Icon,
		&c.Level, &c.Order, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) query(ctx context.Context, q string, args ...any) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// List returns all categories ordered by level, sort_order, name. Names
// compare with the "C" collation, the byte order models.CategoryLess uses.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	return s.query(ctx, `SELECT `+categoryColumns+` FROM categories
		ORDER BY level, sort_order, name COLLATE "C", created_at, id`)
}

// ListRoots returns level-0 categories.
func (s *CategoryStore) ListRoots(ctx context.Context) ([]models.Category, error) {
	return s.query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE level = 0
		ORDER BY sort_order, name COLLATE "C", created_at, id`)
}

// ListChildren returns direct children of parentID.
func (s *CategoryStore) ListChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	return s.query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1
		ORDER BY sort_order, name COLLATE "C", created_at, id`, parentID)
}

// Count returns the number of categories.
func (s *CategoryStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// CountChildren counts direct children of parentID.
func (s *CategoryStore) CountChildren(ctx context.Context, parentID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1`, parentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count subcategories: %w", err)
	}
	return n, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	return s.findOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.findOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
}

func (s *CategoryStore) findOne(ctx context.Context, q string, arg string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, q, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

// Create inserts a new category.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, c.ID, c.Name, c.Slug, c.Description, c.Color, c.Icon,
		c.Level, c.Order, c.ParentID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrapErr("create category", err)
	}
	return nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, color = $4, icon = $5,
			level = $6, sort_order = $7, parent_id = $8, updated_at = $9
		WHERE id = $10
	`, c.Name, c.Slug, c.Description, c.Color, c.Icon,
		c.Level, c.Order, c.ParentID, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return wrapErr("update category", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update category: %w", apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a category by ID. The parent_id foreign key is ON DELETE
// RESTRICT, so a category that still has children is refused by the
// database itself and reported as apperr.ErrConflict.
func (s *CategoryStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, wrapErr("delete category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return n > 0, nil
}

// Reorder updates sort_order for multiple categories in a transaction. An
// unknown ID rolls the whole batch back with apperr.ErrNotFound.
func (s *CategoryStore) Reorder(ctx context.Context, items []models.CategoryOrder, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE categories SET sort_order = $1, updated_at = $2
		WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		res, err := stmt.ExecContext(ctx, item.Order, now, item.ID)
		if err != nil {
			return fmt.Errorf("reorder category %s: %w", item.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("reorder category %s: %w", item.ID, apperr.ErrNotFound)
		}
	}

	return tx.Commit()
}
