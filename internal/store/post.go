// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"investing/internal/apperr"
	"investing/internal/models"
)

// PostStore handles blog post database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, excerpt, content, featured_image, category_id, author_id,
	tags, status, published_at, read_time, views, likes, created_at, updated_at`

// summarySelect joins the category and author summaries. LEFT JOIN keeps
// posts whose category or author no longer exists.
const summarySelect = `
	SELECT p.id, p.title, p.slug, p.excerpt, p.content, p.featured_image, p.tags,
	       p.published_at, p.read_time, p.views, p.likes, p.created_at, p.updated_at,
	       c.id, c.name, c.slug, c.color, c.icon,
	       a.id, a.name, a.avatar
	FROM blog_posts p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN authors a ON a.id = p.author_id
	WHERE p.status = 'published' AND p.published_at <= $1`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		p    models.Post
		tags []byte
	)
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.FeaturedImage,
		&p.CategoryID, &p.AuthorID, &tags, &p.Status, &p.PublishedAt,
		&p.ReadTime, &p.Views, &p.Likes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanSummary(scanner interface{ Scan(...any) error }) (*models.PostSummary, error) {
	var (
		p                                  models.PostSummary
		tags                               []byte
		catID, catName, catSlug, catColor  sql.NullString
		catIcon, authorID, authorName, ava sql.NullString
	)
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.FeaturedImage, &tags,
		&p.PublishedAt, &p.ReadTime, &p.Views, &p.Likes, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catSlug, &catColor, &catIcon,
		&authorID, &authorName, &ava,
	)
	if err != nil {
		return nil, err
	}
	if p.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if catID.Valid {
		p.Category = &models.CategoryRef{ID: catID.String, Name: catName.String, Slug: catSlug.String, Color: catColor.String, Icon: catIcon.String}
	}
	if authorID.Valid {
		p.Author = &models.AuthorRef{ID: authorID.String, Name: authorName.String, Avatar: ava.String}
	}
	return &p, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw []byte) ([]string, error) {
	tags := []string{}
	if len(raw) == 0 {
		return tags, nil
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

// Create inserts a new post.
func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO blog_posts (`+postColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.FeaturedImage, p.CategoryID, p.AuthorID,
		tags, p.Status, p.PublishedAt, p.ReadTime, p.Views, p.Likes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return wrapErr("create post", err)
	}
	return nil
}

// Update modifies an existing post. Views, likes and created_at are not
// touched so concurrent view increments survive.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE blog_posts SET
			title = $1, slug = $2, excerpt = $3, content = $4, featured_image = $5,
			category_id = $6, author_id = $7, tags = $8, status = $9,
			published_at = $10, read_time = $11, updated_at = $12
		WHERE id = $13
	`, p.Title, p.Slug, p.Excerpt, p.Content, p.FeaturedImage,
		p.CategoryID, p.AuthorID, tags, p.Status,
		p.PublishedAt, p.ReadTime, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return wrapErr("update post", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update post: %w", apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return n > 0, nil
}

// FindByID retrieves a post by ID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id string) (*models.Post, error) {
	return s.findOne(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id = $1`, id)
}

// FindBySlug retrieves a post in any status by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.findOne(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE slug = $1`, slug)
}

func (s *PostStore) findOne(ctx context.Context, q, arg string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, q, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug returns the projection of a post visible at now.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (*models.PostSummary, error) {
	p, err := scanSummary(s.db.QueryRowContext(ctx, summarySelect+` AND p.slug = $2`, now, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published post: %w", err)
	}
	return p, nil
}

// ListPublished returns posts visible at now, newest first.
func (s *PostStore) ListPublished(ctx context.Context, now time.Time, page models.Page) ([]models.PostSummary, error) {
	return s.summaries(ctx, summarySelect+`
		ORDER BY p.published_at DESC, p.id
		LIMIT $2 OFFSET $3`, now, limitArg(page), page.Skip)
}

// ListPublishedByCategory returns visible posts of one category, newest first.
func (s *PostStore) ListPublishedByCategory(ctx context.Context, categoryID string, now time.Time, page models.Page) ([]models.PostSummary, error) {
	return s.summaries(ctx, summarySelect+` AND p.category_id = $2
		ORDER BY p.published_at DESC, p.id
		LIMIT $3 OFFSET $4`, now, categoryID, limitArg(page), page.Skip)
}

// limitArg maps "no limit" to NULL, which PostgreSQL treats as LIMIT ALL.
func limitArg(page models.Page) any {
	if page.Limit <= 0 {
		return nil
	}
	return page.Limit
}

func (s *PostStore) summaries(ctx context.Context, q string, args ...any) ([]models.PostSummary, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	items := []models.PostSummary{}
	for rows.Next() {
		p, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// CountByCategory counts posts of any status referencing categoryID.
func (s *PostStore) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category posts: %w", err)
	}
	return n, nil
}

// CountGroupedByCategory counts posts of any status per category.
func (s *PostStore) CountGroupedByCategory(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category_id, COUNT(*) FROM blog_posts GROUP BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("count posts by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			id string
			n  int64
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan post count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// IncrementViews adds one to the post's view counter.
func (s *PostStore) IncrementViews(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE blog_posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("increment views: %w", apperr.ErrNotFound)
	}
	return nil
}

// TopByViews returns up to limit posts of any status, most viewed first.
func (s *PostStore) TopByViews(ctx context.Context, limit int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM blog_posts
		ORDER BY views DESC, created_at DESC, id
		LIMIT $1`, limitArg(models.Page{Limit: limit}))
	if err != nil {
		return nil, fmt.Errorf("list top posts: %w", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Totals counts all posts, those created at or after since, and their views.
func (s *PostStore) Totals(ctx context.Context, since time.Time) (models.PostTotals, error) {
	var t models.PostTotals
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE created_at >= $1),
		       COALESCE(SUM(views), 0)
		FROM blog_posts`, since).Scan(&t.Total, &t.CreatedSince, &t.Views)
	if err != nil {
		return models.PostTotals{}, fmt.Errorf("post totals: %w", err)
	}
	return t, nil
}
