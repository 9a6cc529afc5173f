// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memstore is an in-process storage backend with the same contract
// as the MongoDB and PostgreSQL stores. It backs STORAGE_DRIVER=memory for
// local development and the service-level tests. Slug uniqueness is
// enforced under the write lock, like a unique index.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"investing/internal/apperr"
	"investing/internal/models"
)

// DB holds all collections behind a single lock.
type DB struct {
	mu         sync.RWMutex
	categories map[string]models.Category
	posts      map[string]models.Post
	authors    map[string]models.Author
}

// New returns an empty in-memory database.
func New() *DB {
	return &DB{
		categories: make(map[string]models.Category),
		posts:      make(map[string]models.Post),
		authors:    make(map[string]models.Author),
	}
}

// Categories returns the category collection.
func (db *DB) Categories() *CategoryStore { return &CategoryStore{db: db} }

// Posts returns the post collection.
func (db *DB) Posts() *PostStore { return &PostStore{db: db} }

// Authors returns the author collection.
func (db *DB) Authors() *AuthorStore { return &AuthorStore{db: db} }

// CategoryStore manages categories in memory.
type CategoryStore struct {
	db *DB
}

func (s *CategoryStore) filter(keep func(*models.Category) bool) []models.Category {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	items := make([]models.Category, 0, len(s.db.categories))
	for _, c := range s.db.categories {
		if keep(&c) {
			items = append(items, cloneCategory(c))
		}
	}
	models.SortCategories(items)
	return items
}

// List returns all categories ordered by level, order, name.
func (s *CategoryStore) List(_ context.Context) ([]models.Category, error) {
	return s.filter(func(*models.Category) bool { return true }), nil
}

// ListRoots returns level-0 categories.
func (s *CategoryStore) ListRoots(_ context.Context) ([]models.Category, error) {
	return s.filter(func(c *models.Category) bool { return c.Level == 0 }), nil
}

// ListChildren returns direct children of parentID.
func (s *CategoryStore) ListChildren(_ context.Context, parentID string) ([]models.Category, error) {
	return s.filter(func(c *models.Category) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	}), nil
}

// Count returns the number of categories.
func (s *CategoryStore) Count(_ context.Context) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return int64(len(s.db.categories)), nil
}

// CountChildren returns the number of direct children of parentID.
func (s *CategoryStore) CountChildren(_ context.Context, parentID string) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.countChildrenLocked(parentID), nil
}

func (db *DB) countChildrenLocked(parentID string) int {
	n := 0
	for _, c := range db.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			n++
		}
	}
	return n
}

// FindByID returns the category or nil if absent.
func (s *CategoryStore) FindByID(_ context.Context, id string) (*models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	c, ok := s.db.categories[id]
	if !ok {
		return nil, nil
	}
	c = cloneCategory(c)
	return &c, nil
}

// FindBySlug returns the category or nil if absent.
func (s *CategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, c := range s.db.categories {
		if c.Slug == slug {
			c = cloneCategory(c)
			return &c, nil
		}
	}
	return nil, nil
}

// Create inserts c. A taken slug or ID reports apperr.ErrAlreadyExists.
func (s *CategoryStore) Create(_ context.Context, c *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.categories[c.ID]; ok {
		return fmt.Errorf("create category: %w", apperr.ErrAlreadyExists)
	}
	if s.db.slugTakenLocked(c.Slug, c.ID) {
		return fmt.Errorf("create category: %w", apperr.ErrAlreadyExists)
	}
	s.db.categories[c.ID] = cloneCategory(*c)
	return nil
}

// Update replaces the stored category with c.
func (s *CategoryStore) Update(_ context.Context, c *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.categories[c.ID]; !ok {
		return fmt.Errorf("update category: %w", apperr.ErrNotFound)
	}
	if s.db.slugTakenLocked(c.Slug, c.ID) {
		return fmt.Errorf("update category: %w", apperr.ErrAlreadyExists)
	}
	s.db.categories[c.ID] = cloneCategory(*c)
	return nil
}

// Delete removes the category unless it has children, checked under the
// same lock as the removal.
func (s *CategoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.categories[id]; !ok {
		return false, nil
	}
	if s.db.countChildrenLocked(id) > 0 {
		return false, fmt.Errorf("delete category: %w", apperr.ErrConflict)
	}
	delete(s.db.categories, id)
	return true, nil
}

// Reorder sets the sort order of several categories at once. Nothing is
// written if any ID is unknown.
func (s *CategoryStore) Reorder(_ context.Context, items []models.CategoryOrder, now time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, item := range items {
		if _, ok := s.db.categories[item.ID]; !ok {
			return fmt.Errorf("reorder category %s: %w", item.ID, apperr.ErrNotFound)
		}
	}
	for _, item := range items {
		c := s.db.categories[item.ID]
		c.Order = item.Order
		c.UpdatedAt = now
		s.db.categories[item.ID] = c
	}
	return nil
}

// Put stores c without any checks. It exists to stage inconsistent data
// (orphans, cycles) that the service layer would refuse to write.
func (s *CategoryStore) Put(c models.Category) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.categories[c.ID] = cloneCategory(c)
}

func (db *DB) slugTakenLocked(slug, exceptID string) bool {
	for id, c := range db.categories {
		if c.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func cloneCategory(c models.Category) models.Category {
	if c.ParentID != nil {
		p := *c.ParentID
		c.ParentID = &p
	}
	return c
}

// PostStore manages posts in memory.
type PostStore struct {
	db *DB
}

// Create inserts p. A taken slug reports apperr.ErrAlreadyExists.
func (s *PostStore) Create(_ context.Context, p *models.Post) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[p.ID]; ok || s.db.postSlugTakenLocked(p.Slug, p.ID) {
		return fmt.Errorf("create post: %w", apperr.ErrAlreadyExists)
	}
	s.db.posts[p.ID] = clonePost(*p)
	return nil
}

// Update replaces the stored post with p, keeping the stored counters and
// creation time.
func (s *PostStore) Update(_ context.Context, p *models.Post) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.posts[p.ID]
	if !ok {
		return fmt.Errorf("update post: %w", apperr.ErrNotFound)
	}
	if s.db.postSlugTakenLocked(p.Slug, p.ID) {
		return fmt.Errorf("update post: %w", apperr.ErrAlreadyExists)
	}
	next := clonePost(*p)
	next.Views, next.Likes, next.CreatedAt = existing.Views, existing.Likes, existing.CreatedAt
	s.db.posts[p.ID] = next
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(_ context.Context, id string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[id]; !ok {
		return false, nil
	}
	delete(s.db.posts, id)
	return true, nil
}

// FindByID returns the post or nil if absent.
func (s *PostStore) FindByID(_ context.Context, id string) (*models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.posts[id]
	if !ok {
		return nil, nil
	}
	p = clonePost(p)
	return &p, nil
}

// FindBySlug returns the post with slug in any status, or nil.
func (s *PostStore) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, p := range s.db.posts {
		if p.Slug == slug {
			p = clonePost(p)
			return &p, nil
		}
	}
	return nil, nil
}

// FindPublishedBySlug returns the projection of a post visible at now.
func (s *PostStore) FindPublishedBySlug(_ context.Context, slug string, now time.Time) (*models.PostSummary, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, p := range s.db.posts {
		if p.Slug == slug && p.VisibleAt(now) {
			summary := s.db.summarizeLocked(p)
			return &summary, nil
		}
	}
	return nil, nil
}

// ListPublished returns posts visible at now, newest first.
func (s *PostStore) ListPublished(_ context.Context, now time.Time, page models.Page) ([]models.PostSummary, error) {
	return s.listVisible(now, page, func(*models.Post) bool { return true }), nil
}

// ListPublishedByCategory returns visible posts of one category, newest first.
func (s *PostStore) ListPublishedByCategory(_ context.Context, categoryID string, now time.Time, page models.Page) ([]models.PostSummary, error) {
	return s.listVisible(now, page, func(p *models.Post) bool { return p.CategoryID == categoryID }), nil
}

func (s *PostStore) listVisible(now time.Time, page models.Page, keep func(*models.Post) bool) []models.PostSummary {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var matched []models.Post
	for _, p := range s.db.posts {
		if keep(&p) && p.VisibleAt(now) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].PublishedAt, matched[j].PublishedAt
		if !a.Equal(*b) {
			return a.After(*b)
		}
		return matched[i].ID < matched[j].ID
	})

	matched = paginate(matched, page)
	items := make([]models.PostSummary, 0, len(matched))
	for _, p := range matched {
		items = append(items, s.db.summarizeLocked(p))
	}
	return items
}

func paginate[T any](items []T, page models.Page) []T {
	if page.Skip > 0 {
		if page.Skip >= len(items) {
			return nil
		}
		items = items[page.Skip:]
	}
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

// CountByCategory counts posts of any status referencing categoryID.
func (s *PostStore) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var n int64
	for _, p := range s.db.posts {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// CountGroupedByCategory counts posts of any status per category ID.
func (s *PostStore) CountGroupedByCategory(_ context.Context) (map[string]int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	counts := make(map[string]int64)
	for _, p := range s.db.posts {
		counts[p.CategoryID]++
	}
	return counts, nil
}

// IncrementViews adds one to the post's view counter.
func (s *PostStore) IncrementViews(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.posts[id]
	if !ok {
		return fmt.Errorf("increment views: %w", apperr.ErrNotFound)
	}
	p.Views++
	s.db.posts[id] = p
	return nil
}

// TopByViews returns up to limit posts of any status, most viewed first.
// Ties go to the newer post.
func (s *PostStore) TopByViews(_ context.Context, limit int) ([]models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	items := make([]models.Post, 0, len(s.db.posts))
	for _, p := range s.db.posts {
		items = append(items, clonePost(p))
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Views != b.Views {
			return a.Views > b.Views
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return paginate(items, models.Page{Limit: limit}), nil
}

// Totals counts all posts, those created at or after since, and their views.
func (s *PostStore) Totals(_ context.Context, since time.Time) (models.PostTotals, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var t models.PostTotals
	for _, p := range s.db.posts {
		t.Total++
		t.Views += p.Views
		if !p.CreatedAt.Before(since) {
			t.CreatedSince++
		}
	}
	return t, nil
}

func (db *DB) postSlugTakenLocked(slug, exceptID string) bool {
	for id, p := range db.posts {
		if p.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (db *DB) summarizeLocked(p models.Post) models.PostSummary {
	summary := models.PostSummary{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		FeaturedImage: p.FeaturedImage,
		Tags:          append([]string{}, p.Tags...),
		PublishedAt:   p.PublishedAt,
		ReadTime:      p.ReadTime,
		Views:         p.Views,
		Likes:         p.Likes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if c, ok := db.categories[p.CategoryID]; ok {
		summary.Category = &models.CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug, Color: c.Color, Icon: c.Icon}
	}
	if a, ok := db.authors[p.AuthorID]; ok {
		summary.Author = &models.AuthorRef{ID: a.ID, Name: a.Name, Avatar: a.Avatar}
	}
	return summary
}

func clonePost(p models.Post) models.Post {
	p.Tags = append([]string(nil), p.Tags...)
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		p.PublishedAt = &t
	}
	return p
}

// AuthorStore manages authors in memory.
type AuthorStore struct {
	db *DB
}

// List returns authors sorted by name.
func (s *AuthorStore) List(_ context.Context) ([]models.Author, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	items := make([]models.Author, 0, len(s.db.authors))
	for _, a := range s.db.authors {
		items = append(items, a)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// FindByID returns the author or nil if absent.
func (s *AuthorStore) FindByID(_ context.Context, id string) (*models.Author, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.authors[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// Create inserts a. Emails are unique.
func (s *AuthorStore) Create(_ context.Context, a *models.Author) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.authors[a.ID]; ok {
		return fmt.Errorf("create author: %w", apperr.ErrAlreadyExists)
	}
	for _, existing := range s.db.authors {
		if existing.Email == a.Email {
			return fmt.Errorf("create author: %w", apperr.ErrAlreadyExists)
		}
	}
	s.db.authors[a.ID] = *a
	return nil
}
