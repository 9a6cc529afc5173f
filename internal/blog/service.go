// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog manages posts and authors. Every post write resolves its
// category through the taxonomy binder, so a post is never saved with a
// dangling categoryId.
package blog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"investing/internal/models"
)

// PostStore persists posts. Lookups return (nil, nil) on a miss; a taken
// slug is reported as apperr.ErrAlreadyExists.
type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (*models.PostSummary, error)
	ListPublished(ctx context.Context, now time.Time, page models.Page) ([]models.PostSummary, error)
	IncrementViews(ctx context.Context, id string) error
	// TopByViews lists posts of any status, most viewed first, newest first
	// among equals. A limit of 0 means no limit.
	TopByViews(ctx context.Context, limit int) ([]models.Post, error)
	Totals(ctx context.Context, since time.Time) (models.PostTotals, error)
}

// AuthorStore persists authors.
type AuthorStore interface {
	List(ctx context.Context) ([]models.Author, error)
	FindByID(ctx context.Context, id string) (*models.Author, error)
	Create(ctx context.Context, a *models.Author) error
}

// CategoryResolver checks that a category exists before a post points at
// it, and counts categories for the metrics. *taxonomy.Service implements
// it.
type CategoryResolver interface {
	ResolveCategoryForPost(ctx context.Context, categoryID string) (*models.Category, error)
	CountCategories(ctx context.Context) (int64, error)
}

// Service implements post and author operations.
type Service struct {
	posts      PostStore
	authors    AuthorStore
	categories CategoryResolver

	now   func() time.Time
	newID func() string
}

// New creates a blog service.
func New(posts PostStore, authors AuthorStore, categories CategoryResolver) *Service {
	return &Service{
		posts:      posts,
		authors:    authors,
		categories: categories,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
