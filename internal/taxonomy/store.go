// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"time"

	"investing/internal/models"
)

// CategoryStore is the persistence contract for categories. Lookups return
// (nil, nil) when nothing matches. Create and Update report a taken slug
// with apperr.ErrAlreadyExists; Update reports a missing row with
// apperr.ErrNotFound; Delete reports a delete refused by the backend (a
// child appeared) with apperr.ErrConflict.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	ListRoots(ctx context.Context) ([]models.Category, error)
	ListChildren(ctx context.Context, parentID string) ([]models.Category, error)
	CountChildren(ctx context.Context, parentID string) (int, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) (bool, error)
	// Reorder sets sort orders in one call. An unknown ID is
	// apperr.ErrNotFound.
	Reorder(ctx context.Context, items []models.CategoryOrder, now time.Time) error
}

// PostIndex is the part of the post collection the category core reads.
// Counts cover posts of every status.
type PostIndex interface {
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	CountGroupedByCategory(ctx context.Context) (map[string]int64, error)
	ListPublishedByCategory(ctx context.Context, categoryID string, now time.Time, page models.Page) ([]models.PostSummary, error)
}
