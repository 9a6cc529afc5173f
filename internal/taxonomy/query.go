// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"

	"golang.org/x/sync/errgroup"

	"investing/internal/apperr"
	"investing/internal/models"
)

// Hierarchy returns the category forest with post counts. The category list
// and the grouped post count are read concurrently, so the result is not a
// snapshot: a write landing between the two reads can make a count lag its
// category by one request.
func (s *Service) Hierarchy(ctx context.Context) ([]*models.CategoryNode, error) {
	var (
		cats   []models.Category
		counts map[string]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cats, err = s.categories.List(gctx)
		return apperr.Storage("list categories", err)
	})
	g.Go(func() error {
		var err error
		counts, err = s.posts.CountGroupedByCategory(gctx)
		return apperr.Storage("count posts by category", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildTree(cats, counts), nil
}

// FlatList is the flat category listing.
func (s *Service) FlatList(ctx context.Context) ([]models.Category, error) {
	return s.ListAll(ctx)
}

// Subcategories is the listing of a parent's direct children.
func (s *Service) Subcategories(ctx context.Context, parentID string) ([]models.Category, error) {
	return s.ListChildren(ctx, parentID)
}

// CountCategories returns the total number of categories.
func (s *Service) CountCategories(ctx context.Context) (int64, error) {
	n, err := s.categories.Count(ctx)
	if err != nil {
		return 0, apperr.Storage("count categories", err)
	}
	return n, nil
}
