// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"

	"investing/internal/apperr"
	"investing/internal/models"
)

// ResolveCategoryForPost returns the category a post is about to reference.
// A post must never be saved with a dangling categoryId, so a missing
// category is a ReferentialError rather than NotFound.
func (s *Service) ResolveCategoryForPost(ctx context.Context, categoryID string) (*models.Category, error) {
	if !validID(categoryID) {
		return nil, &apperr.ReferentialError{Field: "categoryId", ID: categoryID, Reason: "category does not exist"}
	}
	c, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, apperr.Storage("resolve post category", err)
	}
	if c == nil {
		return nil, &apperr.ReferentialError{Field: "categoryId", ID: categoryID, Reason: "category does not exist"}
	}
	return c, nil
}

// CountPostsForCategory counts posts of any status referencing categoryID.
// It always reads the store.
func (s *Service) CountPostsForCategory(ctx context.Context, categoryID string) (int64, error) {
	if !validID(categoryID) {
		return 0, nil
	}
	n, err := s.posts.CountByCategory(ctx, categoryID)
	if err != nil {
		return 0, apperr.Storage("count category posts", err)
	}
	return n, nil
}

// ListPostsByCategorySlug returns the published posts of the category with
// the given slug, newest first. Posts scheduled in the future are excluded.
func (s *Service) ListPostsByCategorySlug(ctx context.Context, slug string, page models.Page) ([]models.PostSummary, error) {
	if err := ValidatePage(page); err != nil {
		return nil, err
	}
	c, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListPublishedByCategory(ctx, c.ID, s.now(), page)
	if err != nil {
		return nil, apperr.Storage("list category posts", err)
	}
	if posts == nil {
		posts = []models.PostSummary{}
	}
	return posts, nil
}
