// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"investing/internal/apperr"
	"investing/internal/models"
	"investing/internal/slug"
	"investing/internal/taxonomy"
)

// wordsPerMinute is the reading speed used to estimate ReadTime.
const wordsPerMinute = 200

// CreatePost validates in, resolves its category and author and stores a
// new post. A published post without a publish date is stamped with now.
func (s *Service) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	now := s.now()
	p := &models.Post{
		ID:            s.newID(),
		Title:         strings.TrimSpace(in.Title),
		Slug:          strings.TrimSpace(in.Slug),
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		FeaturedImage: in.FeaturedImage,
		CategoryID:    strings.TrimSpace(in.CategoryID),
		AuthorID:      strings.TrimSpace(in.AuthorID),
		Tags:          normalizeTags(in.Tags),
		Status:        in.Status,
		PublishedAt:   in.PublishedAt,
		ReadTime:      in.ReadTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}

	if err := s.preparePost(ctx, p, nil); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return nil, apperr.NewValidationError("slug", "is already taken")
		}
		return nil, apperr.Storage("create post", err)
	}
	return p, nil
}

// UpdatePost applies patch and re-runs the create checks on the result.
// The category and author are re-resolved only when they change.
func (s *Service) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	current, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	next := applyPostPatch(*current, patch)
	next.UpdatedAt = s.now()
	if err := s.preparePost(ctx, &next, current); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, &next); err != nil {
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			return nil, apperr.NewValidationError("slug", "is already taken")
		case errors.Is(err, apperr.ErrNotFound):
			return nil, &apperr.NotFoundError{Resource: "post", Key: id}
		}
		return nil, apperr.Storage("update post", err)
	}
	return &next, nil
}

// preparePost validates p and checks its references. current is the stored
// version on update and nil on create.
func (s *Service) preparePost(ctx context.Context, p *models.Post, current *models.Post) error {
	p.Slug = strings.ToLower(p.Slug)
	if p.ReadTime == 0 {
		p.ReadTime = estimateReadTime(p.Content)
	}
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := s.now()
		p.PublishedAt = &now
	}

	if err := validatePost(p); err != nil {
		return err
	}

	if current == nil || p.Slug != current.Slug {
		existing, err := s.posts.FindBySlug(ctx, p.Slug)
		if err != nil {
			return apperr.Storage("check post slug", err)
		}
		if existing != nil && existing.ID != p.ID {
			return apperr.NewValidationError("slug", "is already taken")
		}
	}
	if current == nil || p.CategoryID != current.CategoryID {
		if _, err := s.categories.ResolveCategoryForPost(ctx, p.CategoryID); err != nil {
			return err
		}
	}
	if current == nil || p.AuthorID != current.AuthorID {
		if _, err := s.resolveAuthor(ctx, p.AuthorID); err != nil {
			return err
		}
	}
	return nil
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	if !validID(id) {
		return &apperr.NotFoundError{Resource: "post", Key: id}
	}
	deleted, err := s.posts.Delete(ctx, id)
	if err != nil {
		return apperr.Storage("delete post", err)
	}
	if !deleted {
		return &apperr.NotFoundError{Resource: "post", Key: id}
	}
	return nil
}

// GetPost returns a post in any status.
func (s *Service) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if !validID(id) {
		return nil, &apperr.NotFoundError{Resource: "post", Key: id}
	}
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("find post", err)
	}
	if p == nil {
		return nil, &apperr.NotFoundError{Resource: "post", Key: id}
	}
	return p, nil
}

// ListPublished returns the public post listing, newest first.
func (s *Service) ListPublished(ctx context.Context, page models.Page) ([]models.PostSummary, error) {
	if err := taxonomy.ValidatePage(page); err != nil {
		return nil, err
	}
	posts, err := s.posts.ListPublished(ctx, s.now(), page)
	if err != nil {
		return nil, apperr.Storage("list posts", err)
	}
	if posts == nil {
		posts = []models.PostSummary{}
	}
	return posts, nil
}

// GetPublishedBySlug returns a visible post and counts the view. A failed
// counter update is logged and never fails the read; concurrent readers may
// undercount.
func (s *Service) GetPublishedBySlug(ctx context.Context, postSlug string) (*models.PostSummary, error) {
	postSlug = strings.TrimSpace(postSlug)
	if postSlug == "" {
		return nil, apperr.NewValidationError("slug", "cannot be blank")
	}
	p, err := s.posts.FindPublishedBySlug(ctx, postSlug, s.now())
	if err != nil {
		return nil, apperr.Storage("find post by slug", err)
	}
	if p == nil {
		return nil, &apperr.NotFoundError{Resource: "post", Key: postSlug}
	}

	if err := s.posts.IncrementViews(ctx, p.ID); err != nil {
		slog.Warn("failed to count post view", "post_id", p.ID, "error", err)
	} else {
		p.Views++
	}
	return p, nil
}

func applyPostPatch(p models.Post, patch models.PostPatch) models.Post {
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Slug != nil {
		p.Slug = strings.TrimSpace(*patch.Slug)
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		p.Content = *patch.Content
		if patch.ReadTime == nil {
			p.ReadTime = 0
		}
	}
	if patch.FeaturedImage != nil {
		p.FeaturedImage = *patch.FeaturedImage
	}
	if patch.CategoryID != nil {
		p.CategoryID = strings.TrimSpace(*patch.CategoryID)
	}
	if patch.AuthorID != nil {
		p.AuthorID = strings.TrimSpace(*patch.AuthorID)
	}
	if patch.Tags != nil {
		p.Tags = normalizeTags(*patch.Tags)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.PublishedAt != nil {
		t := *patch.PublishedAt
		p.PublishedAt = &t
	}
	if patch.ReadTime != nil {
		p.ReadTime = *patch.ReadTime
	}
	return p
}

// normalizeTags trims tags and drops blanks and case-insensitive repeats,
// keeping the first spelling.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func estimateReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
