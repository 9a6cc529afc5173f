// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy implements the category hierarchy: validated category
// CRUD over a flat parent-pointer collection, the tree builder behind the
// hierarchical view, the post-to-category binder and the deletion guard.
package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"investing/internal/apperr"
	"investing/internal/models"
)

// DefaultMaxLevel allows root categories and one level of subcategories.
const DefaultMaxLevel = 1

// Config tunes the category rules.
type Config struct {
	// MaxLevel is the deepest level a category may have. Zero or negative
	// selects DefaultMaxLevel.
	MaxLevel int
}

// Service is the category core. It holds no state of its own; the store
// is the single source of truth.
type Service struct {
	categories CategoryStore
	posts      PostIndex
	maxLevel   int

	now   func() time.Time
	newID func() string
}

// New creates a category service backed by the given stores.
func New(categories CategoryStore, posts PostIndex, cfg Config) *Service {
	maxLevel := cfg.MaxLevel
	if maxLevel <= 0 {
		maxLevel = DefaultMaxLevel
	}
	return &Service{
		categories: categories,
		posts:      posts,
		maxLevel:   maxLevel,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// MaxLevel returns the deepest level a category may have.
func (s *Service) MaxLevel() int {
	return s.maxLevel
}

// ListAll returns every category sorted by level, order, then name.
func (s *Service) ListAll(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperr.Storage("list categories", err)
	}
	return nonNil(cats), nil
}

// ListRoots returns the level-0 categories.
func (s *Service) ListRoots(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.ListRoots(ctx)
	if err != nil {
		return nil, apperr.Storage("list root categories", err)
	}
	return nonNil(cats), nil
}

// ListChildren returns the direct children of parentID sorted by order then
// name. An unknown parent yields an empty list, not an error.
func (s *Service) ListChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	if !validID(parentID) {
		return []models.Category{}, nil
	}
	cats, err := s.categories.ListChildren(ctx, parentID)
	if err != nil {
		return nil, apperr.Storage("list subcategories", err)
	}
	return nonNil(cats), nil
}

// GetByID returns the category with the given ID.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Category, error) {
	if !validID(id) {
		return nil, &apperr.NotFoundError{Resource: "category", Key: id}
	}
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("find category", err)
	}
	if c == nil {
		return nil, &apperr.NotFoundError{Resource: "category", Key: id}
	}
	return c, nil
}

// GetBySlug returns the category with the given slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, apperr.NewValidationError("slug", "cannot be blank")
	}
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Storage("find category by slug", err)
	}
	if c == nil {
		return nil, &apperr.NotFoundError{Resource: "category", Key: slug}
	}
	return c, nil
}

// Create validates in and inserts a new category. Field problems (including
// a taken slug) are reported as a ValidationError listing every failing
// field; a missing or misplaced parent as a ReferentialError.
func (s *Service) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	in = normalizeInput(in)
	if err := s.checkFields(ctx, in, "", true); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if err := s.checkParent(ctx, "", in.Level, *in.ParentID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	c := &models.Category{
		ID:          s.newID(),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		Level:       in.Level,
		Order:       in.Order,
		ParentID:    in.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			return nil, slugTaken()
		case errors.Is(err, apperr.ErrConflict):
			return nil, parentGone(c.ParentID)
		}
		return nil, apperr.Storage("create category", err)
	}
	return c, nil
}

// Update applies patch to the category and re-validates the merged record
// against the same rules as Create. Re-parenting also rejects cycles.
func (s *Service) Update(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := applyPatch(*current, patch)
	in := normalizeInput(inputOf(next))
	if err := s.checkFields(ctx, in, current.ID, in.Slug != current.Slug); err != nil {
		return nil, err
	}
	next.Name, next.Slug, next.Color, next.Icon, next.ParentID = in.Name, in.Slug, in.Color, in.Icon, in.ParentID

	if next.Level != current.Level {
		n, err := s.categories.CountChildren(ctx, current.ID)
		if err != nil {
			return nil, apperr.Storage("count subcategories", err)
		}
		if n > 0 {
			return nil, apperr.NewValidationError("level", "cannot change while the category has subcategories")
		}
	}
	if next.ParentID != nil && (!sameParent(current.ParentID, next.ParentID) || next.Level != current.Level) {
		if err := s.checkParent(ctx, current.ID, next.Level, *next.ParentID); err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = s.now()
	if err := s.categories.Update(ctx, &next); err != nil {
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			return nil, slugTaken()
		case errors.Is(err, apperr.ErrNotFound):
			return nil, &apperr.NotFoundError{Resource: "category", Key: id}
		case errors.Is(err, apperr.ErrConflict):
			return nil, parentGone(next.ParentID)
		}
		return nil, apperr.Storage("update category", err)
	}
	return &next, nil
}

// Reorder sets the sort order of several categories in one call. Only the
// order among siblings changes; level and parent are untouched. Every ID
// must exist or nothing is written.
func (s *Service) Reorder(ctx context.Context, items []models.CategoryOrder) error {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !validID(item.ID) {
			return &apperr.NotFoundError{Resource: "category", Key: item.ID}
		}
		if seen[item.ID] {
			return apperr.NewValidationError("items", fmt.Sprintf("category %s is listed twice", item.ID))
		}
		seen[item.ID] = true
	}

	if err := s.categories.Reorder(ctx, items, s.now()); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return &apperr.NotFoundError{Resource: "category", Key: "reorder batch"}
		}
		return apperr.Storage("reorder categories", err)
	}
	return nil
}

// parentGone reports a parent deleted between the existence check and the
// write, which the PostgreSQL foreign key surfaces as a conflict.
func parentGone(parentID *string) error {
	id := ""
	if parentID != nil {
		id = *parentID
	}
	return &apperr.ReferentialError{Field: "parentId", ID: id, Reason: "parent category does not exist"}
}

// checkFields runs the field rules and, when checkSlug is set and the slug
// is well-formed, the uniqueness lookup. A taken slug is merged into the
// same ValidationError as the other failing fields.
func (s *Service) checkFields(ctx context.Context, in models.CategoryInput, selfID string, checkSlug bool) error {
	var ve *apperr.ValidationError
	if err := validateCategory(in, s.maxLevel); err != nil && !errors.As(err, &ve) {
		return err
	}
	if checkSlug && (ve == nil || ve.Fields["slug"] == "") {
		if err := s.ensureSlugFree(ctx, in.Slug, selfID); err != nil {
			var taken *apperr.ValidationError
			if !errors.As(err, &taken) {
				return err
			}
			if ve == nil {
				return taken
			}
			for field, reason := range taken.Fields {
				ve.Fields[field] = reason
			}
		}
	}
	if ve != nil {
		return ve
	}
	return nil
}

func (s *Service) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	existing, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return apperr.Storage("check category slug", err)
	}
	if existing != nil && existing.ID != selfID {
		return slugTaken()
	}
	return nil
}

// checkParent verifies that parentID can be the parent of a category at
// level. selfID is empty on create; on update the ancestor chain of the
// parent is walked to reject cycles.
func (s *Service) checkParent(ctx context.Context, selfID string, level int, parentID string) error {
	if selfID != "" && parentID == selfID {
		return &apperr.ReferentialError{Field: "parentId", ID: parentID, Reason: "a category cannot be its own parent"}
	}
	if !validID(parentID) {
		return &apperr.ReferentialError{Field: "parentId", ID: parentID, Reason: "parent category does not exist"}
	}
	parent, err := s.categories.FindByID(ctx, parentID)
	if err != nil {
		return apperr.Storage("find parent category", err)
	}
	if parent == nil {
		return &apperr.ReferentialError{Field: "parentId", ID: parentID, Reason: "parent category does not exist"}
	}
	if parent.Level != level-1 {
		return &apperr.ReferentialError{
			Field:  "parentId",
			ID:     parentID,
			Reason: fmt.Sprintf("parent has level %d, expected %d", parent.Level, level-1),
		}
	}
	if selfID == "" {
		return nil
	}

	seen := map[string]bool{parent.ID: true}
	for cur := parent; !cur.IsRoot(); {
		next := *cur.ParentID
		if next == selfID {
			return &apperr.ReferentialError{Field: "parentId", ID: parentID, Reason: "would make the category its own ancestor"}
		}
		if seen[next] {
			break
		}
		seen[next] = true
		if cur, err = s.categories.FindByID(ctx, next); err != nil {
			return apperr.Storage("walk category ancestors", err)
		}
		if cur == nil {
			break
		}
	}
	return nil
}

func slugTaken() error {
	return apperr.NewValidationError("slug", "is already taken")
}

func applyPatch(c models.Category, p models.CategoryPatch) models.Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Level != nil {
		c.Level = *p.Level
	}
	if p.Order != nil {
		c.Order = *p.Order
	}
	if p.ParentID.Set {
		c.ParentID = p.ParentID.Value
	}
	return c
}

func inputOf(c models.Category) models.CategoryInput {
	return models.CategoryInput{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		Level:       c.Level,
		Order:       c.Order,
		ParentID:    c.ParentID,
	}
}

func normalizeInput(in models.CategoryInput) models.CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	in.Color = strings.TrimSpace(in.Color)
	in.Icon = strings.TrimSpace(in.Icon)
	if in.ParentID != nil {
		id := strings.TrimSpace(*in.ParentID)
		if id == "" {
			in.ParentID = nil
		} else {
			in.ParentID = &id
		}
	}
	return in
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nonNil(cats []models.Category) []models.Category {
	if cats == nil {
		return []models.Category{}
	}
	return cats
}
