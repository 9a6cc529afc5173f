// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"errors"

	"investing/internal/apperr"
)

// CanDelete reports whether the category has no subcategories. Posts that
// reference the category never block deletion.
func (s *Service) CanDelete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return true, nil
	}
	n, err := s.categories.CountChildren(ctx, id)
	if err != nil {
		return false, apperr.Storage("count subcategories", err)
	}
	return n == 0, nil
}

// Delete removes a childless category. The child count is re-read right
// before the delete; stores that can enforce it atomically (a foreign key,
// a locked check) report a late child as apperr.ErrConflict, which is
// surfaced as the same HasChildrenError. Posts referencing the category
// keep their now dangling categoryId.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return false, err
	}

	n, err := s.categories.CountChildren(ctx, id)
	if err != nil {
		return false, apperr.Storage("count subcategories", err)
	}
	if n > 0 {
		return false, &apperr.HasChildrenError{CategoryID: id, Children: n}
	}

	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return false, &apperr.HasChildrenError{CategoryID: id, Children: s.childrenAfterConflict(ctx, id)}
		}
		return false, apperr.Storage("delete category", err)
	}
	if !deleted {
		return false, &apperr.NotFoundError{Resource: "category", Key: id}
	}
	return true, nil
}

func (s *Service) childrenAfterConflict(ctx context.Context, id string) int {
	n, err := s.categories.CountChildren(ctx, id)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
