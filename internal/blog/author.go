// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"errors"
	"strings"

	"investing/internal/apperr"
	"investing/internal/models"
)

// ListAuthors returns all authors sorted by name.
func (s *Service) ListAuthors(ctx context.Context) ([]models.Author, error) {
	authors, err := s.authors.List(ctx)
	if err != nil {
		return nil, apperr.Storage("list authors", err)
	}
	if authors == nil {
		authors = []models.Author{}
	}
	return authors, nil
}

// GetAuthor returns one author.
func (s *Service) GetAuthor(ctx context.Context, id string) (*models.Author, error) {
	if !validID(id) {
		return nil, &apperr.NotFoundError{Resource: "author", Key: id}
	}
	a, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("find author", err)
	}
	if a == nil {
		return nil, &apperr.NotFoundError{Resource: "author", Key: id}
	}
	return a, nil
}

// CreateAuthor validates in and stores a new author. Emails are unique.
func (s *Service) CreateAuthor(ctx context.Context, in models.AuthorInput) (*models.Author, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateAuthor(in); err != nil {
		return nil, err
	}

	now := s.now()
	a := &models.Author{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Avatar:    in.Avatar,
		Bio:       in.Bio,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.authors.Create(ctx, a); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return nil, apperr.NewValidationError("email", "is already taken")
		}
		return nil, apperr.Storage("create author", err)
	}
	return a, nil
}

func (s *Service) resolveAuthor(ctx context.Context, id string) (*models.Author, error) {
	if !validID(id) {
		return nil, &apperr.ReferentialError{Field: "authorId", ID: id, Reason: "author does not exist"}
	}
	a, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("resolve post author", err)
	}
	if a == nil {
		return nil, &apperr.ReferentialError{Field: "authorId", ID: id, Reason: "author does not exist"}
	}
	return a, nil
}
