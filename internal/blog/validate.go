// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"investing/internal/models"
	"investing/internal/slug"
	"investing/internal/taxonomy"
)

var postStatuses = []interface{}{
	models.PostStatusDraft,
	models.PostStatusPublished,
	models.PostStatusArchived,
}

var slugRule = validation.By(func(value interface{}) error {
	if s, _ := value.(string); !slug.IsValid(s) {
		return errors.New("must contain only lowercase letters, digits and single hyphens")
	}
	return nil
})

func validatePost(p *models.Post) error {
	return taxonomy.FieldErrors(validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Slug, validation.Required, validation.Length(1, 200), slugRule),
		validation.Field(&p.Excerpt, validation.Length(0, 500)),
		validation.Field(&p.Content, validation.Required),
		validation.Field(&p.FeaturedImage, is.RequestURI),
		validation.Field(&p.CategoryID, validation.Required),
		validation.Field(&p.AuthorID, validation.Required),
		validation.Field(&p.Tags, validation.Length(0, 20), validation.Each(validation.Length(1, 40))),
		validation.Field(&p.Status, validation.Required, validation.In(postStatuses...)),
		validation.Field(&p.ReadTime, validation.Min(0)),
	))
}

func validateAuthor(in models.AuthorInput) error {
	return taxonomy.FieldErrors(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Avatar, is.RequestURI),
		validation.Field(&in.Bio, validation.Length(0, 1000)),
	))
}
