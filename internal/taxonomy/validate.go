// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"investing/internal/apperr"
	"investing/internal/models"
	"investing/internal/slug"
)

// MaxPageLimit caps the page size of post listings.
const MaxPageLimit = 100

var slugRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if !slug.IsValid(s) {
		return errors.New("must contain only lowercase letters, digits and single hyphens")
	}
	return nil
})

func validateCategory(in models.CategoryInput, maxLevel int) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Slug, validation.Required, validation.Length(1, 100), slugRule),
		validation.Field(&in.Description, validation.Length(0, 500)),
		validation.Field(&in.Color, validation.Required, validation.Length(1, 32)),
		validation.Field(&in.Icon, validation.Length(0, 64)),
		validation.Field(&in.Level,
			validation.Min(0),
			validation.Max(maxLevel),
			validation.When(in.ParentID == nil, validation.In(0).Error("must be 0 for a category without a parent")),
		),
	)
	return FieldErrors(err)
}

// ValidatePage rejects negative offsets and oversized pages.
func ValidatePage(p models.Page) error {
	return FieldErrors(validation.ValidateStruct(&p,
		validation.Field(&p.Limit, validation.Min(0), validation.Max(MaxPageLimit)),
		validation.Field(&p.Skip, validation.Min(0)),
	))
}

// FieldErrors converts ozzo validation errors into an apperr.ValidationError
// carrying one reason per failing field. Other errors pass through.
func FieldErrors(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &apperr.ValidationError{Fields: make(map[string]string, len(verrs))}
	for field, ferr := range verrs {
		ve.Fields[field] = ferr.Error()
	}
	return ve
}
