// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// Category is a node of the two-level category hierarchy. The tree is
// stored flat; ParentID points at the parent category (nil for roots).
type Category struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description" bson:"description"`
	Color       string    `json:"color" bson:"color"`
	Icon        string    `json:"icon" bson:"icon"`
	Level       int       `json:"level" bson:"level"`
	Order       int       `json:"order" bson:"order"`
	ParentID    *string   `json:"parentId" bson:"parentId"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// CategoryLess orders categories by level, order, name, then creation time
// and ID so that equal keys still sort deterministically.
func CategoryLess(a, b *Category) bool {
	if a.Level != b.Level {
		return a.Level < b.Level
	}
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// SortCategories sorts cats in place by CategoryLess.
func SortCategories(cats []Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		return CategoryLess(&cats[i], &cats[j])
	})
}

// CategoryNode is a category in the hierarchical view, annotated with
// read-time post counts.
type CategoryNode struct {
	Category
	Depth          int             `json:"depth"`
	PostCount      int64           `json:"postCount"`
	TotalPostCount int64           `json:"totalPostCount"`
	Children       []*CategoryNode `json:"children"`
}

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	Level       int     `json:"level"`
	Order       int     `json:"order"`
	ParentID    *string `json:"parentId"`
}

// CategoryPatch is a partial update. Nil fields are left untouched.
type CategoryPatch struct {
	Name        *string    `json:"name"`
	Slug        *string    `json:"slug"`
	Description *string    `json:"description"`
	Color       *string    `json:"color"`
	Icon        *string    `json:"icon"`
	Level       *int       `json:"level"`
	Order       *int       `json:"order"`
	ParentID    OptionalID `json:"parentId"`
}

// OptionalID distinguishes an absent JSON field from an explicit null.
// Set is true when the field was present; Value is nil for null.
type OptionalID struct {
	Set   bool
	Value *string
}

// SomeID returns an OptionalID set to id.
func SomeID(id string) OptionalID {
	return OptionalID{Set: true, Value: &id}
}

// NullID returns an OptionalID that clears the reference.
func NullID() OptionalID {
	return OptionalID{Set: true}
}

// UnmarshalJSON marks the field as present and decodes null or a string.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		o.Value = nil
		return nil
	}
	o.Value = &s
	return nil
}

// CategoryRef is the category summary embedded in post projections.
type CategoryRef struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Slug  string `json:"slug" bson:"slug"`
	Color string `json:"color" bson:"color"`
	Icon  string `json:"icon" bson:"icon"`
}

// CategoryOrder moves one category within its siblings.
type CategoryOrder struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}
