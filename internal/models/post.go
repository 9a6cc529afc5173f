// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PostStatus represents the publishing state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post is a blog article. CategoryID may dangle after its category is
// deleted; that is accepted data debt.
type Post struct {
	ID            string     `json:"id" bson:"_id"`
	Title         string     `json:"title" bson:"title"`
	Slug          string     `json:"slug" bson:"slug"`
	Excerpt       string     `json:"excerpt" bson:"excerpt"`
	Content       string     `json:"content" bson:"content"`
	FeaturedImage string     `json:"featuredImage" bson:"featuredImage"`
	CategoryID    string     `json:"categoryId" bson:"categoryId"`
	AuthorID      string     `json:"authorId" bson:"authorId"`
	Tags          []string   `json:"tags" bson:"tags"`
	Status        PostStatus `json:"status" bson:"status"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty" bson:"publishedAt"`
	ReadTime      int        `json:"readTime" bson:"readTime"`
	Views         int64      `json:"views" bson:"views"`
	Likes         int64      `json:"likes" bson:"likes"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// VisibleAt reports whether the post is publicly listed at t.
func (p *Post) VisibleAt(t time.Time) bool {
	return p.IsPublished() && p.PublishedAt != nil && !p.PublishedAt.After(t)
}

// PostSummary is the public projection of a post joined with its category
// and author. Category or Author is nil when the reference dangles.
type PostSummary struct {
	ID            string       `json:"id" bson:"_id"`
	Title         string       `json:"title" bson:"title"`
	Slug          string       `json:"slug" bson:"slug"`
	Excerpt       string       `json:"excerpt" bson:"excerpt"`
	Content       string       `json:"content" bson:"content"`
	FeaturedImage string       `json:"featuredImage" bson:"featuredImage"`
	Tags          []string     `json:"tags" bson:"tags"`
	PublishedAt   *time.Time   `json:"publishedAt,omitempty" bson:"publishedAt"`
	ReadTime      int          `json:"readTime" bson:"readTime"`
	Views         int64        `json:"views" bson:"views"`
	Likes         int64        `json:"likes" bson:"likes"`
	CreatedAt     time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt" bson:"updatedAt"`
	Category      *CategoryRef `json:"category,omitempty" bson:"category,omitempty"`
	Author        *AuthorRef   `json:"author,omitempty" bson:"author,omitempty"`
}

// PostInput is the payload for creating a post.
type PostInput struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featuredImage"`
	CategoryID    string     `json:"categoryId"`
	AuthorID      string     `json:"authorId"`
	Tags          []string   `json:"tags"`
	Status        PostStatus `json:"status"`
	PublishedAt   *time.Time `json:"publishedAt"`
	ReadTime      int        `json:"readTime"`
}

// PostPatch is a partial post update. Nil fields are left untouched.
type PostPatch struct {
	Title         *string     `json:"title"`
	Slug          *string     `json:"slug"`
	Excerpt       *string     `json:"excerpt"`
	Content       *string     `json:"content"`
	FeaturedImage *string     `json:"featuredImage"`
	CategoryID    *string     `json:"categoryId"`
	AuthorID      *string     `json:"authorId"`
	Tags          *[]string   `json:"tags"`
	Status        *PostStatus `json:"status"`
	PublishedAt   *time.Time  `json:"publishedAt"`
	ReadTime      *int        `json:"readTime"`
}

// Page holds optional pagination. Zero values mean "no limit" and "skip none".
type Page struct {
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}
