// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"investing/internal/blog"
	"investing/internal/cache"
	"investing/internal/models"
	"investing/internal/taxonomy"
)

// Posts serves the public post listings and the admin post endpoints.
type Posts struct {
	blog  *blog.Service
	tax   *taxonomy.Service
	cache *cache.ListingCache
}

// NewPosts creates the post handlers.
func NewPosts(svc *blog.Service, tax *taxonomy.Service, lc *cache.ListingCache) *Posts {
	return &Posts{blog: svc, tax: tax, cache: lc}
}

// List handles GET /api/blog-posts. The optional category query parameter
// narrows the listing to one category slug.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cat := strings.TrimSpace(r.URL.Query().Get("category")); cat != "" {
		h.listCategory(w, r, cat, page)
		return
	}

	key := cache.AllPostsKey(page)
	if posts, ok := h.cache.Get(r.Context(), key); ok {
		writeJSON(w, http.StatusOK, posts)
		return
	}
	posts, err := h.blog.ListPublished(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.Set(r.Context(), key, posts)
	writeJSON(w, http.StatusOK, posts)
}

// ByCategory handles GET /api/blog-posts/category/{category}.
func (h *Posts) ByCategory(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.listCategory(w, r, chi.URLParam(r, "category"), page)
}

func (h *Posts) listCategory(w http.ResponseWriter, r *http.Request, slug string, page models.Page) {
	key := cache.CategoryPostsKey(slug, page)
	if posts, ok := h.cache.Get(r.Context(), key); ok {
		writeJSON(w, http.StatusOK, posts)
		return
	}
	posts, err := h.tax.ListPostsByCategorySlug(r.Context(), slug, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.Set(r.Context(), key, posts)
	writeJSON(w, http.StatusOK, posts)
}

// BySlug handles GET /api/blog-posts/{slug}. Every hit counts a view, so
// the response is never cached.
func (h *Posts) BySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.blog.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Get handles GET /api/admin/blog-posts/{id}, drafts included.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.blog.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create handles POST /api/admin/blog-posts.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.blog.CreatePost(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PATCH /api/admin/blog-posts/{id}.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.PostPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.blog.UpdatePost(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/admin/blog-posts/{id}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
