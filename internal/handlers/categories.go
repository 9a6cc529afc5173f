// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"investing/internal/cache"
	"investing/internal/models"
	"investing/internal/taxonomy"
)

// Categories serves the public category listings and the admin category
// endpoints.
type Categories struct {
	svc   *taxonomy.Service
	cache *cache.ListingCache
}

// NewCategories creates the category handlers. A nil cache disables
// listing invalidation.
func NewCategories(svc *taxonomy.Service, lc *cache.ListingCache) *Categories {
	return &Categories{svc: svc, cache: lc}
}

// categoryDetail is the admin view of one category.
type categoryDetail struct {
	models.Category
	PostCount int64 `json:"postCount"`
	CanDelete bool  `json:"canDelete"`
}

// List handles GET /api/categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.FlatList(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Hierarchical handles GET /api/categories/hierarchical. Counts are read
// live on every request.
func (h *Categories) Hierarchical(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.Hierarchy(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tree == nil {
		tree = []*models.CategoryNode{}
	}
	writeJSON(w, http.StatusOK, tree)
}

// Main handles GET /api/categories/main.
func (h *Categories) Main(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListRoots(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// BySlug handles GET /api/categories/{slug}.
func (h *Categories) BySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Subcategories handles GET /api/categories/subcategories/{parentId}.
func (h *Categories) Subcategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Subcategories(r.Context(), chi.URLParam(r, "parentId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Get handles GET /api/admin/categories/{id}.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	c, err := h.svc.GetByID(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	count, err := h.svc.CountPostsForCategory(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	canDelete, err := h.svc.CanDelete(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryDetail{Category: *c, PostCount: count, CanDelete: canDelete})
}

// Create handles POST /api/admin/categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, c)
}

// Update handles PATCH /api/admin/categories/{id}.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.CategoryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/admin/categories/{id}. Posts that pointed at
// the category keep their reference and lose the embedded category in
// listings.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	Items []models.CategoryOrder `json:"items"`
}

// Reorder handles PUT /api/admin/categories/reorder.
func (h *Categories) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Reorder(r.Context(), req.Items); err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
