package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"investing/internal/blog"
	"investing/internal/models"
)

// Authors serves the admin author endpoints.
type Authors struct {
	svc *blog.Service
}

func NewAuthors(svc *blog.Service) *Authors {
	return &Authors{svc: svc}
}

// List handles GET /api/admin/authors.
func (h *Authors) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.svc.ListAuthors(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authors)
}

// Get handles GET /api/admin/authors/{id}.
func (h *Authors) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAuthor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Create handles POST /api/admin/authors.
func (h *Authors) Create(w http.ResponseWriter, r *http.Request) {
	var in models.AuthorInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.svc.CreateAuthor(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}
