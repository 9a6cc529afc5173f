package handlers

import (
	"net/http"

	"investing/internal/blog"
)

// Analytics serves the admin metrics endpoints. Results are read live.
type Analytics struct {
	svc *blog.Service
}

func NewAnalytics(svc *blog.Service) *Analytics {
	return &Analytics{svc: svc}
}

// Metrics handles GET /api/admin/analytics/metrics.
func (h *Analytics) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Metrics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// TopPosts handles GET /api/admin/analytics/top-posts?limit=.
func (h *Analytics) TopPosts(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	posts, err := h.svc.TopPosts(r.Context(), page.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
