// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains of the
// investing API. Public read routes and the token-guarded admin group share
// the global middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"investing/internal/handlers"
	"investing/internal/middleware"
)

// Deps carries everything the route table mounts.
type Deps struct {
	Categories *handlers.Categories
	Posts      *handlers.Posts
	Authors    *handlers.Authors
	Analytics  *handlers.Analytics
	Health     http.HandlerFunc

	// AdminToken guards /api/admin. Empty disables the admin API.
	AdminToken string
	// Limiter throttles the admin API. Nil means unlimited.
	Limiter *middleware.RateLimiter
}

// New creates the chi router with all middleware and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", d.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Get("/hierarchical", d.Categories.Hierarchical)
			r.Get("/main", d.Categories.Main)
			r.Get("/subcategories/{parentId}", d.Categories.Subcategories)
			r.Get("/{slug}", d.Categories.BySlug)
		})

		r.Route("/blog-posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/category/{category}", d.Posts.ByCategory)
			r.Get("/{slug}", d.Posts.BySlug)
		})

		r.Route("/admin", func(r chi.Router) {
			if d.Limiter != nil {
				r.Use(d.Limiter.Middleware)
			}
			r.Use(middleware.RequireAdminToken(d.AdminToken))

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", d.Categories.List)
				r.Post("/", d.Categories.Create)
				r.Put("/reorder", d.Categories.Reorder)
				r.Get("/{id}", d.Categories.Get)
				r.Patch("/{id}", d.Categories.Update)
				r.Delete("/{id}", d.Categories.Delete)
			})

			r.Route("/blog-posts", func(r chi.Router) {
				r.Post("/", d.Posts.Create)
				r.Get("/{id}", d.Posts.Get)
				r.Patch("/{id}", d.Posts.Update)
				r.Delete("/{id}", d.Posts.Delete)
			})

			r.Route("/authors", func(r chi.Router) {
				r.Get("/", d.Authors.List)
				r.Post("/", d.Authors.Create)
				r.Get("/{id}", d.Authors.Get)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/metrics", d.Analytics.Metrics)
				r.Get("/top-posts", d.Analytics.TopPosts)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}` + "\n"))
	})

	return r
}
