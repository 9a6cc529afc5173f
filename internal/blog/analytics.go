package blog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"investing/internal/apperr"
	"investing/internal/models"
	"investing/internal/taxonomy"
)

// DefaultTopPosts is the size of the top posts list when no limit is given.
const DefaultTopPosts = 10

// TopPosts returns the most viewed posts of any status. Equal view counts
// list the newer post first.
func (s *Service) TopPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if limit == 0 {
		limit = DefaultTopPosts
	}
	if limit < 0 || limit > taxonomy.MaxPageLimit {
		return nil, apperr.NewValidationError("limit", "must be between 1 and 100")
	}
	posts, err := s.posts.TopByViews(ctx, limit)
	if err != nil {
		return nil, apperr.Storage("list top posts", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// Metrics summarises the content totals and the posts created since the
// first day of the previous month (UTC). The post totals and the category
// count are read concurrently and are not a snapshot.
func (s *Service) Metrics(ctx context.Context) (*models.GrowthMetrics, error) {
	since := startOfPreviousMonth(s.now())

	var (
		totals     models.PostTotals
		categories int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.posts.Totals(gctx, since)
		return apperr.Storage("post totals", err)
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.CountCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.GrowthMetrics{
		TotalPosts:      totals.Total,
		TotalCategories: categories,
		TotalViews:      totals.Views,
		Since:           since,
		MonthlyGrowth:   models.MonthlyGrowth{Posts: totals.CreatedSince},
	}, nil
}

func startOfPreviousMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
}
