// Package seed populates an empty store with the development data set:
// four main categories with a few subcategories, three authors and a
// handful of published posts. Everything goes through the services, so the
// seed obeys the same rules as the admin API.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"investing/internal/blog"
	"investing/internal/models"
	"investing/internal/taxonomy"
)

type category struct {
	input    models.CategoryInput
	children []models.CategoryInput
}

var categories = []category{
	{
		input: models.CategoryInput{Name: "Markets", Slug: "markets", Description: "Stock market analysis and trends", Color: "#10B981", Icon: "TrendingUp"},
		children: []models.CategoryInput{
			{Name: "Stocks", Slug: "stocks", Description: "Individual equities and indices", Color: "#10B981", Icon: "LineChart", Level: 1},
			{Name: "ETFs", Slug: "etfs", Description: "Exchange-traded funds", Color: "#10B981", Icon: "Layers", Level: 1, Order: 1},
		},
	},
	{
		input: models.CategoryInput{Name: "Crypto", Slug: "crypto", Description: "Cryptocurrency news and analysis", Color: "#F59E0B", Icon: "Bitcoin", Order: 1},
	},
	{
		input: models.CategoryInput{Name: "Earnings", Slug: "earnings", Description: "Company earnings reports and analysis", Color: "#3B82F6", Icon: "BarChart3", Order: 2},
	},
	{
		input: models.CategoryInput{Name: "Commodities", Slug: "commodities", Description: "Commodity market updates and trends", Color: "#EF4444", Icon: "Coins", Order: 3},
	},
}

var authors = []models.AuthorInput{
	{Name: "Sarah Johnson", Email: "sarah@investing.com", Avatar: "/professional-woman-diverse.png", Bio: "Senior Market Analyst with 10+ years of experience in financial markets"},
	{Name: "Michael Chen", Email: "michael@investing.com", Avatar: "/professional-man.png", Bio: "Cryptocurrency expert and blockchain technology specialist"},
	{Name: "Emily Rodriguez", Email: "emily@investing.com", Avatar: "/professional-woman-analyst.png", Bio: "Commodities trader and market researcher"},
}

type post struct {
	title, slug, excerpt, content, image string
	category, author                     string
	tags                                 []string
	age                                  time.Duration
	readTime                             int
}

var posts = []post{
	{
		title:    "S&P 500 Reaches New All-Time High Amid Tech Rally",
		slug:     "sp500-new-high-tech-rally",
		excerpt:  "The S&P 500 index closed at a record high yesterday, driven by strong performance in technology stocks.",
		content:  "The S&P 500 index reached unprecedented heights yesterday, closing at 4,850 points, marking a significant milestone for the broader market. This surge was primarily driven by exceptional performance in the technology sector, with major players like Apple, Microsoft, and Google leading the charge...",
		image:    "/sp500-chart.png",
		category: "markets",
		author:   "sarah@investing.com",
		tags:     []string{"S&P 500", "Technology", "Stock Market", "Rally"},
		age:      24 * time.Hour,
		readTime: 5,
	},
	{
		title:    "Bitcoin Surges Past $45,000 as Institutional Adoption Grows",
		slug:     "bitcoin-45k-institutional-adoption",
		excerpt:  "Bitcoin's price momentum continues as more institutional investors enter the cryptocurrency market.",
		content:  "Bitcoin has broken through the $45,000 resistance level, marking its highest price point in several months. This surge comes amid growing institutional adoption, with several major corporations and investment funds announcing significant Bitcoin allocations...",
		image:    "/bitcoin-institutional-chart.png",
		category: "crypto",
		author:   "michael@investing.com",
		tags:     []string{"Bitcoin", "Cryptocurrency", "Institutional Investment", "Price Analysis"},
		age:      12 * time.Hour,
		readTime: 4,
	},
	{
		title:    "Apple Reports Record Q4 Earnings, Beats Analyst Expectations",
		slug:     "apple-q4-earnings-record",
		excerpt:  "Apple's fourth quarter results exceeded Wall Street expectations with strong iPhone and services revenue.",
		content:  "Apple Inc. reported exceptional fourth-quarter earnings yesterday, surpassing analyst expectations across all major product categories. The tech giant posted revenue of $89.5 billion, representing a 8% year-over-year increase...",
		image:    "/broker-earnings-chart.png",
		category: "earnings",
		author:   "sarah@investing.com",
		tags:     []string{"Apple", "Earnings", "iPhone", "Technology"},
		age:      6 * time.Hour,
		readTime: 6,
	},
	{
		title:    "Gold Prices Climb to $2,100 Amid Economic Uncertainty",
		slug:     "gold-prices-2100-economic-uncertainty",
		excerpt:  "Gold continues its upward trajectory as investors seek safe-haven assets during market volatility.",
		content:  "Gold prices have reached $2,100 per ounce, marking a significant milestone for the precious metal. This surge reflects growing investor concern about economic uncertainty and inflation pressures...",
		image:    "/gold-price-chart.png",
		category: "commodities",
		author:   "emily@investing.com",
		tags:     []string{"Gold", "Commodities", "Safe Haven", "Economic Uncertainty"},
		age:      3 * time.Hour,
		readTime: 4,
	},
}

// Seed inserts the development data set unless categories already exist.
// Publication dates are relative to now.
func Seed(ctx context.Context, tax *taxonomy.Service, svc *blog.Service, now time.Time) error {
	existing, err := tax.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("database already seeded, skipping", "categories", len(existing))
		return nil
	}

	categoryIDs := make(map[string]string)
	for _, c := range categories {
		root, err := tax.Create(ctx, c.input)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.input.Slug, err)
		}
		categoryIDs[root.Slug] = root.ID
		for _, in := range c.children {
			in.ParentID = &root.ID
			child, err := tax.Create(ctx, in)
			if err != nil {
				return fmt.Errorf("seed category %s: %w", in.Slug, err)
			}
			categoryIDs[child.Slug] = child.ID
		}
	}

	authorIDs, err := seedAuthors(ctx, svc)
	if err != nil {
		return err
	}

	for _, p := range posts {
		publishedAt := now.Add(-p.age)
		_, err := svc.CreatePost(ctx, models.PostInput{
			Title:         p.title,
			Slug:          p.slug,
			Excerpt:       p.excerpt,
			Content:       p.content,
			FeaturedImage: p.image,
			CategoryID:    categoryIDs[p.category],
			AuthorID:      authorIDs[p.author],
			Tags:          p.tags,
			Status:        models.PostStatusPublished,
			PublishedAt:   &publishedAt,
			ReadTime:      p.readTime,
		})
		if err != nil {
			return fmt.Errorf("seed post %s: %w", p.slug, err)
		}
	}

	slog.Info("database seeded",
		"categories", len(categoryIDs),
		"authors", len(authorIDs),
		"posts", len(posts),
	)
	return nil
}

// seedAuthors creates the authors, reusing any that a previous partial run
// already inserted. It returns author IDs keyed by email.
func seedAuthors(ctx context.Context, svc *blog.Service) (map[string]string, error) {
	ids := make(map[string]string)
	current, err := svc.ListAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed list authors: %w", err)
	}
	for _, a := range current {
		ids[strings.ToLower(a.Email)] = a.ID
	}

	for _, in := range authors {
		if _, ok := ids[in.Email]; ok {
			continue
		}
		a, err := svc.CreateAuthor(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("seed author %s: %w", in.Email, err)
		}
		ids[a.Email] = a.ID
	}
	return ids, nil
}
