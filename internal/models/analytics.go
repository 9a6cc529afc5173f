package models

import "time"

// PostTotals aggregates the post collection for the admin metrics.
type PostTotals struct {
	Total        int64
	CreatedSince int64
	Views        int64
}

// MonthlyGrowth counts what was added since the start of the previous
// calendar month.
type MonthlyGrowth struct {
	Posts int64 `json:"posts"`
}

// GrowthMetrics is the admin analytics summary.
type GrowthMetrics struct {
	TotalPosts      int64         `json:"totalPosts"`
	TotalCategories int64         `json:"totalCategories"`
	TotalViews      int64         `json:"totalViews"`
	Since           time.Time     `json:"since"`
	MonthlyGrowth   MonthlyGrowth `json:"monthlyGrowth"`
}
