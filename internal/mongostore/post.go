package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"investing/internal/apperr"
	"investing/internal/models"
)

// summaryFields keeps the post display fields and the category and author
// summaries joined in by summaryPipeline.
var summaryFields = bson.D{
	{Key: "title", Value: 1},
	{Key: "slug", Value: 1},
	{Key: "excerpt", Value: 1},
	{Key: "content", Value: 1},
	{Key: "featuredImage", Value: 1},
	{Key: "tags", Value: 1},
	{Key: "publishedAt", Value: 1},
	{Key: "readTime", Value: 1},
	{Key: "views", Value: 1},
	{Key: "likes", Value: 1},
	{Key: "createdAt", Value: 1},
	{Key: "updatedAt", Value: 1},
	{Key: "category._id", Value: 1},
	{Key: "category.name", Value: 1},
	{Key: "category.slug", Value: 1},
	{Key: "category.color", Value: 1},
	{Key: "category.icon", Value: 1},
	{Key: "author._id", Value: 1},
	{Key: "author.name", Value: 1},
	{Key: "author.avatar", Value: 1},
}

// PostStore handles post persistence in MongoDB.
type PostStore struct {
	coll *mongo.Collection
}

// Create inserts a post.
func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		return writeErr("insert post", err)
	}
	return nil
}

// Update writes the editable fields of p. Counters and createdAt are left
// as stored so concurrent view increments are not overwritten.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	set := bson.D{
		{Key: "title", Value: p.Title},
		{Key: "slug", Value: p.Slug},
		{Key: "excerpt", Value: p.Excerpt},
		{Key: "content", Value: p.Content},
		{Key: "featuredImage", Value: p.FeaturedImage},
		{Key: "categoryId", Value: p.CategoryID},
		{Key: "authorId", Value: p.AuthorID},
		{Key: "tags", Value: p.Tags},
		{Key: "status", Value: p.Status},
		{Key: "publishedAt", Value: p.PublishedAt},
		{Key: "readTime", Value: p.ReadTime},
		{Key: "updatedAt", Value: p.UpdatedAt},
	}
	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: p.ID}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return writeErr("update post", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update post: %w", apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// FindByID returns a post or nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id string) (*models.Post, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// FindBySlug returns a post in any status or nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

func (s *PostStore) findOne(ctx context.Context, filter bson.D) (*models.Post, error) {
	var p models.Post
	found, err := findOne(ctx, s.coll, filter, &p)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

// FindPublishedBySlug returns the projection of a post visible at now.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (*models.PostSummary, error) {
	match := append(visibleFilter(now), bson.E{Key: "slug", Value: slug})
	items, err := s.summaries(ctx, match, models.Page{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// ListPublished returns posts visible at now, newest first.
func (s *PostStore) ListPublished(ctx context.Context, now time.Time, page models.Page) ([]models.PostSummary, error) {
	return s.summaries(ctx, visibleFilter(now), page)
}

// ListPublishedByCategory returns visible posts of one category, newest first.
func (s *PostStore) ListPublishedByCategory(ctx context.Context, categoryID string, now time.Time, page models.Page) ([]models.PostSummary, error) {
	match := append(visibleFilter(now), bson.E{Key: "categoryId", Value: categoryID})
	return s.summaries(ctx, match, page)
}

func (s *PostStore) summaries(ctx context.Context, match bson.D, page models.Page) ([]models.PostSummary, error) {
	cur, err := s.coll.Aggregate(ctx, summaryPipeline(match, page))
	if err != nil {
		return nil, fmt.Errorf("aggregate posts: %w", err)
	}
	defer cur.Close(ctx)

	items := []models.PostSummary{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return items, nil
}

// summaryPipeline filters and pages posts before joining category and
// author, so the lookups only run for the returned page. Missing
// references are kept with the sub-document absent.
func summaryPipeline(match bson.D, page models.Page) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "publishedAt", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if page.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(page.Skip)}})
	}
	if page.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(page.Limit)}})
	}
	return append(pipeline,
		lookupOne(categoriesCollection, "categoryId", "category"),
		bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$category"}, {Key: "preserveNullAndEmptyArrays", Value: true}}}},
		lookupOne(authorsCollection, "authorId", "author"),
		bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$author"}, {Key: "preserveNullAndEmptyArrays", Value: true}}}},
		bson.D{{Key: "$project", Value: summaryFields}},
	)
}

func lookupOne(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}}}
}

func visibleFilter(now time.Time) bson.D {
	return bson.D{
		{Key: "status", Value: models.PostStatusPublished},
		{Key: "publishedAt", Value: bson.D{{Key: "$lte", Value: now}}},
	}
}

// CountByCategory counts posts of any status referencing categoryID.
func (s *PostStore) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "categoryId", Value: categoryID}})
	if err != nil {
		return 0, fmt.Errorf("count category posts: %w", err)
	}
	return n, nil
}

// CountGroupedByCategory counts posts of any status per category in one
// aggregation.
func (s *PostStore) CountGroupedByCategory(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$categoryId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("group posts by category: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		CategoryID string `bson:"_id"`
		Count      int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode post counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}
	return counts, nil
}

// IncrementViews adds one to the post's view counter.
func (s *PostStore) IncrementViews(ctx context.Context, id string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}},
	)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("increment views: %w", apperr.ErrNotFound)
	}
	return nil
}

// TopByViews returns up to limit posts of any status, most viewed first.
func (s *PostStore) TopByViews(ctx context.Context, limit int) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "views", Value: -1},
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: 1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find top posts: %w", err)
	}
	defer cur.Close(ctx)

	items := []models.Post{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode top posts: %w", err)
	}
	return items, nil
}

// Totals counts all posts, those created at or after since, and their views
// in one aggregation.
func (s *PostStore) Totals(ctx context.Context, since time.Time) (models.PostTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "createdSince", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$gte", Value: bson.A{"$createdAt", since}}}, 1, 0}},
			}}}},
			{Key: "views", Value: bson.D{{Key: "$sum", Value: "$views"}}},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.PostTotals{}, fmt.Errorf("aggregate post totals: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total        int64 `bson:"total"`
		CreatedSince int64 `bson:"createdSince"`
		Views        int64 `bson:"views"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return models.PostTotals{}, fmt.Errorf("decode post totals: %w", err)
	}
	if len(rows) == 0 {
		return models.PostTotals{}, nil
	}
	return models.PostTotals{Total: rows[0].Total, CreatedSince: rows[0].CreatedSince, Views: rows[0].Views}, nil
}
