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

var (
	listSort     = bson.D{{Key: "level", Value: 1}, {Key: "order", Value: 1}, {Key: "name", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	siblingsSort = bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
)

// CategoryStore handles category persistence in MongoDB.
type CategoryStore struct {
	coll *mongo.Collection
}

func (s *CategoryStore) find(ctx context.Context, filter bson.D, sort bson.D) ([]models.Category, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cur.Close(ctx)

	items := []models.Category{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return items, nil
}

// List returns all categories ordered by level, order, name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	return s.find(ctx, bson.D{}, listSort)
}

// ListRoots returns level-0 categories.
func (s *CategoryStore) ListRoots(ctx context.Context) ([]models.Category, error) {
	return s.find(ctx, bson.D{{Key: "level", Value: 0}}, listSort)
}

// ListChildren returns direct children of parentID ordered by order, name.
func (s *CategoryStore) ListChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	return s.find(ctx, bson.D{{Key: "parentId", Value: parentID}}, siblingsSort)
}

// Count returns the number of categories.
func (s *CategoryStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// CountChildren counts direct children of parentID.
func (s *CategoryStore) CountChildren(ctx context.Context, parentID string) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "parentId", Value: parentID}})
	if err != nil {
		return 0, fmt.Errorf("count subcategories: %w", err)
	}
	return int(n), nil
}

// FindByID returns a category or nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// FindBySlug returns a category or nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

func (s *CategoryStore) findOne(ctx context.Context, filter bson.D) (*models.Category, error) {
	var c models.Category
	found, err := findOne(ctx, s.coll, filter, &c)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &c, nil
}

// Create inserts a category.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	if _, err := s.coll.InsertOne(ctx, c); err != nil {
		return writeErr("insert category", err)
	}
	return nil
}

// Update replaces the stored category document.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	res, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: c.ID}}, c)
	if err != nil {
		return writeErr("update category", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update category: %w", apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a category. MongoDB has no foreign keys, so the child
// count is checked once more right before the delete; a child inserted
// between the two calls is not caught.
func (s *CategoryStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.CountChildren(ctx, id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, fmt.Errorf("delete category: %w", apperr.ErrConflict)
	}

	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// Reorder sets the sort order of several categories with one unordered
// bulk write. The IDs are counted first so an unknown one fails the call
// before anything is written; the bulk write itself is not transactional.
func (s *CategoryStore) Reorder(ctx context.Context, items []models.CategoryOrder, now time.Time) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	writes := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		if !seen[item.ID] {
			seen[item.ID] = true
			ids = append(ids, item.ID)
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "_id", Value: item.ID}}).
			SetUpdate(bson.D{{Key: "$set", Value: bson.D{
				{Key: "order", Value: item.Order},
				{Key: "updatedAt", Value: now},
			}}}))
	}

	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return fmt.Errorf("reorder categories: %w", err)
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("reorder categories: %w", apperr.ErrNotFound)
	}

	if _, err := s.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("reorder categories: %w", err)
	}
	return nil
}
