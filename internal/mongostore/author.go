package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"investing/internal/models"
)

// AuthorStore handles author persistence in MongoDB.
type AuthorStore struct {
	coll *mongo.Collection
}

// List returns authors sorted by name.
func (s *AuthorStore) List(ctx context.Context) ([]models.Author, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}
	defer cur.Close(ctx)

	items := []models.Author{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}
	return items, nil
}

// FindByID returns an author or nil if not found.
func (s *AuthorStore) FindByID(ctx context.Context, id string) (*models.Author, error) {
	var a models.Author
	found, err := findOne(ctx, s.coll, bson.D{{Key: "_id", Value: id}}, &a)
	if err != nil {
		return nil, fmt.Errorf("find author: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &a, nil
}

// Create inserts an author. A taken email reports apperr.ErrAlreadyExists.
func (s *AuthorStore) Create(ctx context.Context, a *models.Author) error {
	if _, err := s.coll.InsertOne(ctx, a); err != nil {
		return writeErr("insert author", err)
	}
	return nil
}
