package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backoffice/internal/models"
)

type CategoryStore struct {
	docs docStore[models.Category]
}

func NewCategoryStore(db *mongo.Database, timeout time.Duration) *CategoryStore {
	return &CategoryStore{docs: newDocStore[models.Category](db, CategoriesCollection, timeout)}
}

func (s *CategoryStore) List(ctx context.Context, opts ListOptions) ([]models.Category, error) {
	return s.docs.find(ctx, bson.M{}, opts)
}

func (s *CategoryStore) Get(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	return s.docs.findByID(ctx, id)
}

func (s *CategoryStore) Create(ctx context.Context, category *models.Category) error {
	ts := now()
	category.ID = primitive.NilObjectID
	category.CreatedAt = ts
	category.UpdatedAt = ts

	id, err := s.docs.insert(ctx, category)
	if err != nil {
		return err
	}
	category.ID = id
	return nil
}

func (s *CategoryStore) Update(ctx context.Context, id primitive.ObjectID, name string) (models.Category, error) {
	return s.docs.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"name":      name,
		"updatedAt": now(),
	})
}

func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	return s.docs.deleteByID(ctx, id)
}
