package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backoffice/internal/models"
)

// ProductFields are the editable product fields. An update overwrites all of them.
type ProductFields struct {
	Name     string
	Price    float64
	Category string
	Desc     string
}

type ProductStore struct {
	docs docStore[models.Product]
}

func NewProductStore(db *mongo.Database, timeout time.Duration) *ProductStore {
	return &ProductStore{docs: newDocStore[models.Product](db, ProductsCollection, timeout)}
}

func (s *ProductStore) List(ctx context.Context, opts ListOptions) ([]models.Product, error) {
	return s.docs.find(ctx, bson.M{}, opts)
}

func (s *ProductStore) Get(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return s.docs.findByID(ctx, id)
}

// Create inserts the product. A name already in use yields ErrDuplicate.
func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	ts := now()
	product.ID = primitive.NilObjectID
	product.CreatedAt = ts
	product.UpdatedAt = ts

	id, err := s.docs.insert(ctx, product)
	if err != nil {
		return err
	}
	product.ID = id
	return nil
}

func (s *ProductStore) Update(ctx context.Context, id primitive.ObjectID, fields ProductFields) (models.Product, error) {
	return s.docs.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"name":      fields.Name,
		"price":     fields.Price,
		"category":  fields.Category,
		"desc":      fields.Desc,
		"updatedAt": now(),
	})
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return s.docs.deleteByID(ctx, id)
}

// Names maps product ids to product names for display.
func (s *ProductStore) Names(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	return s.docs.stringsByIDs(ctx, uniqueIDs(ids), "name")
}
