package memstore

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/database"
	"backoffice/internal/models"
)

type CategoryStore struct {
	mu   sync.RWMutex
	rows table[models.Category]
}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{rows: newTable[models.Category]()}
}

func (s *CategoryStore) List(_ context.Context, opts database.ListOptions) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows.list(opts, nil), nil
}

func (s *CategoryStore) Get(_ context.Context, id primitive.ObjectID) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows.get(id)
}

func (s *CategoryStore) Create(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := now()
	category.CreatedAt = ts
	category.UpdatedAt = ts
	category.ID = s.rows.insert(*category)
	s.rows.set(category.ID, *category)
	return nil
}

func (s *CategoryStore) Update(_ context.Context, id primitive.ObjectID, name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.rows.get(id)
	if err != nil {
		return models.Category{}, err
	}
	category.Name = name
	category.UpdatedAt = now()
	s.rows.set(id, category)
	return category, nil
}

func (s *CategoryStore) Delete(_ context.Context, id primitive.ObjectID) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows.remove(id)
}

// ProductStore enforces unique product names like the Mongo unique index.
type ProductStore struct {
	mu   sync.RWMutex
	rows table[models.Product]
}

func NewProductStore() *ProductStore {
	return &ProductStore{rows: newTable[models.Product]()}
}

func (s *ProductStore) List(_ context.Context, opts database.ListOptions) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows.list(opts, nil), nil
}

func (s *ProductStore) Get(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows.get(id)
}

func (s *ProductStore) nameTaken(name string, except primitive.ObjectID) bool {
	_, taken := s.rows.find(func(p models.Product) bool {
		return p.Name == name && p.ID != except
	})
	return taken
}

func (s *ProductStore) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(product.Name, primitive.NilObjectID) {
		return fmt.Errorf("%w: product name %q", database.ErrDuplicate, product.Name)
	}

	ts := now()
	product.CreatedAt = ts
	product.UpdatedAt = ts
	product.ID = s.rows.insert(*product)
	s.rows.set(product.ID, *product)
	return nil
}

func (s *ProductStore) Update(_ context.Context, id primitive.ObjectID, fields database.ProductFields) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.rows.get(id)
	if err != nil {
		return models.Product{}, err
	}
	name := fields.Name
	if s.nameTaken(name, id) {
		return models.Product{}, fmt.Errorf("%w: product name %q", database.ErrDuplicate, name)
	}

	product.Name = name
	product.Price = fields.Price
	product.Category = fields.Category
	product.Desc = fields.Desc
	product.UpdatedAt = now()
	s.rows.set(id, product)
	return product, nil
}

func (s *ProductStore) Delete(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows.remove(id)
}

// Names maps each existing product id to its name. Missing ids are absent.
func (s *ProductStore) Names(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if product, err := s.rows.get(id); err == nil {
			names[id] = product.Name
		}
	}
	return names, nil
}
