package memstore

import (
	"context"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/database"
	"backoffice/internal/models"
)

type OrderStore struct {
	mu   sync.RWMutex
	rows table[models.Order]
}

func NewOrderStore() *OrderStore {
	return &OrderStore{rows: newTable[models.Order]()}
}

func (s *OrderStore) List(_ context.Context, opts database.ListOptions, includeCanceled bool) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rows.list(opts, func(o models.Order) bool {
		return includeCanceled || o.Status != models.OrderCanceled
	}), nil
}

func (s *OrderStore) Get(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows.get(id)
}

func (s *OrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := now()
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	order.Products = slices.Clone(order.Products)
	order.CreatedAt = ts
	order.UpdatedAt = ts
	order.ID = s.rows.insert(*order)
	s.rows.set(order.ID, *order)
	return nil
}

func (s *OrderStore) Update(_ context.Context, id primitive.ObjectID, patch database.OrderPatch) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.rows.get(id)
	if err != nil {
		return models.Order{}, err
	}
	if patch.UserID != nil {
		order.UserID = *patch.UserID
	}
	if patch.Products != nil {
		order.Products = slices.Clone(patch.Products)
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.TotalPrice != nil {
		order.TotalPrice = *patch.TotalPrice
	}
	order.UpdatedAt = now()
	s.rows.set(id, order)
	return order, nil
}

func (s *OrderStore) Cancel(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.rows.get(id)
	if err != nil {
		return models.Order{}, err
	}
	if !order.Status.Cancelable() {
		return models.Order{}, &database.StatusError{OrderID: id, Status: order.Status}
	}
	order.Status = models.OrderCanceled
	order.UpdatedAt = now()
	s.rows.set(id, order)
	return order, nil
}

func (s *OrderStore) Delete(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows.remove(id)
}
