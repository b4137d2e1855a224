package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backoffice/internal/models"
)

// OrderPatch carries the order fields to change; nil fields are left untouched.
type OrderPatch struct {
	UserID     *primitive.ObjectID
	Products   []models.OrderLine
	Status     *models.OrderStatus
	TotalPrice *float64
}

func (p OrderPatch) Empty() bool {
	return p.UserID == nil && p.Products == nil && p.Status == nil && p.TotalPrice == nil
}

// StatusError reports an order whose current status forbids the requested transition.
type StatusError struct {
	OrderID primitive.ObjectID
	Status  models.OrderStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("order %s is %s", e.OrderID.Hex(), e.Status)
}

type OrderStore struct {
	docs docStore[models.Order]
}

func NewOrderStore(db *mongo.Database, timeout time.Duration) *OrderStore {
	return &OrderStore{docs: newDocStore[models.Order](db, OrdersCollection, timeout)}
}

// List returns orders in insertion order. Canceled orders are skipped unless
// includeCanceled is set.
func (s *OrderStore) List(ctx context.Context, opts ListOptions, includeCanceled bool) ([]models.Order, error) {
	filter := bson.M{}
	if !includeCanceled {
		filter["status"] = bson.M{"$ne": models.OrderCanceled}
	}
	return s.docs.find(ctx, filter, opts)
}

func (s *OrderStore) Get(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return s.docs.findByID(ctx, id)
}

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	ts := now()
	order.ID = primitive.NilObjectID
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	order.CreatedAt = ts
	order.UpdatedAt = ts

	id, err := s.docs.insert(ctx, order)
	if err != nil {
		return err
	}
	order.ID = id
	return nil
}

func (s *OrderStore) Update(ctx context.Context, id primitive.ObjectID, patch OrderPatch) (models.Order, error) {
	set := bson.M{"updatedAt": now()}
	if patch.UserID != nil {
		set["userId"] = *patch.UserID
	}
	if patch.Products != nil {
		set["products"] = patch.Products
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.TotalPrice != nil {
		set["totalPrice"] = *patch.TotalPrice
	}
	return s.docs.updateOne(ctx, bson.M{"_id": id}, set)
}

// Cancel moves a pending or confirmed order to canceled. Orders in any other
// status yield a *StatusError.
func (s *OrderStore) Cancel(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	order, err := s.docs.updateOne(
		ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$in": []models.OrderStatus{models.OrderPending, models.OrderConfirmed}},
		},
		bson.M{
			"status":    models.OrderCanceled,
			"updatedAt": now(),
		},
	)
	if !errors.Is(err, ErrNotFound) {
		return order, err
	}

	current, err := s.docs.findByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	return models.Order{}, &StatusError{OrderID: id, Status: current.Status}
}

func (s *OrderStore) Delete(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return s.docs.deleteByID(ctx, id)
}
