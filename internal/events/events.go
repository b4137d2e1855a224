package events

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/models"
)

type Type string

const (
	OrderCreated  Type = "order.created"
	OrderUpdated  Type = "order.updated"
	OrderCanceled Type = "order.canceled"
	OrderDeleted  Type = "order.deleted"
)

// OrderEvent is the JSON message published after an order mutation.
type OrderEvent struct {
	Type    Type               `json:"type"`
	OrderID primitive.ObjectID `json:"orderId"`
	UserID  primitive.ObjectID `json:"userId"`
	Status  models.OrderStatus `json:"status"`
	At      time.Time          `json:"at"`
}

func NewOrderEvent(t Type, order models.Order) OrderEvent {
	return OrderEvent{
		Type:    t,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		At:      time.Now().UTC(),
	}
}

type Publisher interface {
	PublishOrder(ctx context.Context, event OrderEvent) error
	Close() error
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrder(context.Context, OrderEvent) error { return nil }
func (Noop) Close() error                                   { return nil }
