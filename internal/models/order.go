package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCanceled  OrderStatus = "canceled"
)

// Placeholders shown when an order references a user or product that no
// longer exists.
const (
	DeletedUserPlaceholder    = "[deleted user]"
	DeletedProductPlaceholder = "[deleted product]"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCanceled:
		return true
	}
	return false
}

// Cancelable reports whether an order in this status may move to canceled.
func (s OrderStatus) Cancelable() bool {
	return s == OrderPending || s == OrderConfirmed
}

// OrderLine is a single product entry within an order.
type OrderLine struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Order is the persisted order document. TotalPrice is supplied by the client
// and stored as-is.
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Products   []OrderLine        `bson:"products" json:"products"`
	Status     OrderStatus        `bson:"status" json:"status"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderLineView is an order line with the product reference resolved for display.
type OrderLineView struct {
	ProductID   primitive.ObjectID `json:"productId"`
	ProductName string             `json:"productName"`
	Quantity    int                `json:"quantity"`
}

// OrderView is an order with its user and product references resolved.
type OrderView struct {
	ID         primitive.ObjectID `json:"id"`
	UserID     primitive.ObjectID `json:"userId"`
	Username   string             `json:"username"`
	Products   []OrderLineView    `json:"products"`
	Status     OrderStatus        `json:"status"`
	TotalPrice float64            `json:"totalPrice"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// View resolves references using the given lookup tables. Missing entries get
// the deleted placeholders.
func (o Order) View(usernames, productNames map[primitive.ObjectID]string) OrderView {
	username, ok := usernames[o.UserID]
	if !ok {
		username = DeletedUserPlaceholder
	}

	lines := make([]OrderLineView, 0, len(o.Products))
	for _, line := range o.Products {
		name, ok := productNames[line.ProductID]
		if !ok {
			name = DeletedProductPlaceholder
		}
		lines = append(lines, OrderLineView{
			ProductID:   line.ProductID,
			ProductName: name,
			Quantity:    line.Quantity,
		})
	}

	return OrderView{
		ID:         o.ID,
		UserID:     o.UserID,
		Username:   username,
		Products:   lines,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
