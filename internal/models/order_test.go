package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderStatusCancelable(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderPending, true},
		{OrderConfirmed, true},
		{OrderShipped, false},
		{OrderDelivered, false},
		{OrderCanceled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.True(t, tt.status.Valid())
			assert.Equal(t, tt.want, tt.status.Cancelable())
		})
	}
	assert.False(t, OrderStatus("lost").Valid())
}

func TestOrderViewUsesPlaceholdersForDanglingReferences(t *testing.T) {
	userID := primitive.NewObjectID()
	known := primitive.NewObjectID()
	gone := primitive.NewObjectID()

	order := Order{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Products: []OrderLine{
			{ProductID: known, Quantity: 2},
			{ProductID: gone, Quantity: 1},
		},
		Status:     OrderPending,
		TotalPrice: 42.5,
	}

	view := order.View(
		map[primitive.ObjectID]string{},
		map[primitive.ObjectID]string{known: "Shoes"},
	)

	assert.Equal(t, DeletedUserPlaceholder, view.Username)
	require.Len(t, view.Products, 2)
	assert.Equal(t, "Shoes", view.Products[0].ProductName)
	assert.Equal(t, 2, view.Products[0].Quantity)
	assert.Equal(t, DeletedProductPlaceholder, view.Products[1].ProductName)
	assert.Equal(t, 42.5, view.TotalPrice)

	view = order.View(map[primitive.ObjectID]string{userID: "alice"}, nil)
	assert.Equal(t, "alice", view.Username)
}
