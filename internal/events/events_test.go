package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/models"
)

func TestOrderEventJSON(t *testing.T) {
	order := models.Order{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Status: models.OrderCanceled,
	}

	body, err := json.Marshal(NewOrderEvent(OrderCanceled, order))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "order.canceled", decoded["type"])
	assert.Equal(t, order.ID.Hex(), decoded["orderId"])
	assert.Equal(t, "canceled", decoded["status"])
	assert.NotEmpty(t, decoded["at"])
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.PublishOrder(context.Background(), OrderEvent{Type: OrderCreated}))
	assert.NoError(t, p.Close())
}
